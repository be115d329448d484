// Package postgres is the relational record-store driver, built on gorm.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for opening the database.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a gorm handle and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(&log, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return db, nil
}

// Migrate creates or alters the tables of every collection.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&domain.Destination{},
		&domain.Package{},
		&domain.Tour{},
		&domain.Policy{},
		&domain.Promotion{},
		&domain.PageContent{},
		&domain.Page{},
		&domain.ContentBlock{},
		&domain.User{},
		&domain.Booking{},
		&domain.Notification{},
		&domain.Payment{},
	)
}

type pinger struct{ db *gorm.DB }

func (p pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// NewStore returns a Store whose repositories are backed by db.
func NewStore(db *gorm.DB) *ports.Store {
	return &ports.Store{
		Destinations:  NewTable[domain.Destination](db, domain.CollectionDestinations),
		Packages:      NewTable[domain.Package](db, domain.CollectionPackages),
		Tours:         NewTable[domain.Tour](db, domain.CollectionTours),
		Policies:      NewTable[domain.Policy](db, domain.CollectionPolicies),
		Promotions:    NewTable[domain.Promotion](db, domain.CollectionPromotions),
		PageContents:  NewTable[domain.PageContent](db, domain.CollectionPageContents),
		Pages:         NewTable[domain.Page](db, domain.CollectionPages),
		ContentBlocks: NewTable[domain.ContentBlock](db, domain.CollectionContentBlocks),
		Users:         NewTable[domain.User](db, domain.CollectionUsers),
		Bookings:      NewTable[domain.Booking](db, domain.CollectionBookings),
		Notifications: NewTable[domain.Notification](db, domain.CollectionNotifications),
		Payments:      NewTable[domain.Payment](db, domain.CollectionPayments),
		Health:        pinger{db: db},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
