package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// Collection implements ports.Repository over one MongoDB collection.
// Documents use the record id as _id.
type Collection[T any, PT interface {
	*T
	domain.Entity
}] struct {
	col  *mongo.Collection
	name domain.Collection
}

func NewCollection[T any, PT interface {
	*T
	domain.Entity
}](db *mongo.Database, name domain.Collection) *Collection[T, PT] {
	return &Collection[T, PT]{col: db.Collection(string(name)), name: name}
}

// FindOne retrieves a document by id.
func (r *Collection[T, PT]) FindOne(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row T
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&row); err != nil {
		return nil, r.translate("find one", err)
	}
	return &row, nil
}

func (r *Collection[T, PT]) FindMany(ctx context.Context, q ports.Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if q.Sort != nil {
		dir := 1
		if q.Sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: fieldName(q.Sort.Field), Value: dir}, {Key: "created_at", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.col.Find(ctx, toBSON(q.Filter), opts)
	if err != nil {
		return nil, r.translate("find many", err)
	}
	defer cur.Close(ctx)

	rows := make([]T, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, r.translate("find many", err)
	}
	return rows, nil
}

func (r *Collection[T, PT]) Create(ctx context.Context, entity *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, entity); err != nil {
		return r.translate("create", err)
	}
	return nil
}

// Update sets every field except _id and created_at.
func (r *Collection[T, PT]) Update(ctx context.Context, entity *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := bson.Marshal(entity)
	if err != nil {
		return fmt.Errorf("update %s: encode: %w", r.name, err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return fmt.Errorf("update %s: encode: %w", r.name, err)
	}
	delete(set, "_id")
	delete(set, "created_at")

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": PT(entity).Meta().ID}, bson.M{"$set": set})
	if err != nil {
		return r.translate("update", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.translate("delete", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Collection[T, PT]) Count(ctx context.Context, f ports.Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, toBSON(f))
	if err != nil {
		return 0, r.translate("count", err)
	}
	return n, nil
}

func (r *Collection[T, PT]) Sum(ctx context.Context, field string, f ports.Filter) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: toBSON(f)}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$" + fieldName(field)}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, r.translate("sum", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, r.translate("sum", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (r *Collection[T, PT]) translate(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w", op, r.name, domain.ErrConflict)
	}
	return fmt.Errorf("%s %s: %w: %v", op, r.name, domain.ErrStoreUnavailable, err)
}

func fieldName(f string) string {
	if f == "id" {
		return "_id"
	}
	return f
}

func toBSON(f ports.Filter) bson.M {
	out := make(bson.M, len(f))
	for k, v := range f {
		out[fieldName(k)] = v
	}
	return out
}
