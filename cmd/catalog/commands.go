package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

// migrateCmd brings the record store schema up to date and exits.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables (postgres) or indexes (mongo) for every collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd.Context(), true)
		if err != nil {
			return err
		}
		closeStore(store)
		return nil
	},
}

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "Inspect translation dictionaries",
}

// localesCheckCmd lists the keys each locale falls back on the default for.
var localesCheckCmd = &cobra.Command{
	Use:   "check [locale...]",
	Short: "Report keys missing from each locale",
	Long: `Compares every supported locale against the default locale and prints
the keys that would fall back. Pass --strict to fail when any key is missing.

Example:
  catalog locales check
  catalog locales check ar fr --strict`,
	RunE: runLocalesCheck,
}

var localesStrict bool

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard users",
}

// userAddCmd bootstraps accounts; the first admin can only be made this way.
var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create a user",
	Example: `  catalog user add admin@example.com --name Admin --password 's3cret-pass' --role ADMIN`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUserAdd,
}

var (
	userName     string
	userPassword string
	userRole     string
)

func init() {
	localesCheckCmd.Flags().BoolVar(&localesStrict, "strict", false, "exit non-zero when any key is missing")
	localesCmd.AddCommand(localesCheckCmd)

	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password, at least 8 characters")
	userAddCmd.Flags().StringVar(&userRole, "role", string(domain.RoleUser), "ADMIN, USER, MANAGER or GUIDE")
	_ = userAddCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userAddCmd)
}

func runLocalesCheck(cmd *cobra.Command, args []string) error {
	catalog, err := loadLocales()
	if err != nil {
		return err
	}

	selected := args
	if len(selected) == 0 {
		selected = catalog.Locales()
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, loc := range selected {
		if !catalog.Supported(loc) {
			return fmt.Errorf("locale %q is not in SUPPORTED_LOCALES", loc)
		}
		if loc == catalog.Default() {
			continue
		}
		missing := catalog.Missing(loc)
		total += len(missing)
		if len(missing) == 0 {
			fmt.Fprintf(out, "%s: complete\n", loc)
			continue
		}
		fmt.Fprintf(out, "%s: %d missing\n", loc, len(missing))
		for _, key := range missing {
			fmt.Fprintf(out, "  %s\n", key)
		}
	}

	if localesStrict && total > 0 {
		return fmt.Errorf("%d translation keys missing", total)
	}
	return nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(userRole)))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", userRole)
	}

	store, err := openStore(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeStore(store)

	auth := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.SessionTTL, log)
	user, err := auth.Register(cmd.Context(), service.RegisterInput{
		Name:     userName,
		Email:    args[0],
		Password: userPassword,
		Role:     role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
