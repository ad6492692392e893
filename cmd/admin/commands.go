package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lifeflow-backend/internal/core/auth"
	"lifeflow-backend/internal/core/config"
	"lifeflow-backend/internal/core/database"
	"lifeflow-backend/internal/domain"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: withEnv(func(_ context.Context, e *env, _ []string) error {
			if err := database.Migrate(e.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			e.log.Info("schema up to date", zap.String("driver", e.cfg.DB.Driver))
			return nil
		}),
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-regions [file.yaml]",
		Short: "Load districts and upazilas from a YAML file",
		Long: `Load the district and upazila reference data. Re-running with the
same file updates names in place.

Example:
  lifeflow-admin seed-regions configs/regions.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *env, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			nd, nu, err := e.svcs.Regions.Seed(ctx, f)
			if err != nil {
				return fmt.Errorf("seed %s: %w", args[0], err)
			}
			fmt.Printf("seeded %d districts, %d upazilas\n", nd, nu)
			return nil
		}),
	}
}

func setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role [email] [donor|volunteer|admin]",
		Short: "Change a registered user's role",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(ctx context.Context, e *env, args []string) error {
			u, err := e.svcs.Users.Lookup(ctx, args[0])
			if err != nil {
				return fmt.Errorf("lookup %s: %w", args[0], err)
			}
			if err := e.svcs.Users.SetRole(ctx, u.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", u.Email, args[1])
			return nil
		}),
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-requests",
		Short: "Write every blood request to an .xlsx workbook",
		RunE: withEnv(func(ctx context.Context, e *env, _ []string) error {
			buf, name, err := e.svcs.Export.RequestsXLSX(ctx)
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default blood-requests-<date>.xlsx)")
	return cmd
}

// issueTokenCmd needs only the JWT settings, not the database.
func issueTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "issue-token [email]",
		Short: "Mint a session token for manual API testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			j := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}
			if ttl > 0 {
				j.TTL = ttl
			}
			tok, err := j.Issue(args[0])
			if err != nil {
				return domain.InvalidInput(err.Error())
			}
			fmt.Printf("%s=%s\n", auth.CookieName, tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default jwt.accesstokenttlmin)")
	return cmd
}
