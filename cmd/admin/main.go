package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"quizblog/gateway/internal/auth"
	"quizblog/gateway/internal/config"
	"quizblog/gateway/internal/models"
	"quizblog/gateway/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  token -user <id> [-name <name>] [-email <email>] [-role user|admin|superadmin] [-ttl 24h]
  revoke <jti> [ttl]
  contacts [-status pending|in_progress|resolved] [-limit 50]
  contact <id>`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	switch os.Args[1] {
	case "token":
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			log.Fatalf("Error issuing token: %v", err)
		}
	case "revoke":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin revoke <jti> [ttl]")
			os.Exit(1)
		}
		ttl := cfg.Auth.TokenTTL
		if len(os.Args) > 3 {
			if ttl, err = time.ParseDuration(os.Args[3]); err != nil {
				fmt.Println("Invalid ttl. Use a Go duration such as 24h.")
				os.Exit(1)
			}
		}
		if err := revokeToken(ctx, cfg, os.Args[2], ttl); err != nil {
			log.Fatalf("Error revoking token: %v", err)
		}
		fmt.Printf("Token %s has been revoked.\n", os.Args[2])
	case "contacts":
		if err := listContacts(ctx, cfg, os.Args[2:]); err != nil {
			log.Fatalf("Error listing contacts: %v", err)
		}
	case "contact":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin contact <id>")
			os.Exit(1)
		}
		if err := showContact(ctx, cfg, os.Args[2]); err != nil {
			log.Fatalf("Error loading contact: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func issueToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("user", "", "user id (required)")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	role := fs.String("role", "user", "user, admin or superadmin")
	ttl := fs.Duration("ttl", cfg.Auth.TokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return fmt.Errorf("-user is required")
	}

	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, *ttl).Issue(models.Identity{
		UserID: *userID,
		Email:  *email,
		Name:   *name,
		Role:   *role,
	})
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func revokeToken(ctx context.Context, cfg *config.Config, jti string, ttl time.Duration) error {
	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis is not configured")
	}
	rdb, err := storage.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	return storage.NewRevocationList(rdb, cfg.Auth.RevocationKey).Revoke(ctx, jti, ttl)
}

func openArchive(cfg *config.Config) (*storage.ContactArchive, error) {
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres is not configured")
	}
	db, err := storage.OpenPostgres(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	return storage.NewContactArchive(db), nil
}

func listContacts(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("contacts", flag.ExitOnError)
	status := fs.String("status", "", "filter by status")
	limit := fs.Int("limit", 50, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	records, err := archive.ListContacts(ctx, *status, *limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tFROM\tSUBJECT\tASSIGNED\tSUBMITTED")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s <%s>\t%s\t%s\t%s\n",
			r.ContactID, r.Status, r.Name, r.Email, r.Subject, r.AssignedAdminName,
			r.SubmittedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func showContact(ctx context.Context, cfg *config.Config, id string) error {
	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	rec, err := archive.GetContact(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
