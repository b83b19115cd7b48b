// Package main is the entry point for the Inventario admin CLI. It
// provides administrative commands that bypass the HTTP API, such as
// bootstrapping the first user account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/config"
	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/lock"
	"github.com/prn-tf/inventario/internal/repository"
	"github.com/prn-tf/inventario/internal/repository/postgres"
	"github.com/prn-tf/inventario/internal/repository/sqlite"
	"github.com/prn-tf/inventario/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Inventario Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUser(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUser(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: inventario-admin user <create|delete> [flags]")
	}

	switch args[0] {
	case "create":
		return runUserCreate(args[1:])
	case "delete":
		return runUserDelete(args[1:])
	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

func runUserCreate(args []string) error {
	fs := flag.NewFlagSet("user create", flag.ExitOnError)
	name := fs.String("name", "", "user's full name")
	email := fs.String("email", "", "user's email address")
	password := fs.String("password", "", "user's password")
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, closer, err := connect(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closer()

	svc := service.NewUserService(users, lock.NewNoOpLocker(), zerolog.Nop())

	out, err := svc.Create(ctx, service.CreateUserInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid user: %v", verr.Messages)
		}
		return err
	}

	fmt.Printf("created user %d (%s)\n", out.User.ID, out.User.Email)
	return nil
}

func runUserDelete(args []string) error {
	fs := flag.NewFlagSet("user delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "user ID to delete")
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	if *id <= 0 {
		return errors.New("--id must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, closer, err := connect(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closer()

	svc := service.NewUserService(users, lock.NewNoOpLocker(), zerolog.Nop())

	if err := svc.Delete(ctx, *id); err != nil {
		return err
	}

	fmt.Printf("deleted user %d\n", *id)
	return nil
}

// connect opens the configured database and returns the user repository.
func connect(ctx context.Context, configPath string) (repository.UserRepository, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := zerolog.Nop()

	if cfg.Database.IsEmbedded() {
		dbCfg := sqlite.DefaultConfig(cfg.Database.Path)
		dbCfg.JournalMode = cfg.Database.JournalMode
		dbCfg.BusyTimeout = cfg.Database.BusyTimeout
		dbCfg.SynchronousMode = cfg.Database.SynchronousMode

		db, err := sqlite.NewDB(ctx, dbCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewUserRepository(db), func() { db.Close() }, nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewUserRepository(db), func() { db.Close() }, nil
}

func printUsage() {
	fmt.Println(`Inventario Admin CLI

Usage:
  inventario-admin <command> [arguments]

Commands:
  user create   Create a user account (--name, --email, --password)
  user delete   Soft-delete a user account (--id)
  version       Print version information
  help          Show this help message

Examples:
  inventario-admin user create --name "Ada" --email ada@example.com --password s3cret-passw0rd
  inventario-admin user delete --id 7

Configuration is read from config.yaml or INVENTARIO_* environment
variables, the same as the server.`)
}
