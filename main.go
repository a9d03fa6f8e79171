package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ledger/cmd"
	"ledger/config"
	"ledger/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(os.Args[2:]); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ledger migrate [up|down|status] [args...]")
	}

	cfg := config.Get()
	cmd.ConfigureLogging(cfg)
	driver, dsn := cfg.DatabaseDriver, cfg.MigrationDSN()

	switch args[0] {
	case "up":
		return database.MigrateUp(driver, dsn)
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(driver, dsn, steps)
	case "status":
		return database.MigrateStatus(driver, dsn)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
