// Command migrate applies the embedded SQL migrations.
//
//	migrate [up|down|status]
package main

import (
	"context"
	"os"

	"github.com/tokenauth/auth-service/internal/config"
	"github.com/tokenauth/auth-service/internal/database"
	"github.com/tokenauth/auth-service/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	db, driver, err := database.OpenBun(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}

	err = database.Migrate(ctx, db.DB, driver, command)
	_ = db.Close()
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Infof("migrate %s: done", command)
}
