package main

import (
	"context"

	"github.com/tokenauth/auth-service/internal/config"
	"github.com/tokenauth/auth-service/internal/database"
	"github.com/tokenauth/auth-service/internal/users"
	"github.com/tokenauth/auth-service/pkg/logger"
)

// store is the credential store selected by DATABASE_URL.
type store struct {
	driver database.Driver
	repo   users.Repository
	ping   func(ctx context.Context) error
	close  func()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	driver, err := database.DetectDriver(cfg.URL)
	if err != nil {
		return nil, err
	}

	if driver == database.DriverMongo {
		client, err := database.ConnectMongo(ctx, cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		repo := users.NewMongoRepository(client.Database(cfg.MongoDatabase).Collection(database.UsersCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Infof("connected to MongoDB database %s", cfg.MongoDatabase)
		return &store{
			driver: driver,
			repo:   repo,
			ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	db, driver, err := database.OpenBun(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, driver, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	logger.Infof("connected to %s database", driver)
	return &store{
		driver: driver,
		repo:   users.NewBunRepository(db),
		ping:   db.PingContext,
		close:  func() { _ = db.Close() },
	}, nil
}
