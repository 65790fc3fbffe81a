package cmd

import (
	"context"
	"database/sql"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/catalog"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/config"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/db"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
)

// backends holds the repositories picked by store.catalog and store.sales
// together with the connections behind them.
type backends struct {
	dashboard *catalog.Dashboard
	postgres  *catalog.PostgresStore
	mongo     *catalog.MongoStore

	sqlDB       *sql.DB
	mongoClient *mongo.Client
}

func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{}
	memory := catalog.NewMemoryStore()
	b.dashboard = &catalog.Dashboard{Products: memory, Categories: memory, Orders: memory, Customers: memory}

	if cfg.Store.Catalog == "postgres" {
		sqlDB, err := db.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		b.sqlDB = sqlDB
		b.postgres = catalog.NewPostgresStore(sqlDB)
		if err := b.postgres.Migrate(ctx); err != nil {
			b.close()
			return nil, err
		}
		b.dashboard.Products = b.postgres
		b.dashboard.Categories = b.postgres
	}

	if cfg.Store.Sales == "mongo" {
		client, database, err := db.OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			b.close()
			return nil, err
		}
		b.mongoClient = client
		b.mongo = catalog.NewMongoStore(database)
		b.dashboard.Orders = b.mongo
		b.dashboard.Customers = b.mongo
	}

	logger.Infof("stores: catalog=%s sales=%s", cfg.Store.Catalog, cfg.Store.Sales)
	return b, nil
}

// ready pings whichever external backends are open.
func (b *backends) ready(ctx context.Context) error {
	var errs []error
	if b.sqlDB != nil {
		errs = append(errs, b.sqlDB.PingContext(ctx))
	}
	if b.mongoClient != nil {
		errs = append(errs, b.mongoClient.Ping(ctx, nil))
	}
	return errors.Join(errs...)
}

func (b *backends) close() {
	if b.sqlDB != nil {
		if err := b.sqlDB.Close(); err != nil {
			logger.Errorf("failed to close postgres: %v", err)
		}
	}
	if b.mongoClient != nil {
		db.CloseMongo(b.mongoClient)
	}
}
