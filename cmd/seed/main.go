package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/stride-storefront/internal/auth"
	"github.com/angelmondragon/stride-storefront/internal/categories"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/internal/seed"
	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	withMigrations := flag.Bool("migrate", false, "apply pending migrations before seeding")
	skipCatalog := flag.Bool("skip-catalog", false, "only seed the admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if *withMigrations {
		if err := migrate.Up(ctx, dbClient); err != nil {
			logg.Error(ctx, "failed to apply migrations", err)
			os.Exit(1)
		}
	}

	if err := run(ctx, cfg, dbClient, logg, !*skipCatalog); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "seed error:", e)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger, catalog bool) error {
	var errs error

	authSvc, err := auth.NewService(auth.ServiceParams{
		Admins:   auth.NewRepository(client),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	created, err := authSvc.SeedAdmin(ctx, cfg.Admin)
	errs = multierr.Append(errs, err)
	if err == nil {
		fmt.Printf("admin account created: %t\n", created)
	}

	if !catalog {
		return errs
	}

	cats, err := categories.NewService(categories.NewRepository(client))
	if err != nil {
		return multierr.Append(errs, err)
	}
	prods, err := products.NewService(products.NewRepository(client))
	if err != nil {
		return multierr.Append(errs, err)
	}
	res, err := seed.Catalog(ctx, cats, prods, logg)
	errs = multierr.Append(errs, err)
	if res.Skipped {
		fmt.Println("catalog already populated, skipped")
	} else {
		fmt.Printf("seeded %d categories and %d products\n", res.Categories, res.Products)
	}
	return errs
}
