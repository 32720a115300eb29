package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ecom-backend/internal/auth"
	"ecom-backend/internal/config"
	"ecom-backend/internal/repository"
	"ecom-backend/internal/repository/sqlite"
	"ecom-backend/internal/storage"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "shop",
		Short:         "E-commerce backend: auth, orders and payment webhooks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(useraddCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("unknown log level %q, using info", level)
	}
	return logger
}

type stores struct {
	db     *sql.DB
	users  repository.UserRepository
	orders repository.OrderRepository
	events repository.WebhookEventRepository
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &stores{
		db:     db,
		users:  sqlite.NewUserRepository(db),
		orders: sqlite.NewOrderRepository(db),
		events: sqlite.NewWebhookEventRepository(db),
	}
	if err := sqlite.InitAll(ctx, s.users, s.orders, s.events); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func newHasher(cfg config.Config) *auth.Hasher {
	return auth.NewHasher(cfg.Auth.KDFIterations, cfg.Auth.KDFWorkers)
}

// buildArchive returns nil when no bucket is configured; archiving is optional.
func buildArchive(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.EventArchive, error) {
	if cfg.Archive.Bucket == "" {
		logger.Info("webhook event archive disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Archive.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving webhook events to s3 bucket %s (region %s)", cfg.Archive.Bucket, cfg.Archive.Region)
	return storage.NewS3Archive(client, cfg.Archive.Bucket, cfg.Archive.KeyPrefix), nil
}
