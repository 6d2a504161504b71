package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/expense-server/api"
	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/operator"
	"github.com/carson-networks/expense-server/internal/service"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

func main() {
	app := &cli.App{
		Name:  "expense-server",
		Usage: "personal expense tracking API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file read before the environment; ignored when missing",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending Postgres migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("expense-server")
	}
}

func serve(c *cli.Context) error {
	envConfig, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if err := envConfig.Validate(); err != nil {
		return err
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("backend", envConfig.DataBackend).Info("expense-server starting")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, envConfig, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Storage.Close")
		}
	}()

	hub := events.NewHub(logger, events.DefaultBuffer)
	if envConfig.AMQPURL != "" {
		forwarder, err := events.DialAMQP(envConfig.AMQPURL, envConfig.AMQPExchange, logger)
		if err != nil {
			return err
		}
		defer forwarder.Close()
		go forwarder.Run(ctx, hub)
	}

	delegator := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers, hub, logger)
	delegator.Start()
	defer delegator.Stop()

	location, err := envConfig.Location()
	if err != nil {
		return err
	}
	tokens := auth.NewTokens(envConfig.JWTSecret, envConfig.JWTExpires)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.Port,
		Service: service.NewService(store, delegator, tokens, location),
		Tokens:  tokens,
		Hub:     hub,
		DB:      store.DB,
	}
	return httpRest.Serve(ctx)
}

func openStorage(ctx context.Context, envConfig *config.Config, logger *logrus.Logger) (*storage.Storage, error) {
	if envConfig.DataBackend == config.BackendMemory {
		logger.Warn("Storage.memory: records are lost on restart")
		return storage.NewMemoryStorage(), nil
	}

	db, err := storage.Connect(ctx, envConfig, logger)
	if err != nil {
		return nil, err
	}
	result, err := sqlconfig.RunMigrations(envConfig.PostgresURL())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logMigration(logger, result)
	return storage.NewStorage(db), nil
}

func migrate(c *cli.Context) error {
	envConfig, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	logger := logging.SetupLogging(envConfig.LogLevel)

	result, err := sqlconfig.RunMigrations(envConfig.PostgresURL())
	if err != nil {
		return fmt.Errorf("migrate %s:%s/%s: %w", envConfig.PostgresAddress, envConfig.PostgresPort, envConfig.PostgresDB, err)
	}
	logMigration(logger, result)
	return nil
}

func logMigration(logger *logrus.Logger, result *sqlconfig.MigrationResult) {
	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
	}).Info("Migration status")
}
