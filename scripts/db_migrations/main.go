package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

func main() {
	env, err := server_config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("config.Load")
		return
	}

	result, err := sqlconfig.RunMigrations(env.PostgresURL())
	if err != nil {
		logrus.WithError(err).Fatal("sqlconfig.RunMigrations")
		return
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
	}).Info("Migration status")
}
