package main

import (
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"restro/pkg/infrastructure/mysql"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "steps",
				Usage: "number of migrations to apply, negative to roll back; 0 applies all",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := parseEnv()
			if err != nil {
				return err
			}
			setLogLevel(cfg.LogLevel)

			db, err := mysql.Open(c.Context, dsn(cfg), connectionPool(cfg))
			if err != nil {
				return err
			}
			defer db.Close()

			driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
			if err != nil {
				return errors.Wrap(err, "failed to create migration driver")
			}
			m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsDir, cfg.DBName, driver)
			if err != nil {
				return errors.Wrap(err, "failed to load migrations")
			}

			if steps := c.Int("steps"); steps != 0 {
				err = m.Steps(steps)
			} else {
				err = m.Up()
			}
			if errors.Is(err, migrate.ErrNoChange) {
				log.Info("database is up to date")
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "failed to migrate")
			}

			version, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return errors.WithStack(err)
			}
			log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("migrations applied")
			return nil
		},
	}
}
