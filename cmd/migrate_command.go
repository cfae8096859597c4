package cmd

import (
	"context"

	"github.com/JohnathanALves/reaction/cmd/flags"
	"github.com/JohnathanALves/reaction/internal/migrations"
	"github.com/JohnathanALves/reaction/sqlx"
)

type MigrateCommand struct {
	Logger flags.LagerFlag

	MigrationsTableName string `long:"migrations-table-name" description:"Name of the table which holds migration state" default:"reaction_migrations"`

	Rollback bool `long:"rollback" description:"Roll back the most recently applied migration instead of applying new ones"`
	Verify   bool `long:"verify" description:"Verify that the applied migrations match the built-in set"`

	SQL flags.DBFlag `group:"SQL" namespace:"sql"`
}

func (cmd MigrateCommand) Execute([]string) error {
	logger := cmd.Logger.Logger("reaction-groups").WithName("migrate")

	ctx := context.Background()

	conn, err := cmd.SQL.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cmd.Verify {
		ok, err := sqlx.VerifyAppliedMigrations(ctx, logger, conn, cmd.MigrationsTableName, migrations.Migrations)
		if err != nil {
			return err
		}
		if !ok {
			return sqlx.ErrMigrationsOutOfSync
		}

		return nil
	}

	if cmd.Rollback {
		return sqlx.RollbackMigrations(ctx, logger, conn, cmd.MigrationsTableName, migrations.Migrations, false)
	}

	return sqlx.ApplyMigrations(ctx, logger, conn, cmd.MigrationsTableName, migrations.Migrations)
}
