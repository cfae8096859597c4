package sqlx

import "errors"

var (
	ErrUnsupportedSQLDriver        = errors.New("unsupported sql driver: expected mysql or postgres")
	ErrFailedToEstablishConnection = errors.New("database did not answer pings")

	// ErrMigrationsOutOfSync is returned by migration verification when
	// the bookkeeping table disagrees with the built-in migration list.
	ErrMigrationsOutOfSync = errors.New("migrations out of sync: not all migrations applied")
)
