package sqlx

import (
	"context"
	"time"

	"github.com/JohnathanALves/reaction/logx"
)

// MigrationFunc mutates the schema inside the transaction it is given.
type MigrationFunc func(ctx context.Context, logger logx.Logger, tx *Tx) error

// Migration is one numbered schema change. Its position in the
// migration list is its version.
type Migration struct {
	Name string
	Up   MigrationFunc
	Down MigrationFunc
}

// AppliedMigration is a row of the bookkeeping table.
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt time.Time
}
