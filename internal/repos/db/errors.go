package db

import (
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	// MySQLErrorCodeDuplicateKey is ER_DUP_ENTRY.
	MySQLErrorCodeDuplicateKey = 1062

	// PostgresErrorCodeDuplicateKey is unique_violation.
	PostgresErrorCodeDuplicateKey = "23505"
)

func isDuplicateKeyError(err error) bool {
	switch e := err.(type) {
	case *mysql.MySQLError:
		return e.Number == MySQLErrorCodeDuplicateKey
	case *pq.Error:
		return e.Code == PostgresErrorCodeDuplicateKey
	default:
		return false
	}
}
