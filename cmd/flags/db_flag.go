package flags

import (
	"context"
	"crypto/x509"
	"time"

	"github.com/JohnathanALves/reaction/cmd/internal/cryptox"
	"github.com/JohnathanALves/reaction/cmd/internal/ioutilx"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

type DBFlag struct {
	Driver   sqlx.DBDriver `long:"driver" description:"Database driver for the group store (mysql or postgres)" required:"true"`
	Host     string        `long:"host" description:"Host of the group store"`
	Port     int           `long:"port" description:"Port of the group store"`
	Schema   string        `long:"schema" description:"Database name holding the group tables"`
	Username string        `long:"username" description:"Username for the group store"`
	Password string        `long:"password" description:"Password for the group store"`

	TLS    SQLTLSFlag    `group:"TLS" namespace:"tls"`
	Tuning SQLTuningFlag `group:"Tuning" namespace:"tuning"`
}

type SQLTLSFlag struct {
	Required bool                   `long:"required" description:"Require TLS connections to the group store"`
	RootCAs  []ioutilx.FileOrString `long:"root-ca" description:"CA certificate(s) to verify the group store against"`
}

type SQLTuningFlag struct {
	ConnMaxLifetime int `long:"connection-max-lifetime" description:"Limit the lifetime in milliseconds of a SQL connection"`
}

func (o *DBFlag) Connect(ctx context.Context, logger logx.Logger) (*sqlx.DB, error) {
	logger = logger.WithData(
		logx.Data{Key: "db_driver", Value: o.Driver},
		logx.Data{Key: "db_host", Value: o.Host},
		logx.Data{Key: "db_port", Value: o.Port},
		logx.Data{Key: "db_schema", Value: o.Schema},
		logx.Data{Key: "db_username", Value: o.Username},
	)

	dbOpts := []sqlx.DBOption{
		sqlx.DBUsername(o.Username),
		sqlx.DBPassword(o.Password),
		sqlx.DBDatabaseName(o.Schema),
		sqlx.DBHost(o.Host),
		sqlx.DBPort(o.Port),
		sqlx.DBConnectionMaxLifetime(time.Duration(o.Tuning.ConnMaxLifetime) * time.Millisecond),
	}

	if o.TLS.Required {
		dbOpts = append(dbOpts, sqlx.DBRequireTLS())
	}

	if len(o.TLS.RootCAs) != 0 {
		pool, err := o.rootCAPool(logger.WithName("create-sql-root-ca-pool"))
		if err != nil {
			return nil, err
		}

		dbOpts = append(dbOpts, sqlx.DBRootCAPool(pool))
	}

	conn, err := sqlx.Connect(o.Driver, dbOpts...)
	if err != nil {
		logger.Error(failedToOpenSQLConnection, err)
		return nil, err
	}

	return conn, nil
}

func (o *DBFlag) rootCAPool(logger logx.Logger) (*x509.CertPool, error) {
	var certs [][]byte
	for _, cert := range o.TLS.RootCAs {
		b, err := cert.Bytes(ioutilx.OS, ioutilx.IOReader)
		if err != nil {
			logger.Error(failedToReadFile, err)
			return nil, err
		}

		certs = append(certs, b)
	}

	pool, err := cryptox.NewCertPool(certs...)
	if err != nil {
		logger.Error(failedToParseTLSCredentials, err)
		return nil, err
	}

	return pool, nil
}
