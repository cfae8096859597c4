package flags

const (
	failedToParseTLSCredentials = "failed-to-parse-tls-credentials"

	failedToOpenSQLConnection = "failed-to-open-sql-connection"
	failedToConnectToStatsD   = "failed-to-connect-to-statsd"

	failedToReadFile = "failed-to-read-file"
)
