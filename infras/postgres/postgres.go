package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"stayops/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads from writes. Anything that must observe its own writes, like the
// conditional status updates and assignment transactions, goes through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type target struct {
	name     string
	host     string
	port     string
	username string
	password string
	database string
	sslMode  string
	timezone string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	write := target{
		name:     "write",
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		username: pg.Write.Username,
		password: pg.Write.Password,
		database: databaseName(config, pg.Write.Name),
		sslMode:  pg.Write.SSLMode,
		timezone: pg.Write.Timezone,
	}

	read := target{
		name:     "read",
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		username: pg.Read.Username,
		password: pg.Read.Password,
		database: databaseName(config, pg.Read.Name),
		sslMode:  pg.Read.SSLMode,
		timezone: pg.Read.Timezone,
	}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

func databaseName(config *config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

func (t target) dsn() string {
	query := url.Values{}
	query.Set("sslmode", t.sslMode)

	if t.timezone != "" {
		query.Set("timezone", t.timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(t.username, t.password),
		Host:     net.JoinHostPort(t.host, t.port),
		Path:     t.database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(t target, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().
		Str("name", t.name).
		Str("host", t.host).
		Str("port", t.port).
		Str("dbName", t.database).
		Logger()

	for attempt := 1; attempt <= max(1, maxRetry); attempt++ {
		db, err := sqlx.Connect("postgres", t.dsn())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	log.Fatal().Str("name", t.name).Msgf("Could not connect to %s database", t.name)

	return nil
}
