package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"stayops/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStepUp Direction = "step-up"
	DirectionDrop   Direction = "drop"
	DirectionStatus Direction = "version"
)

var ErrUnknownDirection = errors.New("unknown migration direction")

var steps = map[Direction]func(*migrate.Migrate) error{
	DirectionUp:     (*migrate.Migrate).Up,
	DirectionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	DirectionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	DirectionDrop:   (*migrate.Migrate).Down,
	DirectionStatus: func(*migrate.Migrate) error { return nil },
}

func connectionString(cfg *config.Config) string {
	pg := cfg.DB.Postgres

	query := url.Values{}
	query.Set("sslmode", pg.Write.SSLMode)

	if pg.MigrationTable != "" {
		query.Set("x-migrations-table", pg.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(pg.Write.Username, pg.Write.Password),
		Host:     net.JoinHostPort(pg.Write.Host, pg.Write.Port),
		Path:     pg.Prefix + pg.Write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Run applies direction against the write database and logs the resulting schema version.
func Run(cfg *config.Config, direction Direction) error {
	step, ok := steps[direction]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDirection, direction)
	}

	mig, err := migrate.New(migrationSource, connectionString(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := step(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", direction, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().
		Str("direction", string(direction)).
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Database migrations finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Run(cfg, DirectionUp)
}
