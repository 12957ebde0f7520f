package helper

import (
	"stayops/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "stay"
	cfg.DB.Postgres.Write.Password = "secret"
	cfg.DB.Postgres.Write.Name = "stayops"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	assert.Equal(t,
		"postgres://stay:secret@db:5432/dev_stayops?sslmode=disable&x-migrations-table=schema_migrations",
		connectionString(cfg),
	)
}

func TestRun_UnknownDirection(t *testing.T) {
	err := Run(&config.Config{}, Direction("sideways"))

	assert.ErrorIs(t, err, ErrUnknownDirection)
}
