package persistence

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NewDB opens the Postgres pool, waiting briefly for the database to come up
// so the service survives container start ordering.
func NewDB(cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for attempt := 1; attempt <= 5; attempt++ {
		err = db.Ping()
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Waiting for database")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return db, nil
}
