package likes

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// SQLBackend keeps lists in the liked_sets table of PostgreSQL or SQLite.
type SQLBackend struct {
	db *sqlx.DB
}

// OpenSQL connects, retrying while the database comes up, and applies
// the *.up.sql migrations found in migrationsPath (or the embedded ones
// when migrationsPath is empty).
func OpenSQL(driver, dsn, migrationsPath string) (*SQLBackend, error) {
	const maxRetries = 10
	const retryInterval = 2 * time.Second

	var (
		db  *sqlx.DB
		err error
	)
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = sqlx.Connect(driver, dsn)
		if err == nil {
			break
		}
		log.Error().Err(err).
			Str("driver", driver).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", retryInterval)
		time.Sleep(retryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
	}
	log.Info().Str("driver", driver).Msg("connected to database")

	var migrations fs.FS
	if migrationsPath == "" {
		migrations, _ = fs.Sub(embeddedMigrations, "migrations")
	} else {
		migrations = os.DirFS(migrationsPath)
	}
	if err := RunMigrations(db, migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLBackend{db: db}, nil
}

// RunMigrations executes every *.up.sql file of dir in name order.
// *.down.sql files are ignored.
func RunMigrations(db *sqlx.DB, dir fs.FS) error {
	files, err := fs.Glob(dir, "*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		stmt, err := fs.ReadFile(dir, file)
		if err != nil {
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		if len(stmt) == 0 {
			continue
		}
		if _, err := db.Exec(string(stmt)); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Debug().Str("migration", file).Msg("migration applied")
	}
	return nil
}

func (s *SQLBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var ids string
	err := s.db.GetContext(ctx, &ids, s.db.Rebind(`
		SELECT ids
		FROM liked_sets
		WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(ids), nil
}

func (s *SQLBackend) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO liked_sets (key, ids, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET ids = excluded.ids,
		updated_at = CURRENT_TIMESTAMP`), key, string(data))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save liked ids")
	}
	return err
}

func (s *SQLBackend) Close() error {
	return s.db.Close()
}
