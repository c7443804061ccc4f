// Package store persists observed entries to a SQL database. The driver is picked from the
// database URL: sqlite (default), postgres or mysql.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aouyang1/go-predictplot/series"
)

const DefaultDatabaseURL = "sqlite:///user_data.db"

var (
	ErrUnsupportedDatabase = errors.New("unsupported database url scheme")
	ErrEmptyDatabasePath   = errors.New("database path is empty")
)

// Entry is one persisted observation
type Entry struct {
	ID          int64     `json:"id"`
	EntryNumber int       `json:"entry_number"`
	Value       float64   `json:"value"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store records observations in the user_entries table
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database named by databaseURL and creates the entries table if it
// does not exist. An empty url opens DefaultDatabaseURL.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	d, dsn, err := parseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database, %w", d.driver, err)
	}
	if d.driver == sqliteDialect.driver {
		// sqlite serializes writers and in-memory databases are per connection
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:      db,
		dialect: d,
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to reach %s database, %w", s.dialect.driver, err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("unable to create entries table, %w", err)
	}
	return nil
}

// Driver returns the database/sql driver name in use
func (s *Store) Driver() string {
	return s.dialect.driver
}

// Persist inserts the observation with the current time
func (s *Store) Persist(ctx context.Context, obs series.Observation) error {
	query := fmt.Sprintf(
		"INSERT INTO user_entries (entry_number, value, timestamp) VALUES (%s, %s, %s)",
		s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3),
	)
	if _, err := s.db.ExecContext(ctx, query, obs.Index, obs.Value, time.Now().UTC()); err != nil {
		return fmt.Errorf("unable to insert entry %d, %w", obs.Index, err)
	}
	return nil
}

// Entries returns every persisted entry in insertion order. Entries survive session resets so
// entry numbers may repeat.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, entry_number, value, timestamp FROM user_entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("unable to query entries, %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EntryNumber, &e.Value, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("unable to scan entry, %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to iterate entries, %w", err)
	}
	return entries, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

type dialect struct {
	driver   string
	schema   string
	numbered bool
}

func (d dialect) placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

var (
	sqliteDialect = dialect{
		driver: "sqlite3",
		schema: `CREATE TABLE IF NOT EXISTS user_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_number INTEGER NOT NULL,
			value REAL NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
	}
	postgresDialect = dialect{
		driver: "postgres",
		schema: `CREATE TABLE IF NOT EXISTS user_entries (
			id SERIAL PRIMARY KEY,
			entry_number INTEGER NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		numbered: true,
	}
	mysqlDialect = dialect{
		driver: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS user_entries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			entry_number INT NOT NULL,
			value DOUBLE NOT NULL,
			timestamp DATETIME(6) NOT NULL
		)`,
	}
)

// parseURL maps a database url onto a dialect and a driver specific data source name
func parseURL(databaseURL string) (dialect, string, error) {
	if databaseURL == "" {
		databaseURL = DefaultDatabaseURL
	}

	scheme, rest, found := strings.Cut(databaseURL, "://")
	if !found {
		// bare path
		return sqliteDialect, databaseURL, nil
	}

	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		// sqlite:///relative.db and sqlite:////absolute.db
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			return dialect{}, "", ErrEmptyDatabasePath
		}
		return sqliteDialect, path, nil
	case "postgres", "postgresql":
		return postgresDialect, databaseURL, nil
	case "mysql":
		dsn, err := mysqlDSN(databaseURL)
		if err != nil {
			return dialect{}, "", err
		}
		return mysqlDialect, dsn, nil
	default:
		return dialect{}, "", fmt.Errorf("got %q, %w", scheme, ErrUnsupportedDatabase)
	}
}

func mysqlDSN(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("unable to parse mysql url, %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	return cfg.FormatDSN(), nil
}
