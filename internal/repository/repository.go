package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by orders")
	ErrUnknownDriver   = errors.New("unknown database driver")
)

// Credentials selects the database. Path is used by sqlite; the rest by postgres.
type Credentials struct {
	Driver            string
	Path              string
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// Open connects to the configured database and verifies the connection.
func Open(cred *Credentials) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cred.Driver {
	case DriverPostgres:
		psqlconn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cred.Host,
			cred.Port,
			cred.User,
			cred.Password,
			cred.DBName)
		db, err = sql.Open("postgres", psqlconn)
	case DriverSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(cred.Path))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cred.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cred.Driver == DriverSQLite {
		// a second connection to ":memory:" would see a different database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
	}

	if e2 := db.Ping(); e2 != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	return db, nil
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off per connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func RunMigrations(db *sql.DB, cred *Credentials) error {
	var (
		driver database.Driver
		err    error
	)

	switch cred.Driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{
			MigrationsTable: "storefront_schema_migrations",
		})
	case DriverSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, cred.Driver)
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		cred.Driver,
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}
