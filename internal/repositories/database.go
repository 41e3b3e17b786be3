package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/javieryacu/sinapsia-polirrubro/internal/config"
)

type Repositories struct {
	DB           *sql.DB
	Product      ProductRepository
	Category     CategoryRepository
	Sale         SaleRepository
	User         UserRepository
	Notification NotificationRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db, cfg.Database.MigrationsPath); err != nil {
		return nil, err
	}

	return &Repositories{
		DB:           db,
		Product:      NewProductRepo(db),
		Category:     NewCategoryRepo(db),
		Sale:         NewSaleRepo(db),
		User:         NewUserRepo(db),
		Notification: NewNotificationRepo(db),
	}, nil
}

func runMigrations(db *sql.DB, migrationsPath string) error {

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
