// Package storage wires the configured backend into the repository interfaces.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"activation-service.backend/internal/config"
	domainrepos "activation-service.backend/internal/domain/repositories"
	"activation-service.backend/internal/infrastructure/datasources/postgres"
	"activation-service.backend/internal/infrastructure/datasources/sqlite"
	"activation-service.backend/internal/infrastructure/memory"
	"activation-service.backend/internal/infrastructure/models"
	"activation-service.backend/internal/infrastructure/repositories"
)

var (
	openSQLite   = sqlite.Open
	openPostgres = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
			Conn:                 sqlDB,
			PreferSimpleProtocol: true,
		}), &gorm.Config{TranslateError: true})
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}
	getStdDB = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

// Store bundles the repositories of one backend
type Store struct {
	Driver     string
	Codes      domainrepos.ActivationCodeRepository
	Logs       domainrepos.VerificationLogRepository
	UnitOfWork domainrepos.UnitOfWork

	db *gorm.DB
}

// Open connects to the backend named by cfg.Store.Driver and migrates its schema
func Open(cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemoryStore(cfg.Store.MemoryLogCapacity), nil
	case config.StoreDriverSQLite:
		db, err := openSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewGormStore(config.StoreDriverSQLite, db)
	case config.StoreDriverPostgres:
		db, err := openPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewGormStore(config.StoreDriverPostgres, db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewMemoryStore returns a process-local store
func NewMemoryStore(logCapacity int) *Store {
	return &Store{
		Driver:     config.StoreDriverMemory,
		Codes:      memory.NewCodeStore(),
		Logs:       memory.NewLogStore(logCapacity),
		UnitOfWork: memory.UnitOfWork{},
	}
}

// NewGormStore migrates db and wraps it in a Store
func NewGormStore(driver string, db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.ActivationCode{}, &models.VerificationLog{}); err != nil {
		if sqlDB, dbErr := getStdDB(db); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{
		Driver:     driver,
		Codes:      repositories.NewActivationCodeRepository(db),
		Logs:       repositories.NewVerificationLogRepository(db),
		UnitOfWork: repositories.NewUnitOfWork(db),
		db:         db,
	}, nil
}

// Ping checks that the backend answers. The memory store always does.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := getStdDB(s.db)
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := getStdDB(s.db)
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
