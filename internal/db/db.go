package db

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed schema.sql
var schemaSQL string

// Options configures Open.
type Options struct {
	// Path is the SQLite database file. Its directory is created if missing.
	Path string
	// LogLevel controls gorm's SQL logging and the store's own events.
	LogLevel logger.LogLevel
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

// schemaInfo records which tasks-table revision the file uses.
type schemaInfo struct {
	titleColumn string // "title", or "name" in the earliest revision
	hasPriority bool
}

// Store is the single shared connection to the task database. Every exported
// method holds the store's mutex for its full duration.
type Store struct {
	mu       sync.Mutex
	db       *gorm.DB
	log      logger.Interface
	clock    func() time.Time
	schema   schemaInfo
	poisoned bool
	closed   bool
}

// Open sets up the database connection and applies the schema
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Silent // Quiet by default
	}
	log := logger.Default.LogMode(level)

	dsn := opts.Path + "?_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 log,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// One connection: callers are serialized by Store.mu and pragmas stay put.
	sqlDB.SetMaxOpenConns(1)

	if err := applySchema(gdb); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	info, err := inspectSchema(gdb)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Store{db: gdb, log: log, clock: clock, schema: info}
	if info.titleColumn != "title" || !info.hasPriority {
		s.log.Warn(bg, "legacy tasks table detected (title column %q, priority column %t)", info.titleColumn, info.hasPriority)
	}
	return s, nil
}

// applySchema runs each statement of schema.sql.
func applySchema(gdb *gorm.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := gdb.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// inspectSchema reads the tasks columns of an existing file. Earlier
// revisions named the title column "name" and had no priority column.
func inspectSchema(gdb *gorm.DB) (schemaInfo, error) {
	var columns []string
	if err := gdb.Raw("SELECT name FROM pragma_table_info('tasks')").Scan(&columns).Error; err != nil {
		return schemaInfo{}, err
	}

	info := schemaInfo{titleColumn: "title"}
	hasTitle := false
	for _, c := range columns {
		switch strings.ToLower(c) {
		case "title":
			hasTitle = true
		case "priority":
			info.hasPriority = true
		}
	}
	if !hasTitle {
		info.titleColumn = "name"
	}
	return info, nil
}

// Close closes the database connection. Later calls fail with LockFailed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
