// Package sqlstore implements graph.Store on SQLite through gorm.
package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"link-graph/backend/internal/graph"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	msqlite "modernc.org/sqlite"
)

// foldFunc is a Unicode-aware lower(); SQLite's own LIKE only folds ASCII
const foldFunc = "fold"

func init() {
	if err := msqlite.RegisterDeterministicScalarFunction(foldFunc, 1, fold); err != nil {
		panic(fmt.Sprintf("sqlstore: register %s: %v", foldFunc, err))
	}
}

func fold(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Store is the SQLite-backed graph.Store
type Store struct {
	db *gorm.DB
}

var _ graph.Store = (*Store)(nil)

// Open connects to the database file at path. A busy timeout is added so
// concurrent writers wait instead of failing with SQLITE_BUSY.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// New wraps an open connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens path and returns a ready Store (migrations not applied)
func OpenStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return New(db), nil
}

// Migrate applies the embedded migrations
func (s *Store) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.db)
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reset deletes every row from every table
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"relationships", "persons", "entities", "places", "entity_types", "relationship_types", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// ============================================================================
// Helpers
// ============================================================================

func now() time.Time {
	return time.Now().UTC()
}

// translate maps driver errors onto the graph sentinels
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, graph.ErrNotFound)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w: %v", op, graph.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern escapes LIKE metacharacters and wraps q in wildcards
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

// containsAny adds "(fold(col1) LIKE ? OR fold(col2) LIKE ? ...)" for a
// search term, matching case-insensitively across all of Unicode
func containsAny(q *gorm.DB, term string, columns ...string) *gorm.DB {
	if strings.TrimSpace(term) == "" {
		return q
	}
	like := likePattern(strings.ToLower(term))
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, foldFunc+"("+col+`) LIKE ? ESCAPE '\'`)
		args = append(args, like)
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// count runs COUNT(*) on a copy of q so q can still be paged afterwards
func count(q *gorm.DB) (int64, error) {
	var total int64
	err := q.Session(&gorm.Session{}).Count(&total).Error
	return total, err
}

// page applies ordering (with id as tie-break) and offset/limit on a copy of q
func page(q *gorm.DB, res graph.Resource, opts graph.ListOptions) *gorm.DB {
	desc := opts.Descending()
	return q.Session(&gorm.Session{}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: opts.SortColumn(res)}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(opts.Offset()).
		Limit(opts.Limit)
}

// updateRow writes every column of m except created_at, reporting ErrNotFound when no row matched
func updateRow(ctx context.Context, db *gorm.DB, model interface{}, id string, m interface{}, op string) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(m)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, graph.ErrNotFound)
	}
	return nil
}

func deleteRow(ctx context.Context, db *gorm.DB, model interface{}, id, op string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, graph.ErrNotFound)
	}
	return nil
}
