package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// dateLayout 日期列的存储格式
const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("not found")

// Store SQLite 数据库存储层
type Store struct {
	db *sql.DB
}

// New 创建新的 Store 实例
func New(dbPath string) (*Store, error) {
	// 确保 data 目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite 建议单连接
	db.SetMaxIdleConns(1)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}

	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Stats 数据概况
type Stats struct {
	SalesPersons int `json:"salesPersons"`
	Invoices     int `json:"invoices"`
	Targets      int `json:"targets"`
	Companies    int `json:"companies"`
}

// GetStats 统计各表记录数
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(1) FROM sales_person),
			(SELECT COUNT(1) FROM sales_invoice),
			(SELECT COUNT(1) FROM target_detail),
			(SELECT COUNT(1) FROM company)
	`).Scan(&st.SalesPersons, &st.Invoices, &st.Targets, &st.Companies)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats failed: %w", err)
	}
	return st, nil
}
