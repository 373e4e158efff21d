package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ImportLog 导入记录
type ImportLog struct {
	ID           int64      `json:"id"`
	BatchID      string     `json:"batchId"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"fileSize"`
	TotalSheets  int        `json:"totalSheets"`
	ImportedRows int        `json:"importedRows"`
	Skipped      []string   `json:"skipped"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(ctx context.Context, batchID, filename string, fileSize int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (batch_id, filename, file_size, status)
		VALUES (?, ?, ?, 'processing')
	`, batchID, filename, fileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// CompleteImportLog 完成导入日志更新
func (s *Store) CompleteImportLog(ctx context.Context, id int64, totalSheets, importedRows int, skipped []string, status, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			total_sheets = ?,
			imported_rows = ?,
			skipped = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalSheets, importedRows, strings.Join(skipped, ","), status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImportLog 最近一次导入；没有记录时返回 ErrNotFound
func (s *Store) LastImportLog(ctx context.Context) (*ImportLog, error) {
	var (
		l         ImportLog
		skipped   string
		completed sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, filename, file_size, total_sheets, imported_rows, skipped,
			status, error_message, created_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&l.ID, &l.BatchID, &l.Filename, &l.FileSize, &l.TotalSheets, &l.ImportedRows, &skipped,
		&l.Status, &l.ErrorMessage, &l.CreatedAt, &completed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("import log: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query import log failed: %w", err)
	}
	if skipped != "" {
		l.Skipped = strings.Split(skipped, ",")
	}
	if completed.Valid {
		l.CompletedAt = &completed.Time
	}
	return &l, nil
}
