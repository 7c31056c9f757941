package database

import (
	"context"
	"fmt"

	"github.com/nao1215/imgsaveas/internal/model"
)

// InsertDownload stores a finished download and returns its id.
func (d *DB) InsertDownload(ctx context.Context, record *model.DownloadRecord) (int64, error) {
	query := `
	INSERT INTO downloads (source_url, file_name, path, mime_type, size)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := d.db.ExecContext(ctx, query,
		record.SourceURL,
		record.FileName,
		record.Path,
		record.MIMEType,
		record.Size,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert download: %w", err)
	}

	return result.LastInsertId()
}

// ListDownloads returns the most recent downloads, newest first.
// A limit of zero or less returns all rows.
func (d *DB) ListDownloads(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	query := `
	SELECT id, source_url, file_name, path, mime_type, size, created_at
	FROM downloads
	ORDER BY created_at DESC, id DESC
	`
	args := make([]interface{}, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var results []model.DownloadRecord
	for rows.Next() {
		var rec model.DownloadRecord
		var timestamp string

		if err := rows.Scan(
			&rec.ID,
			&rec.SourceURL,
			&rec.FileName,
			&rec.Path,
			&rec.MIMEType,
			&rec.Size,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}

		rec.CreatedAt = parseTimestamp(timestamp)
		results = append(results, rec)
	}

	return results, rows.Err()
}
