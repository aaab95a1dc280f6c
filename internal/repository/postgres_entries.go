package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"nongfang-data/internal/domain"
)

// PostgresEntriesRepo 采集条目Repository实现
type PostgresEntriesRepo struct {
	q Querier
}

func NewPostgresEntriesRepo(q Querier) *PostgresEntriesRepo {
	return &PostgresEntriesRepo{q: q}
}

var _ EntriesRepository = (*PostgresEntriesRepo)(nil)

const entryColumns = `
	entry_id::text,
	village_code,
	house_id::text,
	submitted_by,
	raw_payload::text,
	status,
	COALESCE(reviewed_by, '') as reviewed_by,
	reviewed_at,
	COALESCE(review_note, '') as review_note,
	created_at`

// CreateEntry 插入采集条目（raw payload 原样落库）
func (r *PostgresEntriesRepo) CreateEntry(ctx context.Context, entry *domain.DataEntry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	rawPayload := entry.RawPayload
	if len(rawPayload) == 0 {
		rawPayload = json.RawMessage("{}")
	}
	query := `
		INSERT INTO data_entries (entry_id, village_code, house_id, submitted_by, raw_payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		entry.EntryID,
		entry.VillageCode,
		entry.HouseID,
		entry.SubmittedBy,
		string(rawPayload),
		entry.Status,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create data entry: %w", err)
	}
	return nil
}

// GetEntry 根据entry_id获取采集条目
func (r *PostgresEntriesRepo) GetEntry(ctx context.Context, entryID string) (*domain.DataEntry, error) {
	if entryID == "" {
		return nil, fmt.Errorf("entry_id is required")
	}
	query := `SELECT ` + entryColumns + ` FROM data_entries WHERE entry_id = $1`
	row := r.q.QueryRowContext(ctx, query, entryID)
	return scanEntryRow(row.Scan)
}

// ListEntriesByVillage 分页查询某村的采集条目（按提交时间倒序）
func (r *PostgresEntriesRepo) ListEntriesByVillage(ctx context.Context, villageCode string, page, size int) ([]*domain.DataEntry, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	var total int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM data_entries WHERE village_code = $1`, villageCode,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count data entries: %w", err)
	}

	query := `SELECT ` + entryColumns + `
		FROM data_entries
		WHERE village_code = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.QueryContext(ctx, query, villageCode, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list data entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.DataEntry
	for rows.Next() {
		entry, err := scanEntryRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate data entries: %w", err)
	}
	return entries, total, nil
}

func scanEntryRow(scan func(dest ...any) error) (*domain.DataEntry, error) {
	var e domain.DataEntry
	var rawPayload string
	var reviewedAt sql.NullTime
	err := scan(
		&e.EntryID,
		&e.VillageCode,
		&e.HouseID,
		&e.SubmittedBy,
		&rawPayload,
		&e.Status,
		&e.ReviewedBy,
		&reviewedAt,
		&e.ReviewNote,
		&e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan data entry: %w", err)
	}
	e.RawPayload = json.RawMessage(rawPayload)
	if reviewedAt.Valid {
		e.ReviewedAt = &reviewedAt.Time
	}
	return &e, nil
}
