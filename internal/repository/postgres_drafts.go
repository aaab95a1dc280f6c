package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"nongfang-data/internal/domain"
)

// PostgresDraftsRepo 草稿Repository实现
// 唯一键 (village_code, user_id) 上做 ON CONFLICT upsert：
// 后写覆盖先写，无需应用层先查后写
type PostgresDraftsRepo struct {
	q Querier
}

func NewPostgresDraftsRepo(q Querier) *PostgresDraftsRepo {
	return &PostgresDraftsRepo{q: q}
}

var _ DraftsRepository = (*PostgresDraftsRepo)(nil)

// UpsertDraft 保存草稿（last write wins）
func (r *PostgresDraftsRepo) UpsertDraft(ctx context.Context, draft *domain.DraftSubmission) error {
	if draft == nil {
		return fmt.Errorf("draft is required")
	}
	payload := draft.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	query := `
		INSERT INTO draft_submissions (draft_id, village_code, user_id, step, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		ON CONFLICT (village_code, user_id)
		DO UPDATE SET step = EXCLUDED.step,
		              payload = EXCLUDED.payload,
		              updated_at = EXCLUDED.updated_at
	`
	_, err := r.q.ExecContext(ctx, query,
		draft.DraftID,
		draft.VillageCode,
		draft.UserID,
		draft.Step,
		string(payload),
		draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

// GetDraft 读取草稿；未命中返回 ErrNotFound
func (r *PostgresDraftsRepo) GetDraft(ctx context.Context, villageCode, userID string) (*domain.DraftSubmission, error) {
	query := `
		SELECT draft_id::text, village_code, user_id, step, payload::text, updated_at
		FROM draft_submissions
		WHERE village_code = $1 AND user_id = $2
	`
	var d domain.DraftSubmission
	var payload string
	err := r.q.QueryRowContext(ctx, query, villageCode, userID).Scan(
		&d.DraftID,
		&d.VillageCode,
		&d.UserID,
		&d.Step,
		&payload,
		&d.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	d.Payload = json.RawMessage(payload)
	return &d, nil
}

// DeleteDraft 删除草稿；不存在时静默成功
func (r *PostgresDraftsRepo) DeleteDraft(ctx context.Context, villageCode, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM draft_submissions WHERE village_code = $1 AND user_id = $2`,
		villageCode, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
