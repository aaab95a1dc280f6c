package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"nongfang-data/internal/domain"
)

// PostgresCraftsmenRepo 工匠Repository实现
type PostgresCraftsmenRepo struct {
	q Querier
}

func NewPostgresCraftsmenRepo(q Querier) *PostgresCraftsmenRepo {
	return &PostgresCraftsmenRepo{q: q}
}

var _ CraftsmenRepository = (*PostgresCraftsmenRepo)(nil)

// GetCraftsman 根据craftsman_id获取工匠
func (r *PostgresCraftsmenRepo) GetCraftsman(ctx context.Context, craftsmanID string) (*domain.Craftsman, error) {
	if craftsmanID == "" {
		return nil, fmt.Errorf("craftsman_id is required")
	}
	query := `
		SELECT
			craftsman_id::text,
			name,
			phone,
			id_number,
			COALESCE(specialties, '[]'::jsonb)::text as specialties,
			skill_level,
			credit_score,
			COALESCE(team_id::text, '') as team_id,
			region_code,
			status,
			created_at,
			updated_at
		FROM craftsmen
		WHERE craftsman_id = $1
	`
	var c domain.Craftsman
	var specialtiesRaw string
	err := r.q.QueryRowContext(ctx, query, craftsmanID).Scan(
		&c.CraftsmanID,
		&c.Name,
		&c.Phone,
		&c.IDNumber,
		&specialtiesRaw,
		&c.SkillLevel,
		&c.CreditScore,
		&c.TeamID,
		&c.RegionCode,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get craftsman: %w", err)
	}
	c.Specialties = json.RawMessage(specialtiesRaw)
	return &c, nil
}

// CraftsmanIDNumberExists 证件号查重（工匠创建前的显式预检）
func (r *PostgresCraftsmenRepo) CraftsmanIDNumberExists(ctx context.Context, idNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM craftsmen WHERE id_number = $1)`, idNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check craftsman id_number: %w", err)
	}
	return exists, nil
}

// CreateCraftsman 插入工匠记录；唯一约束冲突翻译为 ErrDuplicate
// （并发下预检通过但插入冲突时，由唯一索引保证恰好一个成功）
func (r *PostgresCraftsmenRepo) CreateCraftsman(ctx context.Context, craftsman *domain.Craftsman) error {
	if craftsman == nil {
		return fmt.Errorf("craftsman is required")
	}
	specialties := craftsman.Specialties
	if len(specialties) == 0 {
		specialties = json.RawMessage("[]")
	}
	query := `
		INSERT INTO craftsmen (craftsman_id, name, phone, id_number, specialties, skill_level, credit_score, team_id, region_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, NULLIF($8, '')::uuid, $9, $10, $11, $12)
	`
	_, err := r.q.ExecContext(ctx, query,
		craftsman.CraftsmanID,
		craftsman.Name,
		craftsman.Phone,
		craftsman.IDNumber,
		string(specialties),
		craftsman.SkillLevel,
		craftsman.CreditScore,
		craftsman.TeamID,
		craftsman.RegionCode,
		craftsman.Status,
		craftsman.CreatedAt,
		craftsman.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("create craftsman: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create craftsman: %w", err)
	}
	return nil
}
