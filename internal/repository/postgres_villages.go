package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"nongfang-data/internal/domain"
)

// PostgresVillagesRepo 村级门户Repository实现（采集流程只读）
type PostgresVillagesRepo struct {
	q Querier
}

func NewPostgresVillagesRepo(q Querier) *PostgresVillagesRepo {
	return &PostgresVillagesRepo{q: q}
}

var _ VillagesRepository = (*PostgresVillagesRepo)(nil)

// GetVillageByCode 根据村代码获取采集门户配置
func (r *PostgresVillagesRepo) GetVillageByCode(ctx context.Context, villageCode string) (*domain.VillagePortal, error) {
	if villageCode == "" {
		return nil, fmt.Errorf("village_code is required")
	}
	query := `
		SELECT
			village_id::text,
			village_code,
			village_name,
			region_code,
			active,
			COALESCE(templates, '[]'::jsonb)::text as templates,
			owner_region,
			created_at,
			updated_at
		FROM village_portals
		WHERE village_code = $1
	`
	var v domain.VillagePortal
	var templatesRaw string
	err := r.q.QueryRowContext(ctx, query, villageCode).Scan(
		&v.VillageID,
		&v.VillageCode,
		&v.VillageName,
		&v.RegionCode,
		&v.Active,
		&templatesRaw,
		&v.OwnerRegion,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get village portal: %w", err)
	}
	if err := json.Unmarshal([]byte(templatesRaw), &v.Templates); err != nil {
		return nil, fmt.Errorf("failed to decode village templates: %w", err)
	}
	return &v, nil
}
