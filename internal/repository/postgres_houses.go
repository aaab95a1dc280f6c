package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nongfang-data/internal/domain"
)

// PostgresHousesRepo 农房聚合Repository实现（houses / construction_projects / house_photos）
type PostgresHousesRepo struct {
	q Querier
}

func NewPostgresHousesRepo(q Querier) *PostgresHousesRepo {
	return &PostgresHousesRepo{q: q}
}

var _ HousesRepository = (*PostgresHousesRepo)(nil)

// GetHouse 根据house_id获取农房
func (r *PostgresHousesRepo) GetHouse(ctx context.Context, houseID string) (*domain.House, error) {
	if houseID == "" {
		return nil, fmt.Errorf("house_id is required")
	}
	query := `
		SELECT
			house_id::text,
			address,
			COALESCE(floors, 0) as floors,
			COALESCE(height, 0) as height,
			COALESCE(building_area, 0) as building_area,
			COALESCE(land_area, 0) as land_area,
			house_type,
			construction_status,
			applicant_id::text,
			region_code,
			COALESCE(coordinates, '') as coordinates,
			completion_date,
			created_at,
			updated_at
		FROM houses
		WHERE house_id = $1
	`
	var h domain.House
	var completionDate sql.NullTime
	err := r.q.QueryRowContext(ctx, query, houseID).Scan(
		&h.HouseID,
		&h.Address,
		&h.Floors,
		&h.Height,
		&h.BuildingArea,
		&h.LandArea,
		&h.HouseType,
		&h.ConstructionStatus,
		&h.ApplicantID,
		&h.RegionCode,
		&h.Coordinates,
		&completionDate,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get house: %w", err)
	}
	if completionDate.Valid {
		h.CompletionDate = &completionDate.Time
	}
	return &h, nil
}

// HouseAddressExists 同区划内活跃记录（未完工）的地址查重
func (r *PostgresHousesRepo) HouseAddressExists(ctx context.Context, regionCode, address string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM houses
			WHERE region_code = $1 AND address = $2 AND construction_status <> $3
		)`,
		regionCode, address, domain.ConstructionCompleted,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check house address: %w", err)
	}
	return exists, nil
}

// CreateHouse 插入农房记录
func (r *PostgresHousesRepo) CreateHouse(ctx context.Context, house *domain.House) error {
	if house == nil {
		return fmt.Errorf("house is required")
	}
	query := `
		INSERT INTO houses (house_id, address, floors, height, building_area, land_area, house_type, construction_status, applicant_id, region_code, coordinates, completion_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)
	`
	_, err := r.q.ExecContext(ctx, query,
		house.HouseID,
		house.Address,
		house.Floors,
		house.Height,
		house.BuildingArea,
		house.LandArea,
		house.HouseType,
		house.ConstructionStatus,
		house.ApplicantID,
		house.RegionCode,
		house.Coordinates,
		nullTime(house.CompletionDate),
		house.CreatedAt,
		house.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create house: %w", err)
	}
	return nil
}

// CreateProject 插入施工项目记录
func (r *PostgresHousesRepo) CreateProject(ctx context.Context, project *domain.ConstructionProject) error {
	if project == nil {
		return fmt.Errorf("project is required")
	}
	query := `
		INSERT INTO construction_projects (project_id, house_id, craftsman_id, project_type, description, start_date, expected_end_date, status, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		project.ProjectID,
		project.HouseID,
		project.CraftsmanID,
		project.ProjectType,
		project.Description,
		nullTime(project.StartDate),
		nullTime(project.ExpectedEndDate),
		project.Status,
		project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create construction project: %w", err)
	}
	return nil
}

// CreatePhoto 插入房屋照片记录
func (r *PostgresHousesRepo) CreatePhoto(ctx context.Context, photo *domain.HousePhoto) error {
	if photo == nil {
		return fmt.Errorf("photo is required")
	}
	query := `
		INSERT INTO house_photos (photo_id, house_id, url, category, uploader, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query,
		photo.PhotoID,
		photo.HouseID,
		photo.URL,
		photo.Category,
		photo.Uploader,
		photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create house photo: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
