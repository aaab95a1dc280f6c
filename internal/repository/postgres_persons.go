package repository

import (
	"context"
	"database/sql"
	"fmt"

	"nongfang-data/internal/domain"
)

// PostgresPersonsRepo 人员Repository实现
// 绑定 Querier：既可跑在 *sql.DB 上，也可跑在编排层事务的 *sql.Tx 上
type PostgresPersonsRepo struct {
	q Querier
}

func NewPostgresPersonsRepo(q Querier) *PostgresPersonsRepo {
	return &PostgresPersonsRepo{q: q}
}

var _ PersonsRepository = (*PostgresPersonsRepo)(nil)

const personColumns = `
	person_id::text,
	username,
	password_hash,
	name,
	COALESCE(phone, '') as phone,
	COALESCE(id_number, '') as id_number,
	COALESCE(address, '') as address,
	region_code,
	role,
	created_at,
	updated_at`

func scanPerson(row *sql.Row) (*domain.Person, error) {
	var p domain.Person
	err := row.Scan(
		&p.PersonID,
		&p.Username,
		&p.PasswordHash,
		&p.Name,
		&p.Phone,
		&p.IDNumber,
		&p.Address,
		&p.RegionCode,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan person: %w", err)
	}
	return &p, nil
}

// GetPerson 根据person_id获取人员
func (r *PostgresPersonsRepo) GetPerson(ctx context.Context, personID string) (*domain.Person, error) {
	if personID == "" {
		return nil, fmt.Errorf("person_id is required")
	}
	query := `SELECT ` + personColumns + ` FROM persons WHERE person_id = $1`
	return scanPerson(r.q.QueryRowContext(ctx, query, personID))
}

// FindPersonByIDNumber 证件号精确匹配（id_number 存在时全局唯一）
func (r *PostgresPersonsRepo) FindPersonByIDNumber(ctx context.Context, idNumber string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id_number = $1`
	return scanPerson(r.q.QueryRowContext(ctx, query, idNumber))
}

// FindPersonByPhone 手机号精确匹配；多条命中时取最早创建的一条
func (r *PostgresPersonsRepo) FindPersonByPhone(ctx context.Context, phone string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE phone = $1 ORDER BY created_at ASC LIMIT 1`
	return scanPerson(r.q.QueryRowContext(ctx, query, phone))
}

// FindPersonByNameRegion (姓名, 区划) 精确匹配
func (r *PostgresPersonsRepo) FindPersonByNameRegion(ctx context.Context, name, regionCode string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE name = $1 AND region_code = $2 ORDER BY created_at ASC LIMIT 1`
	return scanPerson(r.q.QueryRowContext(ctx, query, name, regionCode))
}

// CreatePerson 插入人员记录；唯一约束冲突翻译为 ErrDuplicate
func (r *PostgresPersonsRepo) CreatePerson(ctx context.Context, person *domain.Person) error {
	if person == nil {
		return fmt.Errorf("person is required")
	}
	query := `
		INSERT INTO persons (person_id, username, password_hash, name, phone, id_number, address, region_code, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11)
	`
	_, err := r.q.ExecContext(ctx, query,
		person.PersonID,
		person.Username,
		person.PasswordHash,
		person.Name,
		person.Phone,
		person.IDNumber,
		person.Address,
		person.RegionCode,
		person.Role,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("create person: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}
