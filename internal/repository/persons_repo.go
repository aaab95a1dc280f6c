package repository

import (
	"context"

	"nongfang-data/internal/domain"
)

// PersonsRepository 人员Repository接口
// 使用强类型领域模型；查询未命中返回 ErrNotFound，
// 唯一约束（id_number/username）冲突返回 ErrDuplicate
type PersonsRepository interface {
	GetPerson(ctx context.Context, personID string) (*domain.Person, error)

	// 实体解析用的三级查找：证件号 -> 手机号 -> 姓名+区划
	FindPersonByIDNumber(ctx context.Context, idNumber string) (*domain.Person, error)
	FindPersonByPhone(ctx context.Context, phone string) (*domain.Person, error)
	FindPersonByNameRegion(ctx context.Context, name, regionCode string) (*domain.Person, error)

	CreatePerson(ctx context.Context, person *domain.Person) error
}

// CraftsmenRepository 工匠Repository接口
type CraftsmenRepository interface {
	GetCraftsman(ctx context.Context, craftsmanID string) (*domain.Craftsman, error)
	CraftsmanIDNumberExists(ctx context.Context, idNumber string) (bool, error)
	CreateCraftsman(ctx context.Context, craftsman *domain.Craftsman) error
}
