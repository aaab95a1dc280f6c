package repository

import (
	"context"

	"nongfang-data/internal/domain"
)

// HousesRepository 农房聚合Repository接口
// 覆盖 houses / construction_projects / house_photos 三张表
// （一次提交在同一事务内写入该聚合的全部记录）
type HousesRepository interface {
	GetHouse(ctx context.Context, houseID string) (*domain.House, error)

	// 活跃记录内地址查重（同区划）；编排层在创建前校验
	HouseAddressExists(ctx context.Context, regionCode, address string) (bool, error)

	CreateHouse(ctx context.Context, house *domain.House) error
	CreateProject(ctx context.Context, project *domain.ConstructionProject) error
	CreatePhoto(ctx context.Context, photo *domain.HousePhoto) error
}

// EntriesRepository 采集条目Repository接口
type EntriesRepository interface {
	CreateEntry(ctx context.Context, entry *domain.DataEntry) error
	GetEntry(ctx context.Context, entryID string) (*domain.DataEntry, error)
	ListEntriesByVillage(ctx context.Context, villageCode string, page, size int) ([]*domain.DataEntry, int, error)
}

// DraftsRepository 草稿Repository接口
// (village_code, user_id) 唯一键 upsert，后写覆盖先写
type DraftsRepository interface {
	UpsertDraft(ctx context.Context, draft *domain.DraftSubmission) error
	// 未命中返回 ErrNotFound
	GetDraft(ctx context.Context, villageCode, userID string) (*domain.DraftSubmission, error)
	// 不存在时静默成功
	DeleteDraft(ctx context.Context, villageCode, userID string) error
}

// VillagesRepository 村级门户Repository接口（采集流程只读）
type VillagesRepository interface {
	GetVillageByCode(ctx context.Context, villageCode string) (*domain.VillagePortal, error)
}
