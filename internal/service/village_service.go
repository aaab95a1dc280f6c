package service

import (
	"context"
	"encoding/json"
	"time"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/repository"
	"nongfang-data/internal/store"

	"go.uber.org/zap"
)

const villageCacheTTL = 60 * time.Second

// VillageService 村级门户查询（带读穿缓存）
// 门户配置是采集流程的只读输入，变更频率低，短TTL缓存减少热点村的DB往返；
// 缓存不可用时静默降级到DB
type VillageService struct {
	repo   repository.VillagesRepository
	cache  store.KV // 可为 nil（DB-less联测或测试环境）
	logger *zap.Logger
}

func NewVillageService(repo repository.VillagesRepository, cache store.KV, logger *zap.Logger) *VillageService {
	return &VillageService{repo: repo, cache: cache, logger: logger}
}

func villageCacheKey(code string) string {
	return "nongfang:village:" + code
}

// Lookup 按村代码查采集门户（可能命中缓存）；未命中返回 repository.ErrNotFound
// 只用于纯读路径（门户详情、条目列表）——提交/草稿的前置检查走 LookupFresh
func (s *VillageService) Lookup(ctx context.Context, villageCode string) (*domain.VillagePortal, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, villageCacheKey(villageCode)); err == nil {
			var v domain.VillagePortal
			if err := json.Unmarshal([]byte(raw), &v); err == nil {
				return &v, nil
			}
		} else if err != store.ErrMiss {
			s.logger.Debug("village cache read failed", zap.Error(err))
		}
	}
	return s.lookupAndFill(ctx, villageCode)
}

// LookupFresh 绕过缓存直查DB
// 提交与草稿入口的前置判定（存在/启用/区划）必须看到当前状态：
// 刚停用的村不能因为缓存还热就放进一笔完整提交。查到后顺手刷新缓存。
func (s *VillageService) LookupFresh(ctx context.Context, villageCode string) (*domain.VillagePortal, error) {
	return s.lookupAndFill(ctx, villageCode)
}

func (s *VillageService) lookupAndFill(ctx context.Context, villageCode string) (*domain.VillagePortal, error) {
	v, err := s.repo.GetVillageByCode(ctx, villageCode)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, villageCacheKey(villageCode), string(raw), villageCacheTTL); err != nil {
				s.logger.Debug("village cache write failed", zap.Error(err))
			}
		}
	}
	return v, nil
}
