package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftService 分步提交草稿管理
// (village_code, user_id) 唯一键 upsert：后写覆盖先写，不做版本与冲突检测；
// 区划范围校验在每个入口独立求值（与提交入口一致，没有集中式闸口）
type DraftService struct {
	villages *VillageService
	drafts   repository.DraftsRepository
	logger   *zap.Logger
}

func NewDraftService(villages *VillageService, drafts repository.DraftsRepository, logger *zap.Logger) *DraftService {
	return &DraftService{villages: villages, drafts: drafts, logger: logger}
}

// checkVillageScope 草稿入口的前置检查：村存在 + 调用方区划覆盖
// 采集通道停用不拦草稿读写：停用只阻断最终提交
// 前置判定不走门户缓存，与提交入口一致
func (s *DraftService) checkVillageScope(ctx context.Context, villageCode string, scope domain.AuthScope) error {
	village, err := s.villages.LookupFresh(ctx, villageCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(CodeVillageNotFound, "village not found: "+villageCode)
		}
		return err
	}
	if !scope.Covers(village.RegionCode) {
		return NewError(CodeForbidden, "caller's region scope does not cover this village")
	}
	return nil
}

// Save 保存草稿（last write wins）
func (s *DraftService) Save(ctx context.Context, villageCode string, scope domain.AuthScope, step int, payload json.RawMessage) (*domain.DraftSubmission, error) {
	if err := s.checkVillageScope(ctx, villageCode, scope); err != nil {
		return nil, err
	}
	if step < 0 {
		return nil, NewError(CodeValidation, "step must not be negative")
	}

	draft := &domain.DraftSubmission{
		DraftID:     uuid.NewString(),
		VillageCode: villageCode,
		UserID:      scope.UserID,
		Step:        step,
		Payload:     payload,
		UpdatedAt:   time.Now(),
	}
	if err := s.drafts.UpsertDraft(ctx, draft); err != nil {
		s.logger.Error("draft upsert failed",
			zap.String("village_code", villageCode),
			zap.String("user_id", scope.UserID),
			zap.Error(err),
		)
		return nil, NewError(CodeInternal, "draft could not be saved")
	}
	return draft, nil
}

// Load 读取调用方在该村的草稿；没有草稿时返回 (nil, nil)
func (s *DraftService) Load(ctx context.Context, villageCode string, scope domain.AuthScope) (*domain.DraftSubmission, error) {
	if err := s.checkVillageScope(ctx, villageCode, scope); err != nil {
		return nil, err
	}
	draft, err := s.drafts.GetDraft(ctx, villageCode, scope.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return draft, nil
}

// Discard 用户主动丢弃草稿（最终提交成功后的清理由编排层在事务内完成）
func (s *DraftService) Discard(ctx context.Context, villageCode string, scope domain.AuthScope) error {
	if err := s.checkVillageScope(ctx, villageCode, scope); err != nil {
		return err
	}
	return s.drafts.DeleteDraft(ctx, villageCode, scope.UserID)
}
