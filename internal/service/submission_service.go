package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const actionSubmit = "field_data.submit"

// SubmissionResult 提交成功的回执
type SubmissionResult struct {
	EntryID       string    `json:"entryId"`
	HouseID       string    `json:"houseId"`
	Address       string    `json:"address"`
	ApplicantName string    `json:"applicantName"`
	CraftsmanName string    `json:"craftsmanName,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// SubmissionService 采集提交编排
// 一次提交的全部写入（申请人解析/工匠创建/农房/施工项目/照片/存证条目/草稿清理）
// 在单个事务内完成：任何一步失败整体回滚，不留部分记录。
// 审计事件在事务收尾后发布，成功失败各记一条，发布失败不影响响应。
type SubmissionService struct {
	villages *VillageService
	txm      repository.TxManager
	resolver *EntityResolver
	audit    AuditSink
	storage  *StorageClient // 可为 nil（未配置文件存储服务时跳过探测）

	// 事务外的读路径
	entries repository.EntriesRepository
	houses  repository.HousesRepository

	logger *zap.Logger
}

func NewSubmissionService(
	villages *VillageService,
	txm repository.TxManager,
	resolver *EntityResolver,
	audit AuditSink,
	storage *StorageClient,
	entries repository.EntriesRepository,
	houses repository.HousesRepository,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		villages: villages,
		txm:      txm,
		resolver: resolver,
		audit:    audit,
		storage:  storage,
		entries:  entries,
		houses:   houses,
		logger:   logger,
	}
}

// Submit 提交一次村级采集表单
// rawData 原样留档到 DataEntry；类型化视图仅用于校验与实体构建
func (s *SubmissionService) Submit(ctx context.Context, villageCode string, rawData json.RawMessage, scope domain.AuthScope) (*SubmissionResult, error) {
	result, err := s.submit(ctx, villageCode, rawData, scope)
	s.emitAudit(ctx, villageCode, scope.UserID, result, err)
	return result, err
}

func (s *SubmissionService) submit(ctx context.Context, villageCode string, rawData json.RawMessage, scope domain.AuthScope) (*SubmissionResult, error) {
	// 写入前的全部前置检查：村存在且启用、调用方区划覆盖、业务规则零违规
	// 绕过门户缓存：启用开关的判定必须基于当前状态
	village, err := s.villages.LookupFresh(ctx, villageCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(CodeVillageNotFound, "village not found: "+villageCode)
		}
		s.logger.Error("village lookup failed",
			zap.String("village_code", villageCode),
			zap.String("user_id", scope.UserID),
			zap.Error(err),
		)
		return nil, err
	}
	if !village.Active {
		return nil, NewError(CodeVillageInactive, "field data collection is disabled for this village")
	}
	if !scope.Covers(village.RegionCode) {
		return nil, NewError(CodeForbidden, "caller's region scope does not cover this village")
	}

	var form domain.SubmissionForm
	if err := json.Unmarshal(rawData, &form); err != nil {
		return nil, NewError(CodeValidation, "malformed submission payload: "+err.Error())
	}

	if violations := ValidateSubmission(&form, village.Templates); len(violations) > 0 {
		return nil, NewBusinessValidationError(violations)
	}

	// 照片 URL 探测（best-effort，只告警），放在事务之外
	if s.storage != nil && len(form.ConstructionPhotos) > 0 {
		s.storage.ProbeURLs(ctx, form.ConstructionPhotos)
	}

	var result *SubmissionResult
	err = s.txm.RunInTx(ctx, func(tx *repository.Tx) error {
		r, err := s.ingest(ctx, tx, village, &form, rawData, scope)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if _, ok := AsError(err); ok {
			return nil, err
		}
		s.logger.Error("submission failed",
			zap.String("village_code", villageCode),
			zap.String("user_id", scope.UserID),
			zap.Error(err),
		)
		return nil, NewError(CodeInternal, "submission could not be processed")
	}
	return result, nil
}

// ingest 事务内的写入序列，步骤严格有序（后续步骤依赖前面产出的ID）
func (s *SubmissionService) ingest(ctx context.Context, tx *repository.Tx, village *domain.VillagePortal, form *domain.SubmissionForm, rawData json.RawMessage, scope domain.AuthScope) (*SubmissionResult, error) {
	now := time.Now()

	// 1. 解析或创建申请人
	applicant, err := s.resolver.ResolveApplicant(ctx, tx, domain.PersonCandidate{
		Name:     strings.TrimSpace(form.ApplicantName),
		Phone:    form.Phone,
		IDNumber: strings.ToUpper(form.IDNumber),
		Address:  form.ApplicantAddress,
	}, village.RegionCode)
	if err != nil {
		return nil, err
	}

	// 2. 工匠：声明新工匠则创建；引用既有工匠则查找（未命中容忍，跳过项目创建）
	var craftsman *domain.Craftsman
	if form.IsNewCraftsman && strings.TrimSpace(form.CraftsmanName) != "" {
		craftsman, err = s.resolver.CreateCraftsman(ctx, tx, domain.CraftsmanCandidate{
			Name:        strings.TrimSpace(form.CraftsmanName),
			Phone:       form.CraftsmanPhone,
			IDNumber:    strings.ToUpper(form.CraftsmanIDNumber),
			Specialties: form.Specialties,
			SkillLevel:  form.SkillLevel,
			TeamID:      form.TeamID,
		}, village.RegionCode)
		if err != nil {
			return nil, err
		}
	} else if form.CraftsmanID != "" {
		craftsman, err = tx.Craftsmen.GetCraftsman(ctx, form.CraftsmanID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			s.logger.Warn("referenced craftsman not found, skipping project creation",
				zap.String("craftsman_id", form.CraftsmanID),
				zap.String("village_code", village.VillageCode),
			)
			craftsman = nil
		}
	}

	// 3. 农房记录（枚举规范化，未知值回落默认；活跃记录地址查重）
	address := strings.TrimSpace(form.Address)
	exists, err := tx.Houses.HouseAddressExists(ctx, village.RegionCode, address)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewBusinessValidationError([]Violation{
			{Field: "address", Message: "an active house record already exists at this address"},
		})
	}

	house := &domain.House{
		HouseID:            uuid.NewString(),
		Address:            address,
		Floors:             form.Floors,
		Height:             form.Height,
		BuildingArea:       form.Area,
		LandArea:           form.LandArea,
		HouseType:          domain.NormalizeHouseType(form.HouseType),
		ConstructionStatus: domain.NormalizeConstructionStatus(form.ConstructionStatus),
		ApplicantID:        applicant.PersonID,
		RegionCode:         village.RegionCode,
		Coordinates:        form.Coordinates,
		CompletionDate:     domain.ParseFormDate(form.CompletionTime),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.Houses.CreateHouse(ctx, house); err != nil {
		return nil, err
	}

	// 4. 解析出工匠才建施工项目
	if craftsman != nil {
		description := form.WorkDescription
		if description == "" {
			description = form.ProgressDescription
		}
		project := &domain.ConstructionProject{
			ProjectID:       uuid.NewString(),
			HouseID:         house.HouseID,
			CraftsmanID:     craftsman.CraftsmanID,
			ProjectType:     house.HouseType,
			Description:     description,
			StartDate:       domain.ParseFormDate(form.StartDate),
			ExpectedEndDate: domain.ParseFormDate(form.ExpectedCompletionDate),
			Status:          domain.ProjectInProgress,
			CreatedAt:       now,
		}
		if err := tx.Houses.CreateProject(ctx, project); err != nil {
			return nil, err
		}
	}

	// 5. 照片引用
	for _, url := range form.ConstructionPhotos {
		if strings.TrimSpace(url) == "" {
			continue
		}
		photo := &domain.HousePhoto{
			PhotoID:   uuid.NewString(),
			HouseID:   house.HouseID,
			URL:       url,
			Category:  domain.PhotoDuringConstruction,
			Uploader:  scope.UserID,
			CreatedAt: now,
		}
		if err := tx.Houses.CreatePhoto(ctx, photo); err != nil {
			return nil, err
		}
	}

	// 6. 存证条目（raw payload 原样留档）
	entry := &domain.DataEntry{
		EntryID:     uuid.NewString(),
		VillageCode: village.VillageCode,
		HouseID:     house.HouseID,
		SubmittedBy: scope.UserID,
		RawPayload:  rawData,
		Status:      domain.EntrySubmitted,
		CreatedAt:   now,
	}
	if err := tx.Entries.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	// 7. 清理该 (村, 提交人) 的草稿
	if err := tx.Drafts.DeleteDraft(ctx, village.VillageCode, scope.UserID); err != nil {
		return nil, err
	}

	result := &SubmissionResult{
		EntryID:       entry.EntryID,
		HouseID:       house.HouseID,
		Address:       house.Address,
		ApplicantName: applicant.Name,
		SubmittedAt:   now,
	}
	if craftsman != nil {
		result.CraftsmanName = craftsman.Name
	}
	return result, nil
}

// emitAudit 发布审计事件（事务外，尽力而为）
func (s *SubmissionService) emitAudit(ctx context.Context, villageCode, userID string, result *SubmissionResult, submitErr error) {
	rec := domain.AuditRecord{
		Action:      actionSubmit,
		VillageCode: villageCode,
		UserID:      userID,
		Timestamp:   time.Now(),
	}
	if submitErr != nil {
		rec.Outcome = domain.AuditOutcomeFailure
		rec.ErrorCode = ErrorCode(submitErr)
	} else {
		rec.Outcome = domain.AuditOutcomeSuccess
		if result != nil {
			rec.EntryID = result.EntryID
			rec.HouseID = result.HouseID
		}
	}
	if err := s.audit.Record(ctx, rec); err != nil {
		s.logger.Warn("audit record failed",
			zap.String("village_code", villageCode),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// GetEntry 查询单条存证条目（含区划范围校验）
func (s *SubmissionService) GetEntry(ctx context.Context, entryID string, scope domain.AuthScope) (*domain.DataEntry, error) {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewError(CodeNotFound, "data entry not found")
		}
		return nil, err
	}
	house, err := s.houses.GetHouse(ctx, entry.HouseID)
	if err != nil {
		return nil, err
	}
	if !scope.Covers(house.RegionCode) {
		return nil, NewError(CodeForbidden, "caller's region scope does not cover this entry")
	}
	return entry, nil
}

// ListEntries 分页查询某村的存证条目（含区划范围校验）
func (s *SubmissionService) ListEntries(ctx context.Context, villageCode string, page, size int, scope domain.AuthScope) ([]*domain.DataEntry, int, error) {
	village, err := s.villages.Lookup(ctx, villageCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, NewError(CodeVillageNotFound, "village not found: "+villageCode)
		}
		return nil, 0, err
	}
	if !scope.Covers(village.RegionCode) {
		return nil, 0, NewError(CodeForbidden, "caller's region scope does not cover this village")
	}
	return s.entries.ListEntriesByVillage(ctx, villageCode, page, size)
}
