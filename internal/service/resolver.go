package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 懒创建的申请人账号只是占位：登录口令由账号体系后续下发
const passwordPlaceholder = "*NOT-SET*"

// 生成用户名撞唯一约束时的重试次数（uuid 后缀下几乎不会发生）
const usernameRetries = 3

// EntityResolver 实体解析器
// 把采集表单里的零散人员字段归一到既有的规范人员记录上，查不到才创建；
// 解析过程只做 find-or-create，从不更新既有记录
type EntityResolver struct {
	logger *zap.Logger
}

func NewEntityResolver(logger *zap.Logger) *EntityResolver {
	return &EntityResolver{logger: logger}
}

// ResolveApplicant 解析或创建申请人
// 查找顺序（首个命中即终止，不做回退搜索）：
//  1. 证件号精确匹配
//  2. 手机号精确匹配（多条命中取最早一条）
//  3. (姓名, 村所属区划) 精确匹配
//  4. 全部未命中则创建新人员（生成唯一用户名，角色固定为农户）
func (r *EntityResolver) ResolveApplicant(ctx context.Context, tx *repository.Tx, cand domain.PersonCandidate, regionCode string) (*domain.Person, error) {
	if cand.IDNumber != "" {
		p, err := tx.Persons.FindPersonByIDNumber(ctx, cand.IDNumber)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if cand.Phone != "" {
		p, err := tx.Persons.FindPersonByPhone(ctx, cand.Phone)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if cand.Name != "" {
		p, err := tx.Persons.FindPersonByNameRegion(ctx, cand.Name, regionCode)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return r.createApplicant(ctx, tx, cand, regionCode)
}

func (r *EntityResolver) createApplicant(ctx context.Context, tx *repository.Tx, cand domain.PersonCandidate, regionCode string) (*domain.Person, error) {
	now := time.Now()

	var lastErr error
	for attempt := 0; attempt < usernameRetries; attempt++ {
		person := &domain.Person{
			PersonID:     uuid.NewString(),
			Username:     generateUsername(),
			PasswordHash: passwordPlaceholder,
			Name:         cand.Name,
			Phone:        cand.Phone,
			IDNumber:     cand.IDNumber,
			Address:      cand.Address,
			RegionCode:   regionCode,
			Role:         domain.RoleFarmer,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err := tx.Persons.CreatePerson(ctx, person)
		if err == nil {
			r.logger.Info("created applicant person",
				zap.String("person_id", person.PersonID),
				zap.String("region_code", regionCode),
			)
			return person, nil
		}
		if errors.Is(err, repository.ErrDuplicate) {
			// 带证件号时的唯一冲突只能来自并发的同证件号创建——向上抛冲突；
			// 无证件号时冲突来自生成的用户名，换一个重试
			if cand.IDNumber != "" {
				return nil, NewError(CodeDuplicateIdentity, "a person with this id number already exists")
			}
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("generate unique username: %w", lastErr)
}

func generateUsername() string {
	return "farmer_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// CreateCraftsman 创建新工匠（仅当提交声明新工匠且给出姓名时调用）
// 证件号在插入前显式查重；并发竞态下的冲突由唯一索引兜底，
// 两种路径都映射为 DUPLICATE_IDENTITY 并使整个事务回滚
func (r *EntityResolver) CreateCraftsman(ctx context.Context, tx *repository.Tx, cand domain.CraftsmanCandidate, regionCode string) (*domain.Craftsman, error) {
	exists, err := tx.Craftsmen.CraftsmanIDNumberExists(ctx, cand.IDNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewError(CodeDuplicateIdentity, "a craftsman with this id number already exists")
	}

	specialties := json.RawMessage("[]")
	if len(cand.Specialties) > 0 {
		if b, err := json.Marshal(cand.Specialties); err == nil {
			specialties = b
		}
	}

	now := time.Now()
	craftsman := &domain.Craftsman{
		CraftsmanID: uuid.NewString(),
		Name:        cand.Name,
		Phone:       cand.Phone,
		IDNumber:    cand.IDNumber,
		Specialties: specialties,
		SkillLevel:  domain.NormalizeSkillLevel(cand.SkillLevel),
		CreditScore: domain.InitialCreditScore,
		TeamID:      cand.TeamID,
		RegionCode:  regionCode,
		Status:      domain.CraftsmanActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Craftsmen.CreateCraftsman(ctx, craftsman); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewError(CodeDuplicateIdentity, "a craftsman with this id number already exists")
		}
		return nil, err
	}

	r.logger.Info("created craftsman",
		zap.String("craftsman_id", craftsman.CraftsmanID),
		zap.String("skill_level", craftsman.SkillLevel),
		zap.String("region_code", regionCode),
	)
	return craftsman, nil
}
