package service

import (
	"context"
	"testing"
	"time"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/repository"

	"go.uber.org/zap"
)

func seedPerson(t *testing.T, mem *repository.MemoryStore, p domain.Person) {
	t.Helper()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := mem.Persons().CreatePerson(context.Background(), &p); err != nil {
		t.Fatalf("seed person: %v", err)
	}
}

// runResolve 在内存事务里执行解析（与编排层的调用方式一致）
func runResolve(t *testing.T, mem *repository.MemoryStore, cand domain.PersonCandidate, regionCode string) (*domain.Person, error) {
	t.Helper()
	resolver := NewEntityResolver(zap.NewNop())
	var out *domain.Person
	var resolveErr error
	err := repository.NewMemoryTxManager(mem).RunInTx(context.Background(), func(tx *repository.Tx) error {
		out, resolveErr = resolver.ResolveApplicant(context.Background(), tx, cand, regionCode)
		return resolveErr
	})
	if resolveErr != nil {
		return nil, resolveErr
	}
	return out, err
}

func TestResolveApplicant_IDNumberWins(t *testing.T) {
	mem := repository.NewMemoryStore()
	seedPerson(t, mem, domain.Person{
		PersonID: "p-id", Username: "u1", Name: "张三",
		IDNumber: "370211199001011234", Phone: "13800000001", RegionCode: "370211",
		CreatedAt: time.Now().Add(-2 * time.Hour),
	})
	seedPerson(t, mem, domain.Person{
		PersonID: "p-phone", Username: "u2", Name: "张三",
		Phone: "13800000002", RegionCode: "370211",
		CreatedAt: time.Now().Add(-time.Hour),
	})

	// 证件号指向 p-id，手机号指向 p-phone：证件号优先，且命中后不再回退
	got, err := runResolve(t, mem, domain.PersonCandidate{
		Name: "李四", IDNumber: "370211199001011234", Phone: "13800000002",
	}, "370211")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.PersonID != "p-id" {
		t.Errorf("resolved %s, want p-id", got.PersonID)
	}
}

func TestResolveApplicant_PhoneThenNameRegion(t *testing.T) {
	mem := repository.NewMemoryStore()
	seedPerson(t, mem, domain.Person{
		PersonID: "p-phone", Username: "u1", Name: "王五",
		Phone: "13800000003", RegionCode: "370211",
	})
	seedPerson(t, mem, domain.Person{
		PersonID: "p-name", Username: "u2", Name: "赵六", RegionCode: "370211",
	})

	got, err := runResolve(t, mem, domain.PersonCandidate{Name: "谁都行", Phone: "13800000003"}, "370211")
	if err != nil {
		t.Fatalf("resolve by phone: %v", err)
	}
	if got.PersonID != "p-phone" {
		t.Errorf("resolved %s, want p-phone", got.PersonID)
	}

	got, err = runResolve(t, mem, domain.PersonCandidate{Name: "赵六"}, "370211")
	if err != nil {
		t.Fatalf("resolve by name+region: %v", err)
	}
	if got.PersonID != "p-name" {
		t.Errorf("resolved %s, want p-name", got.PersonID)
	}

	// 同名不同区划不算命中
	got, err = runResolve(t, mem, domain.PersonCandidate{Name: "赵六"}, "510104")
	if err != nil {
		t.Fatalf("resolve in other region: %v", err)
	}
	if got.PersonID == "p-name" {
		t.Error("name match in a different region must not resolve")
	}
}

func TestResolveApplicant_CreatesFarmer(t *testing.T) {
	mem := repository.NewMemoryStore()

	got, err := runResolve(t, mem, domain.PersonCandidate{
		Name: "新农户", Phone: "13800000004", IDNumber: "370211198812121234",
	}, "370211")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Role != domain.RoleFarmer {
		t.Errorf("role = %q, want farmer", got.Role)
	}
	if got.Username == "" {
		t.Error("created person should have a generated username")
	}
	if got.RegionCode != "370211" {
		t.Errorf("region = %q, want village region", got.RegionCode)
	}
	if counts := mem.CountByKind(); counts["persons"] != 1 {
		t.Errorf("persons count = %d, want 1", counts["persons"])
	}
}

func TestResolveApplicant_ConcurrentIDNumberConflict(t *testing.T) {
	mem := repository.NewMemoryStore()
	seedPerson(t, mem, domain.Person{
		PersonID: "p-1", Username: "u1", Name: "张三",
		IDNumber: "370211199001011234", RegionCode: "370211",
	})

	resolver := NewEntityResolver(zap.NewNop())
	// 模拟并发竞态：读侧没查到、插入时撞唯一约束
	err := repository.NewMemoryTxManager(mem).RunInTx(context.Background(), func(tx *repository.Tx) error {
		_, err := resolver.createApplicant(context.Background(), tx, domain.PersonCandidate{
			Name: "张三", IDNumber: "370211199001011234",
		}, "370211")
		return err
	})
	if ErrorCode(err) != CodeDuplicateIdentity {
		t.Errorf("want DUPLICATE_IDENTITY, got %v", err)
	}
}

func TestCreateCraftsman_DuplicateIDNumber(t *testing.T) {
	mem := repository.NewMemoryStore()
	resolver := NewEntityResolver(zap.NewNop())
	ctx := context.Background()
	txm := repository.NewMemoryTxManager(mem)

	cand := domain.CraftsmanCandidate{
		Name: "李师傅", Phone: "13912345678", IDNumber: "370211198001011234",
		Specialties: []string{"砌筑"}, SkillLevel: "advanced",
	}
	err := txm.RunInTx(ctx, func(tx *repository.Tx) error {
		_, err := resolver.CreateCraftsman(ctx, tx, cand, "370211")
		return err
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	err = txm.RunInTx(ctx, func(tx *repository.Tx) error {
		_, err := resolver.CreateCraftsman(ctx, tx, cand, "370211")
		return err
	})
	if ErrorCode(err) != CodeDuplicateIdentity {
		t.Errorf("want DUPLICATE_IDENTITY, got %v", err)
	}
	if counts := mem.CountByKind(); counts["craftsmen"] != 1 {
		t.Errorf("craftsmen count = %d, want 1", counts["craftsmen"])
	}
}
