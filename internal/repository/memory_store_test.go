package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"nongfang-data/internal/domain"
)

func TestMemoryTxManager_RollbackDiscardsWrites(t *testing.T) {
	mem := NewMemoryStore()
	txm := NewMemoryTxManager(mem)
	ctx := context.Background()

	boom := fmt.Errorf("boom")
	err := txm.RunInTx(ctx, func(tx *Tx) error {
		if err := tx.Persons.CreatePerson(ctx, &domain.Person{
			PersonID: "p-1", Username: "u1", Name: "张三", RegionCode: "370211",
		}); err != nil {
			return err
		}
		if err := tx.Houses.CreateHouse(ctx, &domain.House{
			HouseID: "h-1", Address: "一组1号", RegionCode: "370211",
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx err = %v", err)
	}

	for kind, n := range mem.CountByKind() {
		if n != 0 {
			t.Errorf("%s count = %d after rollback, want 0", kind, n)
		}
	}
}

func TestMemoryTxManager_CommitPublishesWrites(t *testing.T) {
	mem := NewMemoryStore()
	txm := NewMemoryTxManager(mem)
	ctx := context.Background()

	err := txm.RunInTx(ctx, func(tx *Tx) error {
		return tx.Persons.CreatePerson(ctx, &domain.Person{
			PersonID: "p-1", Username: "u1", Name: "张三", RegionCode: "370211",
		})
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	p, err := mem.Persons().GetPerson(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetPerson after commit: %v", err)
	}
	if p.Name != "张三" {
		t.Errorf("name = %q", p.Name)
	}
}

func TestMemoryPersons_UniquenessAndEarliestMatch(t *testing.T) {
	mem := NewMemoryStore()
	repo := mem.Persons()
	ctx := context.Background()

	first := &domain.Person{
		PersonID: "p-1", Username: "u1", Name: "张三",
		IDNumber: "370211199001011234", Phone: "13800000001",
		RegionCode: "370211", CreatedAt: time.Now().Add(-time.Hour),
	}
	if err := repo.CreatePerson(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	// 用户名冲突
	err := repo.CreatePerson(ctx, &domain.Person{PersonID: "p-2", Username: "u1", Name: "李四", RegionCode: "370211"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username: got %v", err)
	}
	// 证件号冲突
	err = repo.CreatePerson(ctx, &domain.Person{
		PersonID: "p-3", Username: "u3", Name: "李四",
		IDNumber: "370211199001011234", RegionCode: "370211",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate id number: got %v", err)
	}

	// 手机号多条命中取最早创建的一条
	if err := repo.CreatePerson(ctx, &domain.Person{
		PersonID: "p-4", Username: "u4", Name: "王五",
		Phone: "13800000001", RegionCode: "370211", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("create second with same phone: %v", err)
	}
	p, err := repo.FindPersonByPhone(ctx, "13800000001")
	if err != nil {
		t.Fatalf("FindPersonByPhone: %v", err)
	}
	if p.PersonID != "p-1" {
		t.Errorf("earliest match should win, got %s", p.PersonID)
	}

	// 空证件号不参与唯一性
	if err := repo.CreatePerson(ctx, &domain.Person{PersonID: "p-5", Username: "u5", Name: "赵六", RegionCode: "370211"}); err != nil {
		t.Errorf("second person with empty id number should be allowed: %v", err)
	}
}

func TestMemoryHouses_AddressExistsIgnoresCompleted(t *testing.T) {
	mem := NewMemoryStore()
	repo := mem.Houses()
	ctx := context.Background()

	if err := repo.CreateHouse(ctx, &domain.House{
		HouseID: "h-1", Address: "一组1号", RegionCode: "370211",
		ConstructionStatus: domain.ConstructionCompleted,
	}); err != nil {
		t.Fatalf("create completed house: %v", err)
	}

	// 已完工的记录不算活跃，不阻塞同地址
	exists, err := repo.HouseAddressExists(ctx, "370211", "一组1号")
	if err != nil {
		t.Fatalf("HouseAddressExists: %v", err)
	}
	if exists {
		t.Error("completed house must not count as an active address conflict")
	}

	if err := repo.CreateHouse(ctx, &domain.House{
		HouseID: "h-2", Address: "一组1号", RegionCode: "370211",
		ConstructionStatus: domain.ConstructionInProgress,
	}); err != nil {
		t.Fatalf("create in-progress house: %v", err)
	}
	exists, _ = repo.HouseAddressExists(ctx, "370211", "一组1号")
	if !exists {
		t.Error("in-progress house should count as an active address conflict")
	}

	// 不同区划不冲突
	exists, _ = repo.HouseAddressExists(ctx, "510104", "一组1号")
	if exists {
		t.Error("same address in another region must not conflict")
	}
}

func TestMemoryDrafts_UpsertKeepsDraftID(t *testing.T) {
	mem := NewMemoryStore()
	repo := mem.Drafts()
	ctx := context.Background()

	if err := repo.UpsertDraft(ctx, &domain.DraftSubmission{
		DraftID: "d-1", VillageCode: "370211001", UserID: "clerk-1",
		Step: 1, Payload: json.RawMessage(`{"a":1}`),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertDraft(ctx, &domain.DraftSubmission{
		DraftID: "d-2", VillageCode: "370211001", UserID: "clerk-1",
		Step: 2, Payload: json.RawMessage(`{"a":2}`),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	d, err := repo.GetDraft(ctx, "370211001", "clerk-1")
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	// upsert 覆盖内容但保留首次的 draft_id（与 ON CONFLICT DO UPDATE 对齐）
	if d.DraftID != "d-1" {
		t.Errorf("draft_id = %s, want d-1", d.DraftID)
	}
	if d.Step != 2 || string(d.Payload) != `{"a":2}` {
		t.Errorf("content not overwritten: step=%d payload=%s", d.Step, d.Payload)
	}

	if err := repo.DeleteDraft(ctx, "370211001", "clerk-1"); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	if _, err := repo.GetDraft(ctx, "370211001", "clerk-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v", err)
	}
	// 删除不存在的草稿静默成功
	if err := repo.DeleteDraft(ctx, "370211001", "clerk-1"); err != nil {
		t.Errorf("silent delete: got %v", err)
	}
}

func TestMemoryEntries_ListPaged(t *testing.T) {
	mem := NewMemoryStore()
	repo := mem.Entries()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		if err := repo.CreateEntry(ctx, &domain.DataEntry{
			EntryID:     fmt.Sprintf("e-%d", i),
			VillageCode: "370211001",
			HouseID:     fmt.Sprintf("h-%d", i),
			SubmittedBy: "clerk-1",
			Status:      domain.EntrySubmitted,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
	}
	// 另一个村的条目不混入
	_ = repo.CreateEntry(ctx, &domain.DataEntry{
		EntryID: "e-other", VillageCode: "370211002", HouseID: "h-x",
		SubmittedBy: "clerk-2", CreatedAt: base,
	})

	entries, total, err := repo.ListEntriesByVillage(ctx, "370211001", 1, 2)
	if err != nil {
		t.Fatalf("ListEntriesByVillage: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(entries) != 2 {
		t.Fatalf("page len = %d, want 2", len(entries))
	}
	// 按提交时间倒序
	if entries[0].EntryID != "e-4" || entries[1].EntryID != "e-3" {
		t.Errorf("order = %s, %s", entries[0].EntryID, entries[1].EntryID)
	}

	// 越界页返回空页但 total 不变
	entries, total, err = repo.ListEntriesByVillage(ctx, "370211001", 9, 2)
	if err != nil {
		t.Fatalf("out-of-range page: %v", err)
	}
	if total != 5 || len(entries) != 0 {
		t.Errorf("out-of-range page: total=%d len=%d", total, len(entries))
	}
}
