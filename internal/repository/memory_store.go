package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nongfang-data/internal/domain"
)

// MemoryStore 内存版存储，DB 未就绪时支撑本地联测，也用于单元测试
// 事务语义：MemoryTxManager 在副本上执行回调，成功才替换原状态，
// 失败时原状态不变——和 Postgres 的回滚行为对齐
type MemoryStore struct {
	mu sync.Mutex
	st *memState
}

type memState struct {
	persons   map[string]domain.Person              // person_id -> Person
	craftsmen map[string]domain.Craftsman           // craftsman_id -> Craftsman
	houses    map[string]domain.House               // house_id -> House
	projects  map[string]domain.ConstructionProject // project_id -> Project
	photos    map[string]domain.HousePhoto          // photo_id -> Photo
	entries   map[string]domain.DataEntry           // entry_id -> Entry
	drafts    map[string]domain.DraftSubmission     // villageCode+"|"+userID -> Draft
	villages  map[string]domain.VillagePortal       // village_code -> Portal
}

func newMemState() *memState {
	return &memState{
		persons:   map[string]domain.Person{},
		craftsmen: map[string]domain.Craftsman{},
		houses:    map[string]domain.House{},
		projects:  map[string]domain.ConstructionProject{},
		photos:    map[string]domain.HousePhoto{},
		entries:   map[string]domain.DataEntry{},
		drafts:    map[string]domain.DraftSubmission{},
		villages:  map[string]domain.VillagePortal{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.persons {
		c.persons[k] = v
	}
	for k, v := range s.craftsmen {
		c.craftsmen[k] = v
	}
	for k, v := range s.houses {
		c.houses[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.photos {
		c.photos[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.drafts {
		c.drafts[k] = v
	}
	for k, v := range s.villages {
		c.villages[k] = v
	}
	return c
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newMemState()}
}

func draftKey(villageCode, userID string) string {
	return villageCode + "|" + userID
}

// PutVillage 写入村级门户配置（门户管理在别的服务/流程里，这里仅供联测与测试播种）
func (s *MemoryStore) PutVillage(v domain.VillagePortal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.villages[v.VillageCode] = v
}

// CountByKind 各实体当前数量（测试断言原子性用）
func (s *MemoryStore) CountByKind() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"persons":   len(s.st.persons),
		"craftsmen": len(s.st.craftsmen),
		"houses":    len(s.st.houses),
		"projects":  len(s.st.projects),
		"photos":    len(s.st.photos),
		"entries":   len(s.st.entries),
		"drafts":    len(s.st.drafts),
	}
}

// Persons 非事务读写路径的Repository
func (s *MemoryStore) Persons() PersonsRepository     { return &memPersons{store: s} }
func (s *MemoryStore) Craftsmen() CraftsmenRepository { return &memCraftsmen{store: s} }
func (s *MemoryStore) Houses() HousesRepository       { return &memHouses{store: s} }
func (s *MemoryStore) Entries() EntriesRepository     { return &memEntries{store: s} }
func (s *MemoryStore) Drafts() DraftsRepository       { return &memDrafts{store: s} }
func (s *MemoryStore) Villages() VillagesRepository   { return &memVillages{store: s} }

// MemoryTxManager 内存版事务管理
type MemoryTxManager struct {
	store *MemoryStore
}

func NewMemoryTxManager(store *MemoryStore) *MemoryTxManager {
	return &MemoryTxManager{store: store}
}

var _ TxManager = (*MemoryTxManager)(nil)

func (m *MemoryTxManager) RunInTx(_ context.Context, fn func(tx *Tx) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	work := m.store.st.clone()
	tx := &Tx{
		Persons:   &memPersons{st: work},
		Craftsmen: &memCraftsmen{st: work},
		Houses:    &memHouses{st: work},
		Entries:   &memEntries{st: work},
		Drafts:    &memDrafts{st: work},
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.store.st = work
	return nil
}

// memBase 仓库共用的状态访问：事务内直取副本，事务外持锁访问存量状态
type memBase struct {
	store *MemoryStore
	st    *memState
}

func (b *memBase) with(fn func(st *memState) error) error {
	if b.st != nil {
		return fn(b.st)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

// ============================================
// Persons
// ============================================

type memPersons memBase

var _ PersonsRepository = (*memPersons)(nil)

func (r *memPersons) GetPerson(_ context.Context, personID string) (*domain.Person, error) {
	var out *domain.Person
	err := (*memBase)(r).with(func(st *memState) error {
		if p, ok := st.persons[personID]; ok {
			out = &p
			return nil
		}
		return ErrNotFound
	})
	return out, err
}

func (r *memPersons) FindPersonByIDNumber(_ context.Context, idNumber string) (*domain.Person, error) {
	return r.findFirst(func(p domain.Person) bool { return p.IDNumber != "" && p.IDNumber == idNumber })
}

func (r *memPersons) FindPersonByPhone(_ context.Context, phone string) (*domain.Person, error) {
	return r.findFirst(func(p domain.Person) bool { return p.Phone != "" && p.Phone == phone })
}

func (r *memPersons) FindPersonByNameRegion(_ context.Context, name, regionCode string) (*domain.Person, error) {
	return r.findFirst(func(p domain.Person) bool { return p.Name == name && p.RegionCode == regionCode })
}

// findFirst 多条命中时取最早创建的一条（与SQL实现的 ORDER BY created_at 对齐）
func (r *memPersons) findFirst(match func(domain.Person) bool) (*domain.Person, error) {
	var out *domain.Person
	err := (*memBase)(r).with(func(st *memState) error {
		var hits []domain.Person
		for _, p := range st.persons {
			if match(p) {
				hits = append(hits, p)
			}
		}
		if len(hits) == 0 {
			return ErrNotFound
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].CreatedAt.Before(hits[j].CreatedAt) })
		out = &hits[0]
		return nil
	})
	return out, err
}

func (r *memPersons) CreatePerson(_ context.Context, person *domain.Person) error {
	if person == nil {
		return fmt.Errorf("person is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		for _, p := range st.persons {
			if p.Username == person.Username {
				return fmt.Errorf("create person: %w", ErrDuplicate)
			}
			if person.IDNumber != "" && p.IDNumber == person.IDNumber {
				return fmt.Errorf("create person: %w", ErrDuplicate)
			}
		}
		st.persons[person.PersonID] = *person
		return nil
	})
}

// ============================================
// Craftsmen
// ============================================

type memCraftsmen memBase

var _ CraftsmenRepository = (*memCraftsmen)(nil)

func (r *memCraftsmen) GetCraftsman(_ context.Context, craftsmanID string) (*domain.Craftsman, error) {
	var out *domain.Craftsman
	err := (*memBase)(r).with(func(st *memState) error {
		if c, ok := st.craftsmen[craftsmanID]; ok {
			out = &c
			return nil
		}
		return ErrNotFound
	})
	return out, err
}

func (r *memCraftsmen) CraftsmanIDNumberExists(_ context.Context, idNumber string) (bool, error) {
	var exists bool
	err := (*memBase)(r).with(func(st *memState) error {
		for _, c := range st.craftsmen {
			if c.IDNumber == idNumber {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r *memCraftsmen) CreateCraftsman(_ context.Context, craftsman *domain.Craftsman) error {
	if craftsman == nil {
		return fmt.Errorf("craftsman is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		for _, c := range st.craftsmen {
			if c.IDNumber == craftsman.IDNumber {
				return fmt.Errorf("create craftsman: %w", ErrDuplicate)
			}
		}
		st.craftsmen[craftsman.CraftsmanID] = *craftsman
		return nil
	})
}

// ============================================
// Houses（含 projects / photos）
// ============================================

type memHouses memBase

var _ HousesRepository = (*memHouses)(nil)

func (r *memHouses) GetHouse(_ context.Context, houseID string) (*domain.House, error) {
	var out *domain.House
	err := (*memBase)(r).with(func(st *memState) error {
		if h, ok := st.houses[houseID]; ok {
			out = &h
			return nil
		}
		return ErrNotFound
	})
	return out, err
}

func (r *memHouses) HouseAddressExists(_ context.Context, regionCode, address string) (bool, error) {
	var exists bool
	err := (*memBase)(r).with(func(st *memState) error {
		for _, h := range st.houses {
			if h.RegionCode == regionCode && h.Address == address && h.ConstructionStatus != domain.ConstructionCompleted {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r *memHouses) CreateHouse(_ context.Context, house *domain.House) error {
	if house == nil {
		return fmt.Errorf("house is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		st.houses[house.HouseID] = *house
		return nil
	})
}

func (r *memHouses) CreateProject(_ context.Context, project *domain.ConstructionProject) error {
	if project == nil {
		return fmt.Errorf("project is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		st.projects[project.ProjectID] = *project
		return nil
	})
}

func (r *memHouses) CreatePhoto(_ context.Context, photo *domain.HousePhoto) error {
	if photo == nil {
		return fmt.Errorf("photo is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		st.photos[photo.PhotoID] = *photo
		return nil
	})
}

// ============================================
// Entries
// ============================================

type memEntries memBase

var _ EntriesRepository = (*memEntries)(nil)

func (r *memEntries) CreateEntry(_ context.Context, entry *domain.DataEntry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		st.entries[entry.EntryID] = *entry
		return nil
	})
}

func (r *memEntries) GetEntry(_ context.Context, entryID string) (*domain.DataEntry, error) {
	var out *domain.DataEntry
	err := (*memBase)(r).with(func(st *memState) error {
		if e, ok := st.entries[entryID]; ok {
			out = &e
			return nil
		}
		return ErrNotFound
	})
	return out, err
}

func (r *memEntries) ListEntriesByVillage(_ context.Context, villageCode string, page, size int) ([]*domain.DataEntry, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var entries []*domain.DataEntry
	var total int
	err := (*memBase)(r).with(func(st *memState) error {
		var all []domain.DataEntry
		for _, e := range st.entries {
			if e.VillageCode == villageCode {
				all = append(all, e)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		total = len(all)
		start := (page - 1) * size
		if start > total {
			start = total
		}
		end := start + size
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			e := all[i]
			entries = append(entries, &e)
		}
		return nil
	})
	return entries, total, err
}

// ============================================
// Drafts
// ============================================

type memDrafts memBase

var _ DraftsRepository = (*memDrafts)(nil)

func (r *memDrafts) UpsertDraft(_ context.Context, draft *domain.DraftSubmission) error {
	if draft == nil {
		return fmt.Errorf("draft is required")
	}
	return (*memBase)(r).with(func(st *memState) error {
		key := draftKey(draft.VillageCode, draft.UserID)
		// 唯一键 upsert：保留已有 draft_id，覆盖内容
		if existing, ok := st.drafts[key]; ok {
			draft.DraftID = existing.DraftID
		}
		st.drafts[key] = *draft
		return nil
	})
}

func (r *memDrafts) GetDraft(_ context.Context, villageCode, userID string) (*domain.DraftSubmission, error) {
	var out *domain.DraftSubmission
	err := (*memBase)(r).with(func(st *memState) error {
		if d, ok := st.drafts[draftKey(villageCode, userID)]; ok {
			out = &d
			return nil
		}
		return ErrNotFound
	})
	return out, err
}

func (r *memDrafts) DeleteDraft(_ context.Context, villageCode, userID string) error {
	return (*memBase)(r).with(func(st *memState) error {
		delete(st.drafts, draftKey(villageCode, userID))
		return nil
	})
}

// ============================================
// Villages
// ============================================

type memVillages memBase

var _ VillagesRepository = (*memVillages)(nil)

func (r *memVillages) GetVillageByCode(_ context.Context, villageCode string) (*domain.VillagePortal, error) {
	var out *domain.VillagePortal
	err := (*memBase)(r).with(func(st *memState) error {
		if v, ok := st.villages[villageCode]; ok {
			out = &v
			return nil
		}
		return ErrNotFound
	})
	return out, err
}
