package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/aiclient"
	"github.com/tiredheron/Stufit/pkg/redis"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, universityName, departmentName string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.UniversityName = universityName
	u.DepartmentName = departmentName
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// ── Mock RankingRepository ──

type mockRankingRepo struct {
	records []repository.StudyRecord
	calls   int
	err     error
	errOnce error // 仅首次调用返回
}

func (m *mockRankingRepo) DoneRecords(_ context.Context, from, to time.Time) ([]repository.StudyRecord, error) {
	m.calls++
	if m.errOnce != nil && m.calls == 1 {
		return nil, m.errOnce
	}
	if m.err != nil {
		return nil, m.err
	}
	var result []repository.StudyRecord
	for _, r := range m.records {
		if !r.EndTime.Before(from) && r.EndTime.Before(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock PlanGenerator ──

type mockPlanGenerator struct {
	chatResult *aiclient.ChatResult
	todos      []aiclient.TodoItem
	err        error
	calls      int
	lastDoc    string
}

func (m *mockPlanGenerator) Chat(_ context.Context, _ string, documentText string) (*aiclient.ChatResult, error) {
	m.calls++
	m.lastDoc = documentText
	if m.err != nil {
		return nil, m.err
	}
	return m.chatResult, nil
}

func (m *mockPlanGenerator) PlanToTodos(_ context.Context, _ string) ([]aiclient.TodoItem, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.todos) == 0 {
		return nil, aiclient.ErrEmptyTodos
	}
	return m.todos, nil
}

// ── Mock SessionStore ──

type mockSessionStore struct {
	sessions map[string]*redis.AISession
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*redis.AISession)}
}

func (m *mockSessionStore) SaveSession(_ context.Context, id string, s *redis.AISession, _ time.Duration) error {
	m.sessions[id] = s
	return nil
}

func (m *mockSessionStore) GetSession(_ context.Context, id string) (*redis.AISession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, redis.ErrSessionNotFound
}

func (m *mockSessionStore) DeleteSession(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStore) todos(id string) int {
	s, ok := m.sessions[id]
	if !ok {
		return -1
	}
	var days []struct {
		Todos []json.RawMessage `json:"todos"`
	}
	if err := json.Unmarshal(s.Todos, &days); err != nil {
		return -1
	}
	n := 0
	for _, d := range days {
		n += len(d.Todos)
	}
	return n
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

var errInjected = errors.New("注入的存储故障")
