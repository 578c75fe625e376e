package handler

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blockchainspace/internal/models"
	"blockchainspace/internal/repository"
)

type memRepo struct {
	mu        sync.Mutex
	snapshots map[string]models.ChainSnapshot
	settings  map[string]models.SystemSetting
	states    map[string]models.SyncState
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		snapshots: map[string]models.ChainSnapshot{},
		settings:  map[string]models.SystemSetting{},
		states:    map[string]models.SyncState{},
	}
}

func (m *memRepo) ReplaceChainSnapshot(_ context.Context, item *models.ChainSnapshot) (repository.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.snapshots[item.Type]
	m.snapshots[item.Type] = *item
	return repository.UpsertResult{Upserted: !existed, Modified: existed}, nil
}

func (m *memRepo) GetChainSnapshot(_ context.Context, docType string) (*models.ChainSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.snapshots[docType]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memRepo) UpsertSystemSetting(_ context.Context, item *models.SystemSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[item.Key] = *item
	return nil
}

func (m *memRepo) GetSystemSettingByKey(_ context.Context, key string) (*models.SystemSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.settings[key]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memRepo) ListSystemSettings(_ context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SystemSetting
	for key, item := range m.settings {
		if params.Prefix != nil && !strings.HasPrefix(key, *params.Prefix) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memRepo) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	items, err := m.ListSystemSettings(ctx, params)
	return int64(len(items)), err
}

func (m *memRepo) GetSyncState(_ context.Context, scope string) (*models.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[scope]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *memRepo) SaveSyncState(_ context.Context, state *models.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.Scope] = *state
	return nil
}

func (m *memRepo) ListSyncStates(_ context.Context) ([]models.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SyncState, 0, len(m.states))
	for _, st := range m.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out, nil
}
