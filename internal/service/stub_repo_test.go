package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"blockchainspace/internal/models"
	"blockchainspace/internal/repository"
)

// stubRepo is an in-memory repository.Repository for service tests.
type stubRepo struct {
	mu        sync.Mutex
	snapshots map[string]models.ChainSnapshot
	settings  map[string]models.SystemSetting
	states    map[string]models.SyncState
	failWrite error
}

var _ repository.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{
		snapshots: map[string]models.ChainSnapshot{},
		settings:  map[string]models.SystemSetting{},
		states:    map[string]models.SyncState{},
	}
}

func (s *stubRepo) ReplaceChainSnapshot(ctx context.Context, item *models.ChainSnapshot) (repository.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return repository.UpsertResult{}, s.failWrite
	}
	if item.Type == "" {
		return repository.UpsertResult{}, errors.New("document type is required")
	}
	_, existed := s.snapshots[item.Type]
	s.snapshots[item.Type] = *item
	return repository.UpsertResult{Upserted: !existed, Modified: existed}, nil
}

func (s *stubRepo) GetChainSnapshot(ctx context.Context, docType string) (*models.ChainSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.snapshots[docType]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[item.Key] = *item
	return nil
}

func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.settings[key]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SystemSetting, 0, len(s.settings))
	for key, item := range s.settings {
		if params.Prefix != nil && !strings.HasPrefix(key, *params.Prefix) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *stubRepo) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	items, err := s.ListSystemSettings(ctx, params)
	return int64(len(items)), err
}

func (s *stubRepo) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[scope]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *stubRepo) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Scope] = *state
	return nil
}

func (s *stubRepo) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SyncState, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out, nil
}
