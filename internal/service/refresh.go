package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"blockchainspace/internal/chains"
	"blockchainspace/internal/events"
	"blockchainspace/internal/metrics"
	"blockchainspace/internal/models"
	"blockchainspace/internal/repository"
)

const RefreshScope = "chains"

var ErrRefreshInProgress = errors.New("chain refresh already running")

type ChainSource interface {
	GetChains(ctx context.Context) ([]chains.Chain, error)
}

type RefreshResult struct {
	Chains      int       `json:"chains"`
	Upserted    bool      `json:"upserted"`
	Modified    bool      `json:"modified"`
	RefreshedAt time.Time `json:"refreshed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// ChainRefreshService rebuilds the aggregate and stores it. Runs never
// overlap within one process.
type ChainRefreshService struct {
	Source    ChainSource
	Store     *ChainStore
	States    repository.SyncStateRepository
	Settings  *SystemSettingsService
	Publisher events.Publisher
	Subject   string
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	mu sync.Mutex
}

func (s *ChainRefreshService) Refresh(ctx context.Context) (RefreshResult, error) {
	if !s.mu.TryLock() {
		return RefreshResult{}, ErrRefreshInProgress
	}
	defer s.mu.Unlock()

	started := time.Now().UTC()
	if !s.Store.configured() {
		s.Metrics.RecordRefresh(false, 0, 0)
		return RefreshResult{}, ErrStoreNotConfigured
	}

	items, err := s.Source.GetChains(ctx)
	if err != nil {
		s.recordFailure(ctx, started, err)
		return RefreshResult{}, err
	}
	saved, err := s.Store.SaveChains(ctx, items)
	if err != nil {
		s.recordFailure(ctx, started, err)
		return RefreshResult{}, err
	}

	elapsed := time.Since(started)
	res := RefreshResult{
		Chains:      len(items),
		Upserted:    saved.Upserted,
		Modified:    saved.Modified,
		RefreshedAt: started,
		DurationMs:  elapsed.Milliseconds(),
	}
	s.Metrics.RecordRefresh(true, len(items), elapsed)
	s.recordSuccess(ctx, started, res)
	s.publish(ctx, res)
	s.logger().Info("chain refresh done",
		zap.Int("chains", res.Chains),
		zap.Bool("upserted", res.Upserted),
		zap.Int64("duration_ms", res.DurationMs),
	)
	return res, nil
}

// RunScheduled is the cron entry point. It honours the refresh switch and
// only logs failures.
func (s *ChainRefreshService) RunScheduled(ctx context.Context) {
	if s.Settings != nil && !s.Settings.IsEnabled(ctx, FeatureChainRefresh, true) {
		s.logger().Debug("chain refresh disabled by switch")
		return
	}
	if _, err := s.Refresh(ctx); err != nil {
		if errors.Is(err, ErrRefreshInProgress) {
			s.logger().Info("chain refresh skipped, previous run still active")
			return
		}
		s.logger().Warn("scheduled chain refresh failed", zap.Error(err))
	}
}

func (s *ChainRefreshService) State(ctx context.Context) (*models.SyncState, error) {
	if s.States == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.States.GetSyncState(ctx, RefreshScope)
}

// ListStates returns every recorded sync scope ordered by scope name.
func (s *ChainRefreshService) ListStates(ctx context.Context) ([]models.SyncState, error) {
	if s.States == nil {
		return nil, ErrStoreNotConfigured
	}
	states, err := s.States.ListSyncStates(ctx)
	if err != nil {
		return nil, err
	}
	if states == nil {
		states = []models.SyncState{}
	}
	return states, nil
}

func (s *ChainRefreshService) recordFailure(ctx context.Context, started time.Time, cause error) {
	s.Metrics.RecordRefresh(false, 0, time.Since(started))
	s.logger().Warn("chain refresh failed", zap.Error(cause))
	if s.States == nil {
		return
	}
	state := s.loadState(ctx)
	msg := cause.Error()
	state.LastAttemptAt = &started
	state.LastError = &msg
	state.Runs++
	state.Failures++
	if err := s.States.SaveSyncState(ctx, state); err != nil {
		s.logger().Warn("save refresh state failed", zap.Error(err))
	}
}

func (s *ChainRefreshService) recordSuccess(ctx context.Context, started time.Time, res RefreshResult) {
	if s.States == nil {
		return
	}
	state := s.loadState(ctx)
	state.LastAttemptAt = &started
	state.LastSuccessAt = &started
	state.LastError = nil
	state.Runs++
	if raw, err := json.Marshal(res); err == nil {
		state.StatsJSON = datatypes.JSON(raw)
	}
	if err := s.States.SaveSyncState(ctx, state); err != nil {
		s.logger().Warn("save refresh state failed", zap.Error(err))
	}
}

func (s *ChainRefreshService) loadState(ctx context.Context) *models.SyncState {
	state, err := s.States.GetSyncState(ctx, RefreshScope)
	if err != nil {
		s.logger().Warn("load refresh state failed", zap.Error(err))
	}
	if state == nil {
		state = &models.SyncState{Scope: RefreshScope}
	}
	return state
}

func (s *ChainRefreshService) publish(ctx context.Context, res RefreshResult) {
	if s.Publisher == nil || s.Subject == "" {
		return
	}
	event := events.ChainsRefreshed{
		Chains:      res.Chains,
		Upserted:    res.Upserted,
		Modified:    res.Modified,
		RefreshedAt: res.RefreshedAt,
		DurationMs:  res.DurationMs,
	}
	if err := s.Publisher.Publish(ctx, s.Subject, event); err != nil {
		s.logger().Warn("publish refresh event failed", zap.String("subject", s.Subject), zap.Error(err))
	}
}

func (s *ChainRefreshService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
