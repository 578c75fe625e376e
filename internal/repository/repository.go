package repository

import (
	"context"

	"blockchainspace/internal/models"
)

// UpsertResult reports how a whole-document replace landed.
type UpsertResult struct {
	Upserted bool
	Modified bool
}

type ChainSnapshotRepository interface {
	ReplaceChainSnapshot(ctx context.Context, item *models.ChainSnapshot) (UpsertResult, error)
	GetChainSnapshot(ctx context.Context, docType string) (*models.ChainSnapshot, error)
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}

type SystemSettingRepository interface {
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}

type SyncStateRepository interface {
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncState(ctx context.Context, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
}

type Repository interface {
	ChainSnapshotRepository
	SystemSettingRepository
	SyncStateRepository
}
