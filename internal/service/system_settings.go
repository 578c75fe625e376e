package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"blockchainspace/internal/models"
	"blockchainspace/internal/repository"
)

const (
	FeatureChainRefresh = "feature.chain_refresh"
	FeatureChat         = "feature.chat"
)

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureChainRefresh: true,
		FeatureChat:         true,
	}
}

const switchPrefix = "feature."

type FeatureSwitch struct {
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	Enabled   bool       `json:"enabled"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// SwitchKey maps a switch name such as "chat" to its setting key.
func SwitchKey(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, switchPrefix) {
		return name
	}
	return switchPrefix + name
}

type SystemSettingsService struct {
	Repo repository.SystemSettingRepository
}

// EnsureDefaultSwitches seeds missing switches. Stored values are left as
// they are.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(enabled)
		item := &models.SystemSetting{
			Key:         key,
			Value:       datatypes.JSON(raw),
			Description: "feature switch",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool) error {
	if s == nil || s.Repo == nil {
		return ErrStoreNotConfigured
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	raw, _ := json.Marshal(enabled)
	item := &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: "feature switch",
		UpdatedAt:   time.Now().UTC(),
	}
	return s.Repo.UpsertSystemSetting(ctx, item)
}

// ListSwitches reports every known switch, falling back to the default for
// switches not yet stored.
func (s *SystemSettingsService) ListSwitches(ctx context.Context) ([]FeatureSwitch, error) {
	defaults := DefaultFeatureSwitches()
	byName := make(map[string]FeatureSwitch, len(defaults))
	for key, enabled := range defaults {
		byName[key] = FeatureSwitch{Name: strings.TrimPrefix(key, switchPrefix), Key: key, Enabled: enabled}
	}
	if s != nil && s.Repo != nil {
		prefix := switchPrefix
		items, err := s.Repo.ListSystemSettings(ctx, repository.ListSystemSettingsParams{Prefix: &prefix, Limit: 200})
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			var enabled bool
			if err := json.Unmarshal(item.Value, &enabled); err != nil {
				continue
			}
			updated := item.UpdatedAt
			byName[item.Key] = FeatureSwitch{
				Name:      strings.TrimPrefix(item.Key, switchPrefix),
				Key:       item.Key,
				Enabled:   enabled,
				UpdatedAt: &updated,
			}
		}
	}
	out := make([]FeatureSwitch, 0, len(byName))
	for _, sw := range byName {
		out = append(out, sw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// IsKnownSwitch reports whether name is one of the default switches.
func IsKnownSwitch(name string) bool {
	_, ok := DefaultFeatureSwitches()[SwitchKey(name)]
	return ok
}
