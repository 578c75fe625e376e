package service

import (
	"context"
	"errors"
	"testing"
)

func TestEnsureDefaultSwitchesKeepsStoredValues(t *testing.T) {
	repo := newStubRepo()
	svc := &SystemSettingsService{Repo: repo}
	ctx := context.Background()

	if err := svc.SetEnabled(ctx, FeatureChat, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.EnsureDefaultSwitches(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if svc.IsEnabled(ctx, FeatureChat, true) {
		t.Fatalf("stored chat=false overwritten by default")
	}
	if !svc.IsEnabled(ctx, FeatureChainRefresh, false) {
		t.Fatalf("chain_refresh default not seeded")
	}
}

func TestListSwitches(t *testing.T) {
	repo := newStubRepo()
	svc := &SystemSettingsService{Repo: repo}
	ctx := context.Background()
	if err := svc.SetEnabled(ctx, SwitchKey("chat"), false); err != nil {
		t.Fatalf("set: %v", err)
	}

	items, err := svc.ListSwitches(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items=%d want 2", len(items))
	}
	if items[0].Name != "chain_refresh" || !items[0].Enabled || items[0].UpdatedAt != nil {
		t.Fatalf("items[0]=%+v", items[0])
	}
	if items[1].Name != "chat" || items[1].Key != FeatureChat || items[1].Enabled {
		t.Fatalf("items[1]=%+v", items[1])
	}
}

func TestSwitchHelpers(t *testing.T) {
	if got := SwitchKey("chat"); got != "feature.chat" {
		t.Fatalf("SwitchKey(chat)=%s", got)
	}
	if got := SwitchKey("feature.chat"); got != "feature.chat" {
		t.Fatalf("SwitchKey(feature.chat)=%s", got)
	}
	if !IsKnownSwitch("chain_refresh") {
		t.Fatalf("chain_refresh should be known")
	}
	if IsKnownSwitch("labeler") {
		t.Fatalf("labeler should be unknown")
	}
}

func TestNilSettingsFallBack(t *testing.T) {
	var svc *SystemSettingsService
	if !svc.IsEnabled(context.Background(), FeatureChat, true) {
		t.Fatalf("nil service should return the fallback")
	}
	if err := svc.SetEnabled(context.Background(), FeatureChat, true); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("err=%v want ErrStoreNotConfigured", err)
	}
}
