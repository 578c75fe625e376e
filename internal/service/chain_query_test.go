package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"blockchainspace/internal/chains"
)

func sampleChains() []chains.Chain {
	return []chains.Chain{
		{Name: "Ethereum", Symbol: "ETH", GeckoID: "ethereum", TPS: 15, TVL: 62.3, MarketCap: 360, CurrentPrice: 3000},
		{Name: "Solana", Symbol: "SOL", GeckoID: "solana", TPS: 65000, TVL: 9.4, MarketCap: 80, CurrentPrice: 150},
		{Name: "Sui", Symbol: "SUI", GeckoID: "sui", TPS: 27.6, TVL: 1.2, MarketCap: 10, CurrentPrice: 3},
		{Name: "Aptos", Symbol: "APT", GeckoID: "aptos", TPS: 2000, TVL: 1.0, MarketCap: 5, CurrentPrice: 8},
	}
}

func names(items []chains.Chain) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.Name)
	}
	return out
}

func TestFilterChains(t *testing.T) {
	items := sampleChains()
	tests := []struct {
		name   string
		filter ChainFilter
		want   []string
	}{
		{"no filter keeps order", ChainFilter{}, []string{"Ethereum", "Solana", "Sui", "Aptos"}},
		{"search name", ChainFilter{Search: "sol"}, []string{"Solana"}},
		{"search symbol", ChainFilter{Search: "apt"}, []string{"Aptos"}},
		{"fast", ChainFilter{Speed: "fast"}, []string{"Solana", "Aptos"}},
		{"slow", ChainFilter{Speed: "slow"}, []string{"Ethereum", "Sui"}},
		{"high tps", ChainFilter{Performance: "high-tps"}, []string{"Solana"}},
		{"sort tps asc", ChainFilter{SortBy: "tps", SortOrder: "asc"}, []string{"Ethereum", "Sui", "Aptos", "Solana"}},
		{"sort price desc", ChainFilter{SortBy: "price", SortOrder: "desc"}, []string{"Ethereum", "Solana", "Aptos", "Sui"}},
		{"sort needs order", ChainFilter{SortBy: "tps"}, []string{"Ethereum", "Solana", "Sui", "Aptos"}},
		{"unknown sort field", ChainFilter{SortBy: "age", SortOrder: "asc"}, []string{"Ethereum", "Solana", "Sui", "Aptos"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(FilterChains(items, tt.filter)); !slices.Equal(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
	if items[0].Name != "Ethereum" {
		t.Fatalf("input reordered: first=%s", items[0].Name)
	}
}

func TestChainQueryListAndFind(t *testing.T) {
	store := &ChainStore{Repo: newStubRepo()}
	ctx := context.Background()
	if _, err := store.SaveChains(ctx, sampleChains()); err != nil {
		t.Fatalf("save: %v", err)
	}
	svc := &ChainQueryService{Store: store}

	res, err := svc.List(ctx, ChainFilter{SortBy: "tvl", SortOrder: "desc", Count: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("total=%d want 4", res.Total)
	}
	if got := names(res.Items); !slices.Equal(got, []string{"Ethereum", "Solana"}) {
		t.Fatalf("items=%v", got)
	}

	found, err := svc.Find(ctx, "SUI")
	if err != nil || found == nil {
		t.Fatalf("find SUI: %v %v", found, err)
	}
	if found.Name != "Sui" {
		t.Fatalf("name=%s", found.Name)
	}

	missing, err := svc.Find(ctx, "bitcoin")
	if err != nil || missing != nil {
		t.Fatalf("find bitcoin: %v %v", missing, err)
	}

	if _, err := svc.Find(ctx, ""); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("err=%v want ErrIdentifierRequired", err)
	}
}
