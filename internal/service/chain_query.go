package service

import (
	"context"
	"sort"
	"strings"

	"blockchainspace/internal/chains"
)

const (
	DefaultChainQueryCount = 50
	fastTPSThreshold       = 1000
	highTPSThreshold       = 5000
)

// ChainFilter mirrors the dashboard pro view controls. Zero values disable
// the corresponding filter.
type ChainFilter struct {
	Search      string
	Speed       string // fast | slow
	Performance string // high-tps
	SortBy      string // tps | tvl | marketcap | price | volume | supply
	SortOrder   string // asc | desc
	Count       int
}

type ChainQueryResult struct {
	Items []chains.Chain
	Total int
}

type ChainQueryService struct {
	Store *ChainStore
}

func (s *ChainQueryService) List(ctx context.Context, filter ChainFilter) (ChainQueryResult, error) {
	items, err := s.Store.LoadChains(ctx)
	if err != nil {
		return ChainQueryResult{}, err
	}
	filtered := FilterChains(items, filter)
	total := len(filtered)
	count := filter.Count
	if count <= 0 {
		count = DefaultChainQueryCount
	}
	if len(filtered) > count {
		filtered = filtered[:count]
	}
	return ChainQueryResult{Items: filtered, Total: total}, nil
}

// Find returns nil when no stored chain has geckoID.
func (s *ChainQueryService) Find(ctx context.Context, geckoID string) (*chains.Chain, error) {
	geckoID = strings.ToLower(strings.TrimSpace(geckoID))
	if geckoID == "" {
		return nil, ErrIdentifierRequired
	}
	items, err := s.Store.LoadChains(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.ToLower(items[i].GeckoID) == geckoID {
			return &items[i], nil
		}
	}
	return nil, nil
}

// FilterChains applies filter without the count limit. The input slice is
// not modified.
func FilterChains(items []chains.Chain, filter ChainFilter) []chains.Chain {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	speed := strings.ToLower(strings.TrimSpace(filter.Speed))
	perf := strings.ToLower(strings.TrimSpace(filter.Performance))

	out := make([]chains.Chain, 0, len(items))
	for _, c := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Symbol), search) {
			continue
		}
		switch speed {
		case "fast":
			if c.TPS <= fastTPSThreshold {
				continue
			}
		case "slow":
			if c.TPS > fastTPSThreshold {
				continue
			}
		}
		if perf == "high-tps" && c.TPS <= highTPSThreshold {
			continue
		}
		out = append(out, c)
	}

	key := sortKey(filter.SortBy)
	order := strings.ToLower(strings.TrimSpace(filter.SortOrder))
	if key != nil && (order == "asc" || order == "desc") {
		sort.SliceStable(out, func(i, j int) bool {
			if order == "asc" {
				return key(out[i]) < key(out[j])
			}
			return key(out[i]) > key(out[j])
		})
	}
	return out
}

func sortKey(field string) func(chains.Chain) float64 {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "tps":
		return func(c chains.Chain) float64 { return c.TPS }
	case "tvl":
		return func(c chains.Chain) float64 { return c.TVL }
	case "marketcap":
		return func(c chains.Chain) float64 { return c.MarketCap }
	case "price":
		return func(c chains.Chain) float64 { return c.CurrentPrice }
	case "volume":
		return func(c chains.Chain) float64 { return c.Volume24h }
	case "supply":
		return func(c chains.Chain) float64 { return c.CirculatingSupply }
	}
	return nil
}
