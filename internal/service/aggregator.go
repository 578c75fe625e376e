package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"blockchainspace/internal/chains"
	"blockchainspace/internal/client/coingecko"
	"blockchainspace/internal/client/defillama"
)

const (
	DefaultTopN         = 53
	defaultMarketsBatch = 250
)

// ErrRankingsUnavailable wraps any failure of the ranking source.
var ErrRankingsUnavailable = errors.New("chain rankings unavailable")

type RankingSource interface {
	Chains(ctx context.Context) ([]defillama.Chain, error)
}

type MarketSource interface {
	Markets(ctx context.Context, ids []string) ([]coingecko.Market, error)
}

type ChainAggregator struct {
	Rankings     RankingSource
	Markets      MarketSource
	TopN         int
	MarketsBatch int
	Logger       *zap.Logger
}

// GetChains builds the top-N aggregate. Only the ranking source is
// required; market enrichment failures degrade to TVL-based estimates.
func (a *ChainAggregator) GetChains(ctx context.Context) ([]chains.Chain, error) {
	if a == nil || a.Rankings == nil {
		return nil, fmt.Errorf("%w: no ranking source", ErrRankingsUnavailable)
	}
	ranked, err := a.Rankings.Chains(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRankingsUnavailable, err)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TVL > ranked[j].TVL })
	topN := a.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]chains.Chain, 0, len(ranked))
	rawTVL := make([]float64, 0, len(ranked))
	for _, item := range ranked {
		geckoID, ok := chains.ReconcileGeckoID(item.Name, item.GeckoID.Value)
		if !ok {
			a.logger().Debug("chain dropped, no price id", zap.String("name", item.Name))
			continue
		}
		out = append(out, chains.Chain{
			ID:      item.ChainID.Ptr(),
			Name:    item.Name,
			Symbol:  item.TokenSymbol.Value,
			GeckoID: geckoID,
			CmcID:   item.CmcID.Ptr(),
			Logo:    chains.LogoURL(item.Name),
		})
		rawTVL = append(rawTVL, item.TVL)
	}

	markets := a.fetchMarkets(ctx, out)
	for i := range out {
		c := &out[i]
		c.TVL = toBillions(rawTVL[i])
		c.MarketCap = c.TVL
		if m, ok := markets[c.GeckoID]; ok {
			if m.MarketCap > 0 {
				c.MarketCap = toBillions(m.MarketCap)
			}
			c.CurrentPrice = finite(m.CurrentPrice)
			c.PriceChange24h = finite(m.PriceChangePercentage24h)
			c.Volume24h = finite(m.TotalVolume)
			c.CirculatingSupply = finite(m.CirculatingSupply)
			if img := strings.TrimSpace(m.Image); img != "" {
				c.Logo = img
			}
		}
		c.TPS = chains.LookupTPS(c.GeckoID).OrDefault()
		endpoints := chains.LookupEndpoints(c.GeckoID)
		c.RPCNode = endpoints.RPC
		c.WSSRPCNode = endpoints.WSS
	}
	return out, nil
}

func (a *ChainAggregator) fetchMarkets(ctx context.Context, items []chains.Chain) map[string]coingecko.Market {
	out := map[string]coingecko.Market{}
	if a.Markets == nil || len(items) == 0 {
		return out
	}
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, c := range items {
		if _, ok := seen[c.GeckoID]; ok {
			continue
		}
		seen[c.GeckoID] = struct{}{}
		ids = append(ids, c.GeckoID)
	}
	batch := a.MarketsBatch
	if batch <= 0 {
		batch = defaultMarketsBatch
	}
	for start := 0; start < len(ids); start += batch {
		end := min(start+batch, len(ids))
		rows, err := a.Markets.Markets(ctx, ids[start:end])
		if err != nil {
			a.logger().Warn("market enrichment failed", zap.Int("ids", end-start), zap.Error(err))
			continue
		}
		for _, row := range rows {
			out[row.ID] = row
		}
	}
	return out
}

func (a *ChainAggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

var billion = decimal.NewFromInt(1_000_000_000)

// toBillions converts a USD amount to billions rounded to two places.
// Negative and non-finite inputs yield 0.
func toBillions(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return decimal.NewFromFloat(v).Div(billion).Round(2).InexactFloat64()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
