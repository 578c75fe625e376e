package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"blockchainspace/internal/chains"
	"blockchainspace/internal/client/coingecko"
	"blockchainspace/internal/client/defillama"
)

type stubRankings struct {
	items []defillama.Chain
	err   error
}

func (s stubRankings) Chains(context.Context) ([]defillama.Chain, error) {
	out := make([]defillama.Chain, len(s.items))
	copy(out, s.items)
	return out, s.err
}

type stubMarkets struct {
	rows  []coingecko.Market
	err   error
	calls int
	ids   [][]string
}

func (s *stubMarkets) Markets(_ context.Context, ids []string) ([]coingecko.Market, error) {
	s.calls++
	s.ids = append(s.ids, append([]string(nil), ids...))
	return s.rows, s.err
}

func rankingRow(t *testing.T, raw string) defillama.Chain {
	t.Helper()
	var c defillama.Chain
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return c
}

func TestGetChainsMergesAndReconciles(t *testing.T) {
	rankings := stubRankings{items: []defillama.Chain{
		rankingRow(t, `{"name":"Solana","gecko_id":"solana","tokenSymbol":"SOL","tvl":9400000000,"chainId":null}`),
		rankingRow(t, `{"name":"Ethereum","gecko_id":"ethereum","tokenSymbol":"ETH","cmcId":"1027","tvl":62320718362.34,"chainId":1}`),
		rankingRow(t, `{"name":"Unichain","gecko_id":null,"tvl":500000000,"chainId":130}`),
		rankingRow(t, `{"name":"Base","gecko_id":null,"tokenSymbol":null,"tvl":3000000000,"chainId":8453}`),
		rankingRow(t, `{"name":"Obscure","gecko_id":"obscure-chain","tokenSymbol":"OBS","tvl":1234567,"chainId":"77"}`),
	}}
	markets := &stubMarkets{rows: []coingecko.Market{
		{ID: "ethereum", MarketCap: 360_123_456_789, CurrentPrice: 3000, PriceChangePercentage24h: 2.5, TotalVolume: 1e10, CirculatingSupply: 120e6, Image: "https://img/eth.png"},
		{ID: "solana", MarketCap: 0, CurrentPrice: 150},
	}}
	agg := &ChainAggregator{Rankings: rankings, Markets: markets}

	got, err := agg.GetChains(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len=%d, want 4 (Unichain dropped)", len(got))
	}
	wantOrder := []string{"ethereum", "solana", "base", "obscure-chain"}
	for i, id := range wantOrder {
		if got[i].GeckoID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].GeckoID, id)
		}
	}
	if markets.calls != 1 || len(markets.ids[0]) != 4 {
		t.Fatalf("market calls=%d ids=%v", markets.calls, markets.ids)
	}

	eth := got[0]
	if eth.MarketCap != 360.12 || eth.TVL != 62.32 {
		t.Fatalf("eth marketCap=%v tvl=%v", eth.MarketCap, eth.TVL)
	}
	if eth.Logo != "https://img/eth.png" || eth.CurrentPrice != 3000 || eth.PriceChange24h != 2.5 {
		t.Fatalf("eth enrichment=%#v", eth)
	}
	if eth.ID == nil || *eth.ID != 1 || eth.CmcID == nil || *eth.CmcID != "1027" {
		t.Fatalf("eth ids=%v %v", eth.ID, eth.CmcID)
	}
	if eth.TPS != 15 || eth.RPCNode == "" {
		t.Fatalf("eth tps=%v rpc=%q", eth.TPS, eth.RPCNode)
	}

	sol := got[1]
	if sol.MarketCap != sol.TVL || sol.TVL != 9.4 {
		t.Fatalf("solana should fall back to tvl estimate: %#v", sol)
	}
	if sol.ID != nil {
		t.Fatalf("null chain id should stay nil")
	}

	base := got[2]
	if base.Logo != chains.LogoURL("Base") || base.MarketCap != 3 {
		t.Fatalf("base=%#v", base)
	}

	obscure := got[3]
	if obscure.TPS != chains.DefaultTPS || obscure.RPCNode != "" || obscure.WSSRPCNode != "" {
		t.Fatalf("unknown chain defaults=%#v", obscure)
	}
	if obscure.TVL != 0 {
		t.Fatalf("tvl below 5 million should round to 0, got %v", obscure.TVL)
	}
}

func TestGetChainsTopNStableSort(t *testing.T) {
	items := make([]defillama.Chain, 0, 60)
	for i := 0; i < 60; i++ {
		items = append(items, rankingRow(t, fmt.Sprintf(`{"name":"Chain%d","gecko_id":"chain-%d","tvl":%d}`, i, i, 1000-(i/2))))
	}
	agg := &ChainAggregator{Rankings: stubRankings{items: items}, TopN: 53}
	got, err := agg.GetChains(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(got) != 53 {
		t.Fatalf("len=%d", len(got))
	}
	for i := range got {
		if got[i].GeckoID != fmt.Sprintf("chain-%d", i) {
			t.Fatalf("position %d = %s; ties must keep source order", i, got[i].GeckoID)
		}
	}
}

func TestGetChainsRankingFailure(t *testing.T) {
	agg := &ChainAggregator{Rankings: stubRankings{err: errors.New("boom")}}
	_, err := agg.GetChains(context.Background())
	if !errors.Is(err, ErrRankingsUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestGetChainsMarketFailureIsNonFatal(t *testing.T) {
	rankings := stubRankings{items: []defillama.Chain{
		rankingRow(t, `{"name":"Ethereum","gecko_id":"ethereum","tvl":2500000000}`),
	}}
	agg := &ChainAggregator{Rankings: rankings, Markets: &stubMarkets{err: errors.New("429")}}
	got, err := agg.GetChains(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(got) != 1 || got[0].MarketCap != 2.5 || got[0].CurrentPrice != 0 {
		t.Fatalf("got=%#v", got)
	}
}

func TestToBillions(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{62320718362.34, 62.32},
		{1_005_000_000, 1.01},
		{-5e9, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := toBillions(tt.in); got != tt.want {
			t.Fatalf("toBillions(%v)=%v, want %v", tt.in, got, tt.want)
		}
	}
}
