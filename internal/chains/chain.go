package chains

// Chain is one entry of the persisted aggregate. JSON names are the
// dashboard contract and must not change.
type Chain struct {
	ID                *int64  `json:"id"`
	Name              string  `json:"name"`
	Symbol            string  `json:"symbol"`
	GeckoID           string  `json:"gecko_id"`
	CmcID             *string `json:"cmcId"`
	Logo              string  `json:"logo"`
	MarketCap         float64 `json:"marketCap"`
	TVL               float64 `json:"tvl"`
	TPS               float64 `json:"tps"`
	RPCNode           string  `json:"rpc_node"`
	WSSRPCNode        string  `json:"wss_rpc_node"`
	CurrentPrice      float64 `json:"currentPrice"`
	PriceChange24h    float64 `json:"priceChange24h"`
	Volume24h         float64 `json:"volume24h"`
	CirculatingSupply float64 `json:"circulatingSupply"`
}
