package coingecko

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload marks a 200 response that is missing required fields.
var ErrMalformedPayload = errors.New("coingecko: malformed payload")

// Market is one row of /coins/markets. Null numbers decode to zero.
type Market struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	CirculatingSupply        float64 `json:"circulating_supply"`
}

// PricePoint is a single [ms, price] tick.
type PricePoint struct {
	TimestampMs int64
	Price       float64
}

type MarketChart struct {
	Prices []PricePoint
}

func parseMarketChart(body []byte) (*MarketChart, error) {
	var raw struct {
		Prices *[][]json.Number `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if raw.Prices == nil {
		return nil, fmt.Errorf("%w: prices missing", ErrMalformedPayload)
	}
	out := &MarketChart{Prices: make([]PricePoint, 0, len(*raw.Prices))}
	for i, pair := range *raw.Prices {
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: tick %d has %d values", ErrMalformedPayload, i, len(pair))
		}
		ts, err := pair[0].Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: tick %d timestamp: %v", ErrMalformedPayload, i, err)
		}
		price, err := pair[1].Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: tick %d price: %v", ErrMalformedPayload, i, err)
		}
		out.Prices = append(out.Prices, PricePoint{TimestampMs: int64(ts), Price: price})
	}
	return out, nil
}
