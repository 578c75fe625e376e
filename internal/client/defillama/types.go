package defillama

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Chain is one row of /v2/chains.
type Chain struct {
	ChainID     OptionalInt    `json:"chainId"`
	Name        string         `json:"name"`
	TokenSymbol OptionalString `json:"tokenSymbol"`
	GeckoID     OptionalString `json:"gecko_id"`
	CmcID       OptionalString `json:"cmcId"`
	TVL         float64        `json:"tvl"`
}

// OptionalInt accepts a number, a numeric string or null.
type OptionalInt struct {
	Value int64
	Valid bool
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	*o = OptionalInt{}
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == `""` {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			// Some chains report non-numeric ids such as "cosmoshub-4".
			return nil
		}
		*o = OptionalInt{Value: v, Valid: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*o = OptionalInt{Value: int64(f), Valid: true}
		return nil
	}
	return fmt.Errorf("invalid chain id: %s", raw)
}

// Ptr returns nil for a missing id.
func (o OptionalInt) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalString accepts a string, a number or null.
type OptionalString struct {
	Value string
	Valid bool
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	*o = OptionalString{}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = OptionalString{Value: s, Valid: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*o = OptionalString{Value: n.String(), Valid: true}
		return nil
	}
	return fmt.Errorf("invalid string field: %s", raw)
}

func (o OptionalString) Ptr() *string {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
