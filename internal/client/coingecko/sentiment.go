package coingecko

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type SentimentKind int

const (
	SentimentUnrecognized SentimentKind = iota
	SentimentErrorFlag
	SentimentPercentages
	SentimentCounts
)

func (k SentimentKind) String() string {
	switch k {
	case SentimentErrorFlag:
		return "error"
	case SentimentPercentages:
		return "percentages"
	case SentimentCounts:
		return "counts"
	default:
		return "unrecognized"
	}
}

// SentimentPayload is the decoded vote payload. Only the fields of Kind are
// meaningful.
type SentimentPayload struct {
	Kind     SentimentKind
	Positive float64
	Negative float64
	Bullish  float64
	Bearish  float64
}

// ParseSentiment classifies a vote payload. Precedence is error flag, then
// percentage pair, then counts. Anything else, including non-object JSON,
// is unrecognized; only undecodable bytes return an error.
func ParseSentiment(body []byte) (SentimentPayload, error) {
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return SentimentPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return SentimentPayload{Kind: SentimentUnrecognized}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return SentimentPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if truthy(fields["error"]) {
		return SentimentPayload{Kind: SentimentErrorFlag}, nil
	}
	if truthy(fields["percentage"]) {
		var pct map[string]json.RawMessage
		_ = json.Unmarshal(fields["percentage"], &pct)
		return SentimentPayload{
			Kind:     SentimentPercentages,
			Positive: number(pct["positive"]),
			Negative: number(pct["negative"]),
		}, nil
	}
	bull, hasBull := fields["bullish"]
	bear, hasBear := fields["bearish"]
	if hasBull && hasBear {
		return SentimentPayload{
			Kind:    SentimentCounts,
			Bullish: number(bull),
			Bearish: number(bear),
		}, nil
	}
	return SentimentPayload{Kind: SentimentUnrecognized}, nil
}

// truthy mirrors loose boolean coercion of a JSON value: null, false, 0 and
// "" are false, everything else present is true.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f != 0
	}
	return true
}

// number reads a JSON number or numeric string; anything else is zero.
func number(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
