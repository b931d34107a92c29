package models

import "time"

// Sentiment is the overall market sentiment reported by an insight.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// InsightSource distinguishes AI-generated insights from the degraded
// fallback produced when the reasoning service is unavailable.
type InsightSource string

const (
	InsightSourceAI       InsightSource = "ai"
	InsightSourceFallback InsightSource = "fallback"
)

// InsightRequest pairs a computed index value with the price set that
// produced it, for prompt construction.
type InsightRequest struct {
	IndexName   string             `json:"index_name"`
	Value       float64            `json:"index_value"`
	Delta24hPct float64            `json:"delta_24h_pct"`
	Prices      PriceSet           `json:"prices"`
	Weights     map[string]float64 `json:"weights,omitempty"`
	BaseLevel   float64            `json:"base_level,omitempty"`
	BaseDate    string             `json:"base_date,omitempty"`
}

// InsightResult is always produced, even on total reasoning-service
// failure. The fallback variant carries Source=fallback and
// Sentiment=unknown.
type InsightResult struct {
	Sentiment     Sentiment     `json:"sentiment"`
	Summary       string        `json:"summary"`
	NotableEvents []string      `json:"notable_events"`
	RiskFactors   []string      `json:"risk_factors"`
	Source        InsightSource `json:"source"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
