package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/sentindex/internal/models"
)

// insightPayload is the strict schema the reasoning service must answer
// with. Pointer fields distinguish an absent key from an empty array;
// any missing or mistyped required field rejects the entire payload -
// partial trust of a malformed response is disallowed.
type insightPayload struct {
	Sentiment     string    `json:"sentiment" validate:"required,oneof=positive neutral negative"`
	Summary       string    `json:"summary" validate:"required"`
	NotableEvents *[]string `json:"notable_events" validate:"required"`
	RiskFactors   *[]string `json:"risk_factors" validate:"required"`
}

var payloadValidator = validator.New()

// parsePayload extracts and validates the JSON object from raw
// reasoning-service output. Providers occasionally wrap the object in
// prose or code fences, so parsing starts at the first '{' and ends at
// the last '}'.
func parsePayload(text string, maxSummaryLength int) (*insightPayload, error) {
	jsonText, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var payload insightPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in reasoning response: %w", err)
	}

	if err := payloadValidator.Struct(&payload); err != nil {
		return nil, fmt.Errorf("reasoning response failed schema validation: %w", err)
	}

	if maxSummaryLength > 0 && len(payload.Summary) > maxSummaryLength {
		return nil, fmt.Errorf("summary too long: %d characters (max %d)", len(payload.Summary), maxSummaryLength)
	}

	return &payload, nil
}

// extractJSON locates the JSON object within free-form response text.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return text[start : end+1], nil
}

// toResult maps a verified payload into an AI-sourced InsightResult.
func (p *insightPayload) toResult() models.InsightResult {
	return models.InsightResult{
		Sentiment:     models.Sentiment(p.Sentiment),
		Summary:       p.Summary,
		NotableEvents: *p.NotableEvents,
		RiskFactors:   *p.RiskFactors,
		Source:        models.InsightSourceAI,
	}
}
