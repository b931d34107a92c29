package insights

import (
	"strings"
	"testing"
)

func TestParsePayload(t *testing.T) {
	valid := `{"sentiment":"positive","summary":"Gold rallied.","notable_events":["gold above 1900"],"risk_factors":[]}`

	tests := []struct {
		name    string
		text    string
		maxLen  int
		wantErr bool
	}{
		{
			name: "clean JSON object",
			text: valid,
		},
		{
			name: "object wrapped in prose",
			text: "Here is the analysis:\n```json\n" + valid + "\n```\nHope this helps.",
		},
		{
			name: "empty arrays are valid",
			text: `{"sentiment":"neutral","summary":"Flat day.","notable_events":[],"risk_factors":[]}`,
		},
		{
			name:    "non-JSON body",
			text:    "I could not generate insights today.",
			wantErr: true,
		},
		{
			name:    "truncated JSON",
			text:    `{"sentiment":"positive","summary":"Gold`,
			wantErr: true,
		},
		{
			name:    "missing sentiment",
			text:    `{"summary":"Gold rallied.","notable_events":[],"risk_factors":[]}`,
			wantErr: true,
		},
		{
			name:    "sentiment outside enum",
			text:    `{"sentiment":"bullish","summary":"Gold rallied.","notable_events":[],"risk_factors":[]}`,
			wantErr: true,
		},
		{
			name:    "missing notable_events key",
			text:    `{"sentiment":"positive","summary":"Gold rallied.","risk_factors":[]}`,
			wantErr: true,
		},
		{
			name:    "missing risk_factors key",
			text:    `{"sentiment":"positive","summary":"Gold rallied.","notable_events":[]}`,
			wantErr: true,
		},
		{
			name:    "empty summary",
			text:    `{"sentiment":"positive","summary":"","notable_events":[],"risk_factors":[]}`,
			wantErr: true,
		},
		{
			name:    "summary over limit",
			text:    `{"sentiment":"positive","summary":"` + strings.Repeat("x", 401) + `","notable_events":[],"risk_factors":[]}`,
			maxLen:  400,
			wantErr: true,
		},
		{
			name:   "summary at limit",
			text:   `{"sentiment":"positive","summary":"` + strings.Repeat("x", 400) + `","notable_events":[],"risk_factors":[]}`,
			maxLen: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := parsePayload(tt.text, tt.maxLen)

			if tt.wantErr {
				if err == nil {
					t.Fatal("parsePayload() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("parsePayload() error = %v", err)
			}
			if payload.NotableEvents == nil || payload.RiskFactors == nil {
				t.Error("parsePayload() accepted payload with nil arrays")
			}
		})
	}
}

func TestExtractJSONSpansFirstToLastBrace(t *testing.T) {
	text := `prefix {"a":{"b":1}} suffix`
	got, err := extractJSON(text)
	if err != nil {
		t.Fatalf("extractJSON() error = %v", err)
	}
	if got != `{"a":{"b":1}}` {
		t.Errorf("extractJSON() = %q", got)
	}
}

func TestToResultMarksAISource(t *testing.T) {
	payload, err := parsePayload(`{"sentiment":"negative","summary":"Oil slid.","notable_events":["opec cut"],"risk_factors":["supply shock"]}`, 0)
	if err != nil {
		t.Fatalf("parsePayload() error = %v", err)
	}

	result := payload.toResult()
	if string(result.Source) != "ai" {
		t.Errorf("toResult() source = %v, want ai", result.Source)
	}
	if string(result.Sentiment) != "negative" {
		t.Errorf("toResult() sentiment = %v, want negative", result.Sentiment)
	}
	if len(result.NotableEvents) != 1 || len(result.RiskFactors) != 1 {
		t.Errorf("toResult() arrays = %v / %v", result.NotableEvents, result.RiskFactors)
	}
}
