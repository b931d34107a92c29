package insights

import (
	"fmt"
	"strings"

	"github.com/ternarybob/sentindex/internal/models"
)

// BuildPrompt renders the reasoning-service prompt for an insight
// request. The instruction demands a bare JSON object so the response
// can be parsed without trusting any surrounding prose.
func BuildPrompt(req models.InsightRequest) string {
	var b strings.Builder

	b.WriteString("You are a financial analyst. Input contains the latest asset prices ")
	b.WriteString("behind a composite index. Return EXACTLY a JSON object with keys: ")
	b.WriteString(`sentiment ("positive", "neutral" or "negative"), `)
	b.WriteString("summary (max 2 sentences), notable_events (array of strings), ")
	b.WriteString("risk_factors (array of strings). Do not add extra text.\n\n")

	b.WriteString("Input:\n")
	for _, symbol := range req.Prices.Symbols() {
		fmt.Fprintf(&b, "- %s: %g", symbol, req.Prices[symbol])
		if weight, ok := req.Weights[symbol]; ok {
			fmt.Fprintf(&b, " (weight %d%%)", int(weight*100))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Index: %s\n", req.IndexName)
	if req.BaseLevel > 0 {
		fmt.Fprintf(&b, "Base index level: %g", req.BaseLevel)
		if req.BaseDate != "" {
			fmt.Fprintf(&b, " (base date: %s)", req.BaseDate)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Current index value: %g\n", req.Value)
	fmt.Fprintf(&b, "24h change: %g%%\n\n", req.Delta24hPct)

	b.WriteString("Return JSON only.")

	return b.String()
}
