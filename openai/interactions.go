package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Finding is one provider-estimated interaction. It is deliberately a
// different type from the rule-store finding: the two paths carry different
// trust levels and are surfaced under separate response fields.
type Finding struct {
	DrugPair    string `json:"drug_pair"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// noPartnerFinding mirrors the placeholder the frontend expects when there is
// nothing to check against.
var noPartnerFinding = Finding{
	DrugPair:    "None",
	Severity:    "None",
	Description: "No other medicines provided for interaction check.",
}

// EstimateInteractions asks the provider for a free-text judgment of
// interactions between target and the existing drugs. An empty existing list
// short-circuits to a single placeholder without a provider call.
func (c *Client) EstimateInteractions(ctx context.Context, target string, existing []string, lang string) ([]Finding, error) {
	if len(existing) == 0 {
		return []Finding{noPartnerFinding}, nil
	}

	prompt := fmt.Sprintf(`
Check drug-drug interactions between %q and %q.
Respond in language %q.
Return JSON with key "interactions".
`, target, strings.Join(existing, ", "), lang)

	content, err := c.completeJSON(ctx, prompt, 0.3)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Interactions []Finding `json:"interactions"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("interaction response is not valid JSON: %w", err)
	}
	return payload.Interactions, nil
}
