package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const counselingPrompt = `
You are an experienced clinical pharmacist.
Generate INDIVIDUALIZED, MEDICINE-SPECIFIC patient counseling for: %q.
Language: %q

STRICT FORMATTING RULE:
The frontend splits text by "\nNumber. ".
You MUST output the text in this EXACT structure:

1. WHAT IS THIS MEDICINE FOR
(Put content on this new line. Do NOT use a colon after the header.)

2. HOW TO TAKE
(Put content on this new line.)

3. IMPORTANT WARNINGS
(Put content on this new line.)

4. COMMON SIDE EFFECTS
(Put content on this new line.)

5. GENERAL INSTRUCTIONS
(Put content on this new line.)

6. DRUG FOOD INTERACTION
(Put content on this new line.)

CONTENT RULES:
- Use simple Layman terms.
- Be specific to %q.
- Do NOT include markdown.
- Ensure a newline between header and content.
`

// GenerateCounseling asks the provider for the six-section counseling text.
// The JSON response either carries the full text under "ai_counseling" or is
// an object whose digit-prefixed keys are section headers; in the latter case
// the text is reconstructed in numeric key order. A response yielding no
// sections is a generation failure.
func (c *Client) GenerateCounseling(ctx context.Context, medicine, lang string) (string, error) {
	prompt := fmt.Sprintf(counselingPrompt, medicine, lang, medicine)
	content, err := c.completeJSON(ctx, prompt, 0.7)
	if err != nil {
		return "", err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", fmt.Errorf("counseling response is not a JSON object: %w", err)
	}

	if raw, ok := payload["ai_counseling"]; ok {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	text := reconstructSections(payload)
	if text == "" {
		return "", fmt.Errorf("counseling response for %q has no usable sections", medicine)
	}
	return text, nil
}

// reconstructSections rebuilds "header\ncontent" blocks from keys that start
// with a digit, preserving their numeric order.
func reconstructSections(payload map[string]json.RawMessage) string {
	type section struct {
		order int
		text  string
	}
	var sections []section
	for key, raw := range payload {
		if key == "" || key[0] < '0' || key[0] > '9' {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		sections = append(sections, section{
			order: leadingNumber(key),
			text:  key + "\n" + value,
		})
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].order < sections[j].order })

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.text)
	}
	return strings.Join(parts, "\n\n")
}

func leadingNumber(key string) int {
	i := 0
	for i < len(key) && key[i] >= '0' && key[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(key[:i])
	return n
}
