package druginfo

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Finding is one rule-based drug-drug interaction result.
type Finding struct {
	Medicine1      string `json:"medicine1"`
	Medicine2      string `json:"medicine2"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// Alert is a drug/patient-condition warning.
type Alert struct {
	Drug      string `json:"drug"`
	Condition string `json:"condition"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// FoodAlert is a drug-food warning for a single drug.
type FoodAlert struct {
	Drug     string `json:"drug"`
	Food     string `json:"food"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// NoPartnerDescription is returned as the single placeholder finding when
// fewer than two distinct drugs were supplied for an interaction check.
const NoPartnerDescription = "No other medicines provided for interaction check."

// Engine resolves drug lists against a RuleStore.
type Engine struct {
	store *RuleStore
	log   *logrus.Logger
}

// NewEngine creates an Engine over an already-loaded RuleStore.
func NewEngine(store *RuleStore, log *logrus.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// CheckInteractions resolves every unordered pair of the supplied drugs.
// Specific rules take precedence over generic ones, and both orderings of a
// pair key are tried. With fewer than two distinct drugs it returns exactly
// one placeholder finding so callers always receive at least one element.
func (e *Engine) CheckInteractions(drugs []string) []Finding {
	normalized := dedupeNormalized(drugs)

	if len(normalized) < 2 {
		return []Finding{{
			Severity:    SeverityNone,
			Description: NoPartnerDescription,
		}}
	}

	var results []Finding
	for i := 0; i < len(normalized); i++ {
		for j := i + 1; j < len(normalized); j++ {
			a, b := normalized[i], normalized[j]
			rule, ok := e.lookupPair(a, b)
			if !ok {
				continue
			}
			f := Finding{
				Medicine1:      a,
				Medicine2:      b,
				Severity:       rule.Severity,
				Description:    rule.Description,
				Recommendation: rule.Recommendation,
			}
			if f.Severity == "" {
				f.Severity = SeverityModerate
			}
			if f.Recommendation == "" {
				f.Recommendation = DefaultRecommendation
			}
			results = append(results, f)
		}
	}
	e.log.WithFields(logrus.Fields{"drugs": len(normalized), "findings": len(results)}).Debug("interaction check")
	return results
}

// lookupPair tries the specific table before the generic one, with both key
// orderings, and reports the first hit.
func (e *Engine) lookupPair(a, b string) (InteractionRule, bool) {
	key1 := a + pairSep + b
	key2 := b + pairSep + a
	for _, table := range []map[string]InteractionRule{e.store.specific, e.store.generic} {
		if r, ok := table[key1]; ok {
			return r, true
		}
		if r, ok := table[key2]; ok {
			return r, true
		}
	}
	return InteractionRule{}, false
}

// PatientAlerts matches each classified drug against the supplied patient
// conditions. Drugs without a class entry are skipped; output order follows
// input drug order, then input condition order.
func (e *Engine) PatientAlerts(drugs, conditions []string) []Alert {
	var alerts []Alert
	for _, drug := range drugs {
		d := Normalize(drug)
		class, ok := e.store.classes[d]
		if !ok {
			continue
		}
		for _, condition := range conditions {
			cond := strings.ToLower(strings.TrimSpace(condition))
			msg, ok := e.store.alerts[cond][class]
			if !ok {
				continue
			}
			alerts = append(alerts, Alert{
				Drug:      d,
				Condition: cond,
				Severity:  "warning",
				Message:   msg,
			})
		}
	}
	return alerts
}

// FoodInteractions returns one alert per drug that has a food rule; drugs
// without one are silently omitted.
func (e *Engine) FoodInteractions(drugs []string) []FoodAlert {
	var alerts []FoodAlert
	for _, drug := range drugs {
		d := Normalize(drug)
		rule, ok := e.store.food[d]
		if !ok {
			continue
		}
		severity := rule.Severity
		if severity == "" {
			severity = SeverityModerate
		}
		alerts = append(alerts, FoodAlert{
			Drug:     d,
			Food:     rule.Food,
			Severity: severity,
			Message:  rule.Description,
		})
	}
	return alerts
}

// dedupeNormalized normalizes all names and drops duplicates so a drug is
// never paired with itself.
func dedupeNormalized(drugs []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range drugs {
		n := Normalize(d)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
