// Package druginfo implements the deterministic drug knowledge layer: name
// normalization, the static rule tables and the resolvers that match drug
// pairs, patient conditions and foods against them.
package druginfo

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Severity levels used across interaction findings.
const (
	SeverityHigh     = "High"
	SeverityModerate = "Moderate"
	SeverityLow      = "Low"
	SeverityNone     = "None"
)

// DefaultRecommendation is used when a rule does not carry its own.
const DefaultRecommendation = "Consult a healthcare professional."

// pairSep joins the two normalized names of an interaction rule key.
// Normalize never emits '+', so the separator cannot collide with a name.
const pairSep = "+"

// InteractionRule is one pairwise drug-drug interaction entry.
type InteractionRule struct {
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// FoodRule describes a drug-food interaction for a single drug.
type FoodRule struct {
	Food        string `json:"food"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// RuleStore holds the static tables, loaded once at startup and read-only
// afterwards. It is shared by all requests without locking.
type RuleStore struct {
	generic  map[string]InteractionRule
	specific map[string]InteractionRule
	classes  map[string]string
	food     map[string]FoodRule
	// condition -> drug class -> warning message
	alerts map[string]map[string]string
}

// LoadRuleStore reads the rule tables from dir. A missing table file is not
// fatal: the corresponding resolver simply produces no findings.
func LoadRuleStore(dir string, log *logrus.Logger) (*RuleStore, error) {
	s := &RuleStore{
		generic:  map[string]InteractionRule{},
		specific: map[string]InteractionRule{},
		classes:  map[string]string{},
		food:     map[string]FoodRule{},
		alerts:   map[string]map[string]string{},
	}

	var generic, specific map[string]InteractionRule
	if err := loadTable(dir, "interactions.json", log, &generic); err != nil {
		return nil, err
	}
	if err := loadTable(dir, "interactions_specific.json", log, &specific); err != nil {
		return nil, err
	}
	var classes map[string]string
	if err := loadTable(dir, "drug_classes.json", log, &classes); err != nil {
		return nil, err
	}
	var food map[string]FoodRule
	if err := loadTable(dir, "drug_food_interactions.json", log, &food); err != nil {
		return nil, err
	}
	var alerts map[string]map[string]string
	if err := loadTable(dir, "patient_alerts.json", log, &alerts); err != nil {
		return nil, err
	}

	// Re-normalize keys so hand-edited table entries match runtime lookups
	// regardless of which naming convention they were written with.
	for k, v := range generic {
		s.generic[normalizePairKey(k)] = v
	}
	for k, v := range specific {
		s.specific[normalizePairKey(k)] = v
	}
	for k, v := range classes {
		s.classes[Normalize(k)] = v
	}
	for k, v := range food {
		s.food[Normalize(k)] = v
	}
	for cond, byClass := range alerts {
		s.alerts[strings.ToLower(strings.TrimSpace(cond))] = byClass
	}

	log.WithFields(logrus.Fields{
		"generic":  len(s.generic),
		"specific": len(s.specific),
		"classes":  len(s.classes),
		"food":     len(s.food),
		"alerts":   len(s.alerts),
	}).Info("drug rule tables loaded")

	return s, nil
}

func loadTable(dir, name string, log *logrus.Logger, out any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("table", name).Warn("rule table missing, resolver degraded to no findings")
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// normalizePairKey normalizes both sides of an "a+b" interaction key.
func normalizePairKey(key string) string {
	parts := strings.SplitN(key, pairSep, 2)
	if len(parts) != 2 {
		return Normalize(key)
	}
	return Normalize(parts[0]) + pairSep + Normalize(parts[1])
}
