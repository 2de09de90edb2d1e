package druginfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Paracetamol (500mg)":       "paracetamol_500mg",
		"  Aspirin  ":               "aspirin",
		"amoxicillin/clavulanate":   "amoxicillin_clavulanate",
		"Amoxicillin + Clavulanate": "amoxicillin_plus_clavulanate",
		"WARFARIN":                  "warfarin",
		"":                          "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, Normalize(raw), "raw=%q", raw)
	}
}

func TestNormalizeCaseAndSpacingEquivalence(t *testing.T) {
	variants := []string{"Ibuprofen", "ibuprofen", "  IBUPROFEN  ", "(ibuprofen)"}
	for _, v := range variants {
		assert.Equal(t, "ibuprofen", Normalize(v))
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Paracetamol (500mg)", "Aspirin + Caffeine", "b/12 Complex", "plain"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
