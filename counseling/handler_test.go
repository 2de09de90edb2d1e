package counseling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medcounsel-backend/druginfo"
	"medcounsel-backend/openai"
)

type handlerAI struct {
	mockAI
	estimate []openai.Finding
	estErr   error
}

func (m *handlerAI) EstimateInteractions(ctx context.Context, target string, existing []string, lang string) ([]openai.Finding, error) {
	if m.estErr != nil {
		return nil, m.estErr
	}
	return m.estimate, nil
}

func testRuleEngine(t *testing.T) *druginfo.Engine {
	t.Helper()
	dir := t.TempDir()
	tables := map[string]string{
		"interactions_specific.json": `{"aspirin+warfarin": {"severity": "High", "description": "bleeding risk"}}`,
		"drug_classes.json":          `{"aspirin": "NSAID"}`,
		"patient_alerts.json":        `{"renal_impairment": {"NSAID": "may worsen kidney function"}}`,
	}
	for name, content := range tables {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := druginfo.LoadRuleStore(dir, logrus.New())
	if err != nil {
		t.Fatal(err)
	}
	return druginfo.NewEngine(store, logrus.New())
}

func setupRouter(t *testing.T, ai Counselor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := NewStore(t.TempDir(), logrus.New())
	svc := NewService(store, ai, t.TempDir(), logrus.New())
	h := NewHandler(svc, testRuleEngine(t), ai, logrus.New())
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func postCounseling(t *testing.T, r *gin.Engine, body map[string]any) (int, map[string]any) {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/counseling", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	return w.Code, resp
}

func TestCounseling_ok(t *testing.T) {
	ai := &handlerAI{
		mockAI: mockAI{
			text:  "1. WHAT IS THIS MEDICINE FOR\nBlood thinner.\n\n2. HOW TO TAKE\nSame time daily.",
			audio: []byte("mp3"),
		},
		estimate: []openai.Finding{{DrugPair: "warfarin+aspirin", Severity: "High", Description: "ai judgment"}},
	}
	r := setupRouter(t, ai)

	code, resp := postCounseling(t, r, map[string]any{
		"drug":           "Warfarin",
		"lang":           "English",
		"existing_drugs": []string{"Aspirin"},
		"conditions":     []string{"renal_impairment"},
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["found"] != true {
		t.Fatalf("expected found=true: %v", resp)
	}
	if resp["counseling"] == "" || resp["counseling"] == nil {
		t.Fatalf("missing counseling text")
	}
	sections, ok := resp["sections"].([]any)
	if !ok || len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %v", resp["sections"])
	}
	// Deterministic rule finding for the aspirin+warfarin pair.
	interactions, ok := resp["interactions"].([]any)
	if !ok || len(interactions) != 1 {
		t.Fatalf("expected 1 rule finding, got %v", resp["interactions"])
	}
	first := interactions[0].(map[string]any)
	if first["severity"] != "High" {
		t.Fatalf("expected High severity, got %v", first["severity"])
	}
	// Provider-estimated path is reported separately.
	if estimates, ok := resp["ai_interactions"].([]any); !ok || len(estimates) != 1 {
		t.Fatalf("expected 1 ai finding, got %v", resp["ai_interactions"])
	}
	if alerts, ok := resp["patient_alerts"].([]any); !ok || len(alerts) != 1 {
		t.Fatalf("expected 1 patient alert, got %v", resp["patient_alerts"])
	}
	if resp["audio"] != "/voices/en/warfarin.mp3" {
		t.Fatalf("unexpected audio url: %v", resp["audio"])
	}
}

func TestCounseling_missingFields(t *testing.T) {
	r := setupRouter(t, &handlerAI{})

	for _, body := range []map[string]any{
		{},
		{"drug": "", "lang": "en"},
		{"drug": "aspirin", "lang": ""},
		{"drug": "  ", "lang": "en"},
	} {
		code, resp := postCounseling(t, r, body)
		if code != http.StatusOK {
			t.Fatalf("validation failures must keep status 200, got %d", code)
		}
		if resp["found"] != false {
			t.Fatalf("expected found=false for %v", body)
		}
	}
}

func TestCounseling_providerDown(t *testing.T) {
	ai := &handlerAI{mockAI: mockAI{genErr: errors.New("provider down")}}
	r := setupRouter(t, ai)

	code, resp := postCounseling(t, r, map[string]any{"drug": "aspirin", "lang": "en"})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["found"] != false {
		t.Fatalf("expected found=false when generation fails")
	}
}

func TestCounseling_interactionEstimateFailureDegrades(t *testing.T) {
	ai := &handlerAI{
		mockAI: mockAI{text: "1. HOW TO TAKE\nWith water.", audio: []byte("mp3")},
		estErr: errors.New("provider down"),
	}
	r := setupRouter(t, ai)

	code, resp := postCounseling(t, r, map[string]any{
		"drug":           "aspirin",
		"lang":           "en",
		"existing_drugs": []string{"warfarin"},
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["found"] != true {
		t.Fatalf("text must still be served when the estimate fails")
	}
	if estimates, ok := resp["ai_interactions"].([]any); !ok || len(estimates) != 0 {
		t.Fatalf("expected empty ai_interactions, got %v", resp["ai_interactions"])
	}
}
