package counseling

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medcounsel-backend/druginfo"
	"medcounsel-backend/langs"
	"medcounsel-backend/metrics"
	"medcounsel-backend/openai"
)

// Handler exposes the counseling endpoint.
type Handler struct {
	svc    *Service
	engine *druginfo.Engine
	ai     Counselor
	log    *logrus.Logger
}

func NewHandler(svc *Service, engine *druginfo.Engine, ai Counselor, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, engine: engine, ai: ai, log: log}
}

// RegisterRoutes sets up the counseling routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/counseling", h.Counseling)
}

type counselingReq struct {
	Drug          string   `json:"drug"`
	Lang          string   `json:"lang"`
	ExistingDrugs []string `json:"existing_drugs"`
	Conditions    []string `json:"conditions"`
}

// Counseling serves one patient-education request. Missing required fields
// answer found=false with a normal status; a failing sub-feature (text,
// audio, either interaction path) comes back null or empty without failing
// the others.
func (h *Handler) Counseling(c *gin.Context) {
	var req counselingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	drug := strings.TrimSpace(req.Drug)
	if drug == "" || strings.TrimSpace(req.Lang) == "" {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	lang := langs.Normalize(req.Lang)

	rec, err := h.svc.GetOrCreate(c, drug, lang)
	if err != nil {
		h.log.WithError(err).WithField("drug", drug).Error("counseling generation failed")
		c.JSON(http.StatusOK, gin.H{"found": false, "counseling": nil})
		return
	}

	audioURL := h.svc.EnsureAudio(c, drug, lang, rec.Text())

	all := append([]string{drug}, req.ExistingDrugs...)
	ruleFindings := h.engine.CheckInteractions(all)
	patientAlerts := h.engine.PatientAlerts(all, req.Conditions)
	foodAlerts := h.engine.FoodInteractions(all)

	aiFindings, err := h.ai.EstimateInteractions(c, drug, req.ExistingDrugs, lang)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("interactions").Inc()
		h.log.WithError(err).WithField("drug", drug).Warn("interaction estimate failed")
		aiFindings = []openai.Finding{}
	}

	var audio any
	if audioURL != "" {
		audio = audioURL
	}

	c.JSON(http.StatusOK, gin.H{
		"found":           true,
		"counseling":      rec.Text(),
		"sections":        rec.Sections,
		"interactions":    ruleFindings,
		"ai_interactions": aiFindings,
		"patient_alerts":  patientAlerts,
		"food_alerts":     foodAlerts,
		"audio":           audio,
	})
}
