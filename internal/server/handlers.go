package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Pramodsai29/AegisAI/internal/contextclass"
	"github.com/Pramodsai29/AegisAI/internal/logring"
	"github.com/Pramodsai29/AegisAI/internal/render"
	"github.com/Pramodsai29/AegisAI/internal/requestctx"
	"github.com/Pramodsai29/AegisAI/internal/sanitizer"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// record adds a metadata-only entry to the log ring. Entries carry lengths,
// counts, and scores; payload text and token values never enter the ring.
func (s *Server) record(r *http.Request, route string, entityCount int, category string, riskScore int, extra map[string]any) {
	s.ring.Add(logring.Entry{
		Timestamp:   time.Now().UTC(),
		RequestID:   requestctx.RequestID(r.Context()),
		Route:       route,
		EntityCount: entityCount,
		Category:    category,
		RiskScore:   riskScore,
		Extra:       extra,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

type entityDTO struct {
	Entity string `json:"entity"`
	Label  string `json:"label"`
}

type summaryDTO struct {
	Type        string  `json:"type"`
	Placeholder string  `json:"placeholder"`
	Confidence  float64 `json:"confidence"`
	Entity      string  `json:"entity"`
}

type sanitizeRequest struct {
	Input string `json:"input"`
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	var req sanitizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	res := s.engine.Sanitize(r.Context(), req.Input)

	entities := make([]entityDTO, 0, len(res.Entities))
	for _, e := range res.Entities {
		entities = append(entities, entityDTO{Entity: e.Text, Label: e.Class.String()})
	}
	summary := make([]summaryDTO, 0, len(res.Summary))
	for _, rec := range res.Summary {
		summary = append(summary, summaryDTO{
			Type:        rec.Class.String(),
			Placeholder: rec.Token,
			Confidence:  rec.Confidence,
			Entity:      rec.Text,
		})
	}

	s.record(r, "sanitize", len(res.Entities), res.Context.Category, res.Risk, map[string]any{
		"input_length":     len(req.Input),
		"sanitized_length": len(res.Redacted),
		"confidence":       res.Context.Confidence,
	})

	// Hand the only copy of the mapping to the caller, then clear ours.
	tokens := res.Rehydration.Tokens()
	res.Rehydration.Destroy()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sanitized":        res.Redacted,
		"sanitized_text":   res.Redacted,
		"entities":         entities,
		"entities_summary": summary,
		"context":          res.Context.Category,
		"confidence":       res.Context.Confidence,
		"risk_score":       res.Risk,
		"risk":             res.Risk,
		"rehydration_map":  tokens,
	})
}

type contextRequest struct {
	Input     string `json:"input"`
	Sanitized string `json:"sanitized"`
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	text := req.Input
	if text == "" {
		text = req.Sanitized
	}
	cc := contextclass.Classify(text)

	s.record(r, "context", 0, cc.Category, 0, map[string]any{
		"confidence": cc.Confidence,
	})

	writeJSON(w, http.StatusOK, cc)
}

type llmRequest struct {
	Sanitized      string               `json:"sanitized"`
	Context        contextclass.Context `json:"context"`
	RehydrationMap map[string]string    `json:"rehydration_map"`
}

// handleLLM answers a sanitized prompt. The response "answer" carries the
// generic-phrase rendering; "raw" keeps the placeholder form for the filter
// stage. The rehydration map is accepted and echoed for the client's
// pipeline state but never reaches the model.
func (s *Server) handleLLM(w http.ResponseWriter, r *http.Request) {
	var req llmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	out := s.llmClient.Answer(r.Context(), req.Sanitized, req.Context.Category)

	s.record(r, "llm", 0, req.Context.Category, 0, map[string]any{
		"output_length": len(out.Answer),
		"fallback_used": out.FallbackUsed,
		"confidence":    out.Confidence,
	})

	provider := s.llmClient.ProviderName()
	if out.FallbackUsed {
		provider = "fallback"
	}
	natural := render.GenericTerms(out.Answer)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":          natural,
		"confidence":      out.Confidence,
		"explanations":    out.Explanations,
		"fallback_used":   out.FallbackUsed,
		"raw":             out.Answer,
		"output":          natural,
		"provider":        provider,
		"rehydration_map": req.RehydrationMap,
	})
}

type llmOutputDTO struct {
	Answer string `json:"answer"`
	Raw    string `json:"raw"`
}

type outputFilterRequest struct {
	Answer    string               `json:"answer"`
	Original  string               `json:"original"`
	LLMOutput llmOutputDTO         `json:"llm_output"`
	Sanitized string               `json:"sanitized"`
	Context   contextclass.Context `json:"context"`
}

func (s *Server) handleOutputFilter(w http.ResponseWriter, r *http.Request) {
	var req outputFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	text := req.Answer
	if text == "" {
		text = req.Original
	}
	if text == "" {
		text = req.LLMOutput.Answer
	}
	if text == "" {
		text = req.LLMOutput.Raw
	}
	if text == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"safe_sanitized_text": "",
			"leak_detected":       false,
			"notes":               nil,
		})
		return
	}

	preview := req.Sanitized
	if len(preview) > 200 {
		preview = preview[:200]
	}
	meta := map[string]string{
		"category":          req.Context.Category,
		"sanitized_preview": preview,
	}

	res := s.engine.CheckAndFilter(r.Context(), text, meta)

	s.record(r, "output_filter", 0, req.Context.Category, 0, map[string]any{
		"text_length":   len(text),
		"leak_detected": res.LeakDetected,
	})

	var notes interface{}
	if res.Note != "" {
		notes = res.Note
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"safe_sanitized_text": res.SafeText,
		"leak_detected":       res.LeakDetected,
		"notes":               notes,
	})
}

type filteredOutputDTO struct {
	SafeSanitizedText string  `json:"safe_sanitized_text"`
	LeakDetected      bool    `json:"leak_detected"`
	Notes             *string `json:"notes"`
}

type finalRequest struct {
	SanitizedText   string                `json:"sanitized_text"`
	Sanitized       string                `json:"sanitized"`
	EntitiesSummary json.RawMessage       `json:"entities_summary"`
	Entities        json.RawMessage       `json:"entities"`
	RehydrationMap  map[string]string     `json:"rehydration_map"`
	Context         *contextclass.Context `json:"context"`
	Risk            int                   `json:"risk"`
	LLMOutput       llmOutputDTO          `json:"llm_output"`
	LLMResult       llmOutputDTO          `json:"llm_result"`
	FilteredOutput  *filteredOutputDTO    `json:"filtered_output"`
}

// handleFinal assembles the final response. Placeholders are rendered as
// generic phrases, never rehydrated; the supplied rehydration map is
// destroyed before the response is built, and risk is recomputed from the
// text actually being returned.
func (s *Server) handleFinal(w http.ResponseWriter, r *http.Request) {
	var req finalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	sanitizedText := req.SanitizedText
	if sanitizedText == "" {
		sanitizedText = req.Sanitized
	}
	cc := contextclass.General
	if req.Context != nil && req.Context.Category != "" {
		cc = *req.Context
	}
	filtered := filteredOutputDTO{}
	if req.FilteredOutput != nil {
		filtered = *req.FilteredOutput
	}
	llmOut := req.LLMOutput
	if llmOut.Answer == "" && llmOut.Raw == "" {
		llmOut = req.LLMResult
	}

	answer := filtered.SafeSanitizedText
	if answer == "" {
		answer = llmOut.Answer
	}
	if answer == "" {
		answer = llmOut.Raw
	}

	finalText := render.GenericTerms(answer)
	riskScore := s.finalRisk(r, finalText)

	// The inbound map itself is cleared before anything is serialized; the
	// final stage never restores original values.
	sanitizer.RehydrationFromMap(req.RehydrationMap).Destroy()

	summary := req.EntitiesSummary
	if summary == nil {
		summary = req.Entities
	}
	if summary == nil {
		summary = json.RawMessage("[]")
	}

	s.record(r, "final", 0, cc.Category, riskScore, map[string]any{
		"result_length": len(answer),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sanitized": map[string]interface{}{
			"sanitized_text":   sanitizedText,
			"entities_summary": summary,
		},
		"context":               cc,
		"risk":                  riskScore,
		"llm_response":          llmOut,
		"filtered_output":       filtered,
		"final_output":          finalText,
		"final_rehydrated_text": finalText,
	})
}

// finalRisk scores the text being returned to the caller. A rendered final
// text normally carries no detectable entities, so this usually lands at 0;
// any failure also reports 0 because the text at this point is generic.
func (s *Server) finalRisk(r *http.Request, finalText string) (score int) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Interface("panic", rec).Msg("final risk recompute failed")
			score = 0
		}
	}()
	if finalText == "" {
		return 0
	}
	res := s.engine.Sanitize(r.Context(), finalText)
	defer res.Rehydration.Destroy()
	return res.Risk
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ring.Snapshot())
}
