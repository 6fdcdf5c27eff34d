package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/workforce-intel/internal/analysis"
	"github.com/sells-group/workforce-intel/internal/census"
	"github.com/sells-group/workforce-intel/internal/model"
	"github.com/sells-group/workforce-intel/internal/report"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

type analyzeResponse struct {
	Success    bool              `json:"success"`
	ReportHTML string            `json:"report_html,omitempty"`
	Findings   json.RawMessage   `json:"findings,omitempty"`
	ParseError bool              `json:"parse_error,omitempty"`
	RawExcerpt string            `json:"raw_excerpt,omitempty"`
	Metadata   analysis.Metadata `json:"metadata"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zap.L().With(zap.String("request_id", RequestID(ctx)))

	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if len(req.Census) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Census data is required"})
		return
	}
	if !req.Format.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "format must be html or json"})
		return
	}

	ref := s.reference
	if req.ReferenceDate != "" {
		parsed, err := census.ParseReferenceDate(req.ReferenceDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "reference_date must be YYYY-MM-DD"})
			return
		}
		ref = parsed
	}

	res := analysis.Run(&req, ref)
	log.Info("census analyzed",
		zap.Int("enrolled", res.Census.EnrolledEmployees),
		zap.Int("risk_score", res.Risk.Score),
		zap.String("format", string(req.Format.OrDefault())),
	)

	gen, err := s.newGenerator(ctx)
	if err != nil {
		log.Error("build report generator", zap.Error(err))
		s.writeFailure(w, err.Error())
		return
	}

	out, err := gen.Generate(ctx, res, req.Format)
	if err != nil {
		if ue, ok := report.AsUpstream(err); ok {
			log.Error("generative service failed",
				zap.String("provider", ue.Provider),
				zap.Int("status", ue.StatusCode),
				zap.Bool("transient", ue.Transient()),
			)
			writeJSON(w, http.StatusInternalServerError, errorBody{
				Error:   "AI analysis failed",
				Details: ue.Detail,
			})
			return
		}
		log.Error("report generation failed", zap.Error(err))
		s.writeFailure(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:    true,
		ReportHTML: out.HTML,
		Findings:   out.Findings,
		ParseError: out.ParseError,
		RawExcerpt: out.RawExcerpt,
		Metadata:   res.Metadata(s.now()),
	})
}

// writeFailure answers with the generic 500. The underlying message is only
// exposed in development.
func (s *Server) writeFailure(w http.ResponseWriter, msg string) {
	body := errorBody{Error: "Analysis failed"}
	if s.cfg.IsDevelopment() {
		body.Message = msg
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}
