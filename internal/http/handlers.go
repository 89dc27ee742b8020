package http

import (
	"errors"
	"math"
	"net/http"

	"spese-forecast/internal/artifact"
	"spese-forecast/internal/log"
	"spese-forecast/internal/regression"
	"spese-forecast/internal/services"
)

type predictResponse struct {
	PredictedExpense float64 `json:"predicted_expense"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// handlePredict serves GET /predict?month_num=<number>.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	ctx := r.Context()
	raw := r.URL.Query().Get("month_num")

	monthIndex, err := regression.ParseMonthIndex(raw)
	var predicted float64
	if err == nil {
		predicted, err = s.predictor.Predict(ctx, monthIndex)
	}
	if err == nil && (math.IsNaN(predicted) || math.IsInf(predicted, 0)) {
		err = &regression.InputParseError{Input: raw, Reason: "prediction is not a finite number"}
	}
	if err != nil {
		status, msg := classifyError(err)
		if status == http.StatusInternalServerError {
			log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Prediction failed", err,
				log.ComponentHTTP, log.OpPredict, log.NewFields())
		}
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Prediction served",
		log.FieldMonthIndex, monthIndex,
		log.FieldPredicted, predicted)
	writeJSON(w, http.StatusOK, predictResponse{PredictedExpense: predicted})
}

// classifyError maps the errors a client can act on to 400 with their
// message; everything else is an opaque 500.
func classifyError(err error) (int, string) {
	var (
		parseErr    *regression.InputParseError
		notFoundErr *artifact.ArtifactNotFoundError
		corruptErr  *artifact.CorruptArtifactError
	)
	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &notFoundErr),
		errors.As(err, &corruptErr),
		errors.Is(err, services.ErrModelNotLoaded):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil || !s.predictor.Loaded() {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "model not loaded"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}
