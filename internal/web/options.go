package web

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/PetrHeinz/punch-cards/internal/game"
)

// maxOptionsSize bounds the body of an options validation request.
const maxOptionsSize = 64 << 10

// ValidationResult is the response of POST /api/options/validate.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// handleOptions serves the options the server was started with as YAML, in
// the same layout an options file uses.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	data, err := yaml.Marshal(s.options)
	if err != nil {
		s.diag.Error("marshal options", zap.Error(err))
		http.Error(w, "could not encode options", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}

// handleValidateOptions parses an uploaded options file and reports every
// problem found in it.
func (s *Server) handleValidateOptions(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxOptionsSize))
	if err != nil {
		http.Error(w, "could not read body", http.StatusBadRequest)
		return
	}

	result := ValidationResult{Valid: true}
	status := http.StatusOK
	if _, err := game.ParseOptions(data); err != nil {
		result.Valid = false
		result.Errors = splitErrors(err)
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

// splitErrors flattens an errors.Join tree into messages.
func splitErrors(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, splitErrors(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
