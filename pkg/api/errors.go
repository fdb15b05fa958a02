package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cablesection/pkg/errors"
)

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// StatusFor maps an error to its HTTP status: 4xx for bad input and
// failed lookups, 422 for geometry failures, 502 for render backends and
// 500 for everything else.
func StatusFor(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch code := errors.GetCode(err); code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeIndexOutOfRange, errors.ErrCodeMissingArmourShape,
		errors.ErrCodeColorCountMismatch, errors.ErrCodeUnknownColorCode,
		errors.ErrCodeUnsupportedColorCount, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeConfigNotFound, errors.ErrCodeConductorDimensionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDegenerateGeometry, errors.ErrCodeEmptyMesh, errors.ErrCodeMeshUnion:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRenderBackend:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.Detail(err)
	if status >= 500 {
		s.Logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	} else {
		s.Logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
