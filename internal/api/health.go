// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// StoreName labels the check in the response (e.g. "redis").
	StoreName string

	// CheckStore pings the byte store. Nil means the store has no remote dependency.
	CheckStore func(ctx context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	results := make([]checkResult, 0, 1)
	isSystemReady := true

	if handler.dependencies.CheckStore != nil {
		result := checkResult{Name: handler.dependencies.StoreName, IsOK: true}
		if err := handler.dependencies.CheckStore(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", handler.dependencies.StoreName),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	payload := respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	}}

	if !isSystemReady {
		payload.Data = map[string]any{
			constants.FieldStatus: "degraded",
			constants.FieldChecks: results,
		}
		respond.JSON(writer, http.StatusServiceUnavailable, payload)
		return
	}

	respond.JSON(writer, http.StatusOK, payload)
}
