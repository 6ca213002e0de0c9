// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/version"
)

const pingTimeout = 2 * time.Second

// PingerInterface is satisfied by db.DBClient. A nil pinger, used by the
// memory backend, is always ready.
type PingerInterface interface {
	Ping(context.Context) error
}

type Status struct {
	Version string `json:"version"`
}

type Readiness struct {
	Database string `json:"database"`
}

type API struct {
	pinger PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/ready", a.ready)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "status.API.alive")
	defer span.End()

	httptypes.WriteData(w, http.StatusOK, Status{Version: version.Version}, nil)
}

func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.ready")
	defer span.End()

	if a.pinger == nil {
		httptypes.WriteData(w, http.StatusOK, Readiness{Database: "memory"}, nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.pinger.Ping(ctx); err != nil {
		a.logger.Errorf("database ping failed: %v", err)
		if merr := a.monitor.SetDependencyAvailability(map[string]string{"component": "database"}, 0); merr != nil {
			a.logger.Debugf("error when setting dependency availability: %s", merr)
		}
		httptypes.WriteJSON(w, http.StatusServiceUnavailable, httptypes.ErrorResponse{
			Status:  http.StatusServiceUnavailable,
			Message: "database unavailable",
		})
		return
	}

	if err := a.monitor.SetDependencyAvailability(map[string]string{"component": "database"}, 1); err != nil {
		a.logger.Debugf("error when setting dependency availability: %s", err)
	}

	httptypes.WriteData(w, http.StatusOK, Readiness{Database: "ok"}, nil)
}

// NewAPI returns the liveness and readiness endpoints
func NewAPI(pinger PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.pinger = pinger
	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
