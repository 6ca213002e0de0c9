// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/assessment-service/internal/apperrors"
	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
)

const maxHookBytes = 64 << 10

// KratosIdentity is the part of the Kratos after-registration payload the
// hook reads. Other fields are ignored.
type KratosIdentity struct {
	ID     string       `json:"id"`
	Traits KratosTraits `json:"traits"`
}

type KratosTraits struct {
	Email string `json:"email"`
}

type API struct {
	service ServiceInterface
	apiKey  string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// NewAPI builds the hook endpoints. An empty apiKey disables the shared
// secret check, used for local setups only.
func NewAPI(service ServiceInterface, apiKey string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		apiKey:  apiKey,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Post("/api/v0/webhooks/registration", a.registration)
}

func (a *API) authorized(r *http.Request) bool {
	if a.apiKey == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), []byte(a.apiKey)) == 1
}

func (a *API) registration(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "webhooks.API.registration")
	defer span.End()

	if !a.authorized(r) {
		a.logger.Security().AuthnFailure("invalid webhook credentials")
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	var identity KratosIdentity
	if err := json.NewDecoder(io.LimitReader(r.Body, maxHookBytes)).Decode(&identity); err != nil {
		a.logger.Errorf("failed to decode registration payload: %v", err)
		httptypes.WriteError(w, apperrors.ErrInvalidInput, a.logger)
		return
	}

	profile, err := a.service.HandleRegistration(ctx, identity.ID, identity.Traits.Email)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, profile, nil)
}
