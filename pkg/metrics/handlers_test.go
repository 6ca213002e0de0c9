// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring/prometheus"
)

func TestMetrics(t *testing.T) {
	logger := logging.NewNoopLogger()

	monitor := prometheus.NewMonitor("assessment-service-test", logger)
	if err := monitor.IncSuppressedBuckets(map[string]string{"bucket_type": "department"}); err != nil {
		t.Fatalf("failed to increment counter: %v", err)
	}

	mux := chi.NewMux()
	NewAPI(logger).RegisterEndpoints(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected HTTP status code 200 got %v", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(data), "aggregate_buckets_suppressed_total") {
		t.Errorf("expected suppression counter in scrape output")
	}
}
