// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime      *prometheus.HistogramVec
	dependencies      *prometheus.GaugeVec
	suppressedBuckets *prometheus.CounterVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	if m.responseTime == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.responseTime.With(tags).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	if m.dependencies == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.dependencies.With(tags).Set(value)

	return nil
}

// IncSuppressedBuckets counts withheld statistics per bucket type, it carries
// no tenant or assessment label
func (m *Monitor) IncSuppressedBuckets(tags map[string]string) error {
	if m.suppressedBuckets == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.suppressedBuckets.With(tags).Inc()

	return nil
}

func (m *Monitor) registerHistograms() {
	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "http_response_time_seconds",
		},
		[]string{"route", "status"},
	)

	if err := prometheus.Register(m.responseTime); err != nil {
		m.logger.Debugf("metric already registered: %s", err)
	}
}

func (m *Monitor) registerGauges() {
	m.dependencies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_available",
			Help: "dependency_available",
		},
		[]string{"component"},
	)

	if err := prometheus.Register(m.dependencies); err != nil {
		m.logger.Debugf("metric already registered: %s", err)
	}
}

func (m *Monitor) registerCounters() {
	m.suppressedBuckets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_buckets_suppressed_total",
			Help: "aggregate_buckets_suppressed_total",
		},
		[]string{"bucket_type"},
	)

	if err := prometheus.Register(m.suppressedBuckets); err != nil {
		m.logger.Debugf("metric already registered: %s", err)
	}
}

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.registerHistograms()
	m.registerGauges()
	m.registerCounters()

	return m
}
