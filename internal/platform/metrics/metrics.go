// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics collects and exposes Prometheus counters for the panel.

Four families are tracked:

  - Guard decisions, by capability and outcome.
  - Moderation transitions, by action and outcome (changed, noop, failed).
  - Identity failures, by closed reason code.
  - Article writes, by operation and status.

Services depend on the [Recorder] interface; [Nop] is used in tests and tools.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "safecampus_panel"

// Recorder is the write side of the panel metrics.
type Recorder interface {
	RecordGuardDecision(capability, outcome string)
	RecordModeration(action, outcome string)
	RecordIdentityFailure(reason string)
	RecordArticleWrite(operation, status string)
}

// Collector is the Prometheus implementation of [Recorder].
type Collector struct {
	guardDecisions   *prometheus.CounterVec
	moderation       *prometheus.CounterVec
	identityFailures *prometheus.CounterVec
	articleWrites    *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its counters on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Access guard decisions by capability and outcome.",
		}, []string{"capability", "outcome"}),
		moderation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_transitions_total",
			Help:      "Moderation actions by action and outcome.",
		}, []string{"action", "outcome"}),
		identityFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_failures_total",
			Help:      "Rejected sign-ups and sign-ins by reason.",
		}, []string{"reason"}),
		articleWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_writes_total",
			Help:      "Article writes by operation and status.",
		}, []string{"operation", "status"}),
	}

	reg.MustRegister(c.guardDecisions, c.moderation, c.identityFailures, c.articleWrites)
	return c
}

// RecordGuardDecision counts one guard evaluation.
func (c *Collector) RecordGuardDecision(capability, outcome string) {
	c.guardDecisions.WithLabelValues(capability, outcome).Inc()
}

// RecordModeration counts one moderation action.
func (c *Collector) RecordModeration(action, outcome string) {
	c.moderation.WithLabelValues(action, outcome).Inc()
}

// RecordIdentityFailure counts one rejected identity call.
func (c *Collector) RecordIdentityFailure(reason string) {
	c.identityFailures.WithLabelValues(reason).Inc()
}

// RecordArticleWrite counts one article create, rewrite or delete.
func (c *Collector) RecordArticleWrite(operation, status string) {
	c.articleWrites.WithLabelValues(operation, status).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordGuardDecision(string, string) {}
func (Nop) RecordModeration(string, string)    {}
func (Nop) RecordIdentityFailure(string)       {}
func (Nop) RecordArticleWrite(string, string)  {}
