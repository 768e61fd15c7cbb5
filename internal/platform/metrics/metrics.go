package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the workflow counters shared by the services.
type Metrics struct {
	Transitions         *prometheus.CounterVec
	TransitionConflicts *prometheus.CounterVec
	CertificatesIssued  prometheus.Counter
	IssueDuration       prometheus.Histogram
	Verifications       *prometheus.CounterVec
	QuestionnairesSaved prometheus.Counter
}

// New registers the workflow metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankeu_proposal_transitions_total",
			Help: "Committed proposal state transitions by stage and action.",
		}, []string{"stage", "action"}),
		TransitionConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankeu_proposal_transition_conflicts_total",
			Help: "Transitions that lost a concurrent update.",
		}, []string{"stage"}),
		CertificatesIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "bankeu_certificates_issued_total",
			Help: "Verification certificates recorded in the history ledger.",
		}),
		IssueDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankeu_certificate_issue_duration_seconds",
			Help:    "Time spent finalizing and recording a certificate.",
			Buckets: prometheus.DefBuckets,
		}),
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankeu_certificate_verifications_total",
			Help: "Public verification lookups by outcome.",
		}, []string{"outcome"}),
		QuestionnairesSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "bankeu_questionnaires_saved_total",
			Help: "Questionnaire submissions created or replaced.",
		}),
	}
}

// IncrementTransition counts a committed transition.
func (m *Metrics) IncrementTransition(stage, action string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(stage, action).Inc()
}

// IncrementConflict counts a lost race.
func (m *Metrics) IncrementConflict(stage string) {
	if m == nil {
		return
	}
	m.TransitionConflicts.WithLabelValues(stage).Inc()
}

// ObserveIssue records one successful issuance.
func (m *Metrics) ObserveIssue(seconds float64) {
	if m == nil {
		return
	}
	m.CertificatesIssued.Inc()
	m.IssueDuration.Observe(seconds)
}

// IncrementVerification counts a lookup; outcome is "valid" or "invalid".
func (m *Metrics) IncrementVerification(outcome string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
}

// IncrementQuestionnaire counts a saved submission.
func (m *Metrics) IncrementQuestionnaire() {
	if m == nil {
		return
	}
	m.QuestionnairesSaved.Inc()
}
