package audit

import (
	"context"
	"time"

	"bankeu/pkg/domain"
)

// EventType names a workflow fact. Values are stable: they become Kafka
// record headers and the notifier routes on them.
type EventType string

const (
	EventProposalCreated   EventType = "proposal_created"
	EventProposalSubmitted EventType = "proposal_submitted"

	EventDinasApproved EventType = "dinas_approved"
	EventDinasRejected EventType = "dinas_rejected"

	EventKecamatanApproved EventType = "kecamatan_approved"
	EventKecamatanRejected EventType = "kecamatan_rejected"
	EventKecamatanRevision EventType = "kecamatan_revision_requested"
	EventReviewSubmitted   EventType = "kecamatan_review_submitted"
	EventReviewReturned    EventType = "kecamatan_review_returned"

	EventDPMDApproved EventType = "dpmd_approved"
	EventDPMDRejected EventType = "dpmd_rejected"

	EventCertificateIssued EventType = "certificate_issued"

	EventRosterUpdated          EventType = "roster_updated"
	EventQuestionnaireSubmitted EventType = "questionnaire_submitted"
)

// Event is emitted from domain services to capture a workflow action.
// It is transport-agnostic; the outbox relay serializes it for Kafka.
type Event struct {
	Type       EventType
	Timestamp  time.Time
	ActorID    domain.UserID
	ProposalID domain.ProposalID
	VillageID  domain.VillageID
	DistrictID domain.DistrictID
	From       string
	To         string
	Notes      string
	// Code is the certificate code for issuance events.
	Code string
	// Affected counts rows touched by bulk operations.
	Affected  int
	RequestID string
}

// AggregateKey partitions events so that everything about one village lands
// on the same Kafka partition, preserving per-village ordering. Roster
// events carry no village and are keyed by district.
func (e Event) AggregateKey() string {
	if e.VillageID.IsZero() {
		return "district:" + e.DistrictID.String()
	}
	return "village:" + e.VillageID.String()
}

// Store persists events. Postgres implementations write to the outbox table
// using the transaction in ctx, so an event commits or rolls back together
// with the state change it describes.
type Store interface {
	Append(ctx context.Context, event Event) error
}
