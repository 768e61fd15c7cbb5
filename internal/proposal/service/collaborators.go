package service

import (
	"context"

	"bankeu/pkg/domain"
	"bankeu/pkg/platform/audit"
)

// ChannelGate reports whether a district's submission channel to dpmd is
// administratively open.
type ChannelGate interface {
	IsOpen(ctx context.Context, district domain.DistrictID) (bool, error)
	SetOpen(ctx context.Context, district domain.DistrictID, open bool) error
}

// CoverLetters reads the flag written by the external cover-letter generator.
type CoverLetters interface {
	HasCoverLetter(ctx context.Context, village domain.VillageID) (bool, error)
}

// EventPublisher writes workflow events into the caller's transaction.
type EventPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
