package models

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
)

var now = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func newProposal(t *testing.T) *Proposal {
	t.Helper()
	p, err := NewProposal(3, 2, 4, 150_000_000, " Rehab jalan desa ", 11, now)
	require.NoError(t, err)
	p.ID = 1
	return p
}

func TestNewProposal(t *testing.T) {
	p := newProposal(t)
	assert.Equal(t, "Rehab jalan desa", p.Description)
	assert.Equal(t, State{}, p.State)
	assert.NoError(t, p.State.Validate())

	_, err := NewProposal(3, 2, 4, 0, "", 11, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewProposal(0, 2, 4, 10, "", 11, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestDinasDecision(t *testing.T) {
	t.Run("reject then approve", func(t *testing.T) {
		p := newProposal(t)
		require.NoError(t, p.CanDinasDecide(DinasReject))
		p.ApplyDinasDecision(DinasReject, 5, "lengkapi RAB", now)
		assert.Equal(t, DinasRejected, p.Dinas)
		assert.Equal(t, "lengkapi RAB", p.DinasReview.Notes)

		err := p.CanDinasDecide(DinasReject)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))

		require.NoError(t, p.CanDinasDecide(DinasApprove))
		p.ApplyDinasDecision(DinasApprove, 5, "", now)
		assert.Equal(t, DinasApproved, p.Dinas)
	})

	t.Run("approval is final", func(t *testing.T) {
		p := newProposal(t)
		p.ApplyDinasDecision(DinasApprove, 5, "", now)
		assert.Error(t, p.CanDinasDecide(DinasReject))
	})

	t.Run("not after submission", func(t *testing.T) {
		p := newProposal(t)
		p.Dinas = DinasRejected
		p.SubmittedToKecamatan = true
		err := p.CanDinasDecide(DinasApprove)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "submitted_to_kecamatan=true")
		assert.Contains(t, err.Error(), "dinas approve")
	})
}

func TestKecamatanRollback(t *testing.T) {
	p := newProposal(t)
	p.ApplyDinasDecision(DinasApprove, 5, "", now)
	require.NoError(t, p.CanSubmitToKecamatan())
	p.ApplySubmitToKecamatan(now)

	require.NoError(t, p.CanKecamatanDecide(KecamatanRevision))
	p.ApplyKecamatanDecision(KecamatanRevision, 9, "perbaiki RAB", now)

	assert.Equal(t, KecamatanRevisionRequested, p.Kecamatan)
	assert.False(t, p.SubmittedToKecamatan)
	assert.NoError(t, p.State.Validate())

	err := p.CanKecamatanDecide(KecamatanRevision)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	assert.Contains(t, err.Error(), "kecamatan=revision-requested")

	require.NoError(t, p.CanSubmitToKecamatan())
	p.ApplySubmitToKecamatan(now)
	assert.Equal(t, KecamatanUnset, p.Kecamatan)
	assert.Empty(t, p.KecamatanReview.Notes)
	assert.NoError(t, p.CanKecamatanDecide(KecamatanApprove))
}

func TestKecamatanApproveDoesNotForward(t *testing.T) {
	p := newProposal(t)
	p.ApplyDinasDecision(DinasApprove, 5, "", now)
	p.ApplySubmitToKecamatan(now)
	p.ApplyKecamatanDecision(KecamatanApprove, 9, "", now)

	assert.True(t, p.SubmittedToKecamatan)
	assert.False(t, p.SubmittedToDPMD)
	assert.Equal(t, DPMDUnset, p.DPMD)
	assert.Error(t, p.CanKecamatanDecide(KecamatanReject))
}

func TestForwardBlockers(t *testing.T) {
	p := newProposal(t)
	p.ApplyDinasDecision(DinasApprove, 5, "", now)
	p.ApplySubmitToKecamatan(now)

	blockers := p.ForwardBlockers()
	assert.Equal(t, []string{
		"proposal 1: kecamatan decision is unset",
		"proposal 1: certificate not issued",
	}, blockers)

	p.ApplyKecamatanDecision(KecamatanApprove, 9, "", now)
	p.Certificate = CertificateLink{Code: "BA-2-1-1-ABCDEF01"}
	assert.Empty(t, p.ForwardBlockers())

	p.ApplyForwardToDPMD(now)
	assert.Equal(t, DPMDPending, p.DPMD)
	require.NoError(t, p.CanDPMDDecide(DPMDApprove))
	p.ApplyDPMDDecision(DPMDApprove, 20, "", now)
	assert.Error(t, p.CanDPMDDecide(DPMDReject))
}

func TestDPMDRequiresForwarding(t *testing.T) {
	p := newProposal(t)
	err := p.CanDPMDDecide(DPMDApprove)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func TestClone(t *testing.T) {
	p := newProposal(t)
	p.ApplyDinasDecision(DinasApprove, 5, "", now)
	cp := p.Clone()
	*cp.DinasReview.ReviewedAt = now.Add(time.Hour)
	cp.Dinas = DinasRejected

	assert.Equal(t, now, *p.DinasReview.ReviewedAt)
	assert.Equal(t, DinasApproved, p.Dinas)
}

// TestInvariantHoldsUnderRandomOperations drives random guarded operations
// and checks the stage invariants after every applied step.
func TestInvariantHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	ops := []func(p *Proposal){
		func(p *Proposal) {
			a := []DinasAction{DinasApprove, DinasReject}[rng.IntN(2)]
			if p.CanDinasDecide(a) == nil {
				p.ApplyDinasDecision(a, 1, "", now)
			}
		},
		func(p *Proposal) {
			if p.CanSubmitToKecamatan() == nil {
				p.ApplySubmitToKecamatan(now)
			}
		},
		func(p *Proposal) {
			a := []KecamatanAction{KecamatanApprove, KecamatanReject, KecamatanRevision}[rng.IntN(3)]
			if p.CanKecamatanDecide(a) == nil {
				p.ApplyKecamatanDecision(a, 2, "", now)
			}
		},
		func(p *Proposal) {
			p.Certificate.Code = "BA-X"
			if p.AwaitingKecamatanReview() && len(p.ForwardBlockers()) == 0 {
				p.ApplyForwardToDPMD(now)
			}
		},
		func(p *Proposal) {
			if p.AwaitingKecamatanReview() {
				p.ApplyReturnToVillage(now)
			}
		},
		func(p *Proposal) {
			a := []DPMDAction{DPMDApprove, DPMDReject}[rng.IntN(2)]
			if p.CanDPMDDecide(a) == nil {
				p.ApplyDPMDDecision(a, 3, "", now)
			}
		},
	}

	for run := 0; run < 200; run++ {
		p := &Proposal{ID: domain.ProposalID(run + 1)}
		for step := 0; step < 40; step++ {
			ops[rng.IntN(len(ops))](p)
			require.NoError(t, p.State.Validate(), "run %d step %d: %s", run, step, p.State)
		}
	}
}

func TestParseEnums(t *testing.T) {
	_, err := ParseKecamatanDecision("revision")
	assert.Error(t, err)
	d, err := ParseKecamatanDecision("revision-requested")
	require.NoError(t, err)
	assert.True(t, d.Returned())

	_, err = ParseKecamatanAction("approved")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	a, err := ParseReviewAction("return")
	require.NoError(t, err)
	assert.Equal(t, ReviewReturn, a)

	assert.Equal(t, "unset", DPMDUnset.String())
	assert.Equal(t, "pending", DPMDPending.String())
}
