package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/padelhq/club-manager/models"
	"github.com/padelhq/club-manager/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTx satisfies repositories.Tx without a database. The embedded
// SQLExecutor stays nil; fake repositories never touch it.
type fakeTx struct {
	repositories.SQLExecutor
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeTxBeginner struct {
	beginErr  error
	commitErr error
	txs       []*fakeTx
}

func (b *fakeTxBeginner) Begin(_ context.Context, _ *sql.TxOptions) (repositories.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	tx := &fakeTx{commitErr: b.commitErr}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func (b *fakeTxBeginner) lastTx() *fakeTx {
	if len(b.txs) == 0 {
		return nil
	}
	return b.txs[len(b.txs)-1]
}

type fakeMemberRepo struct {
	membersByPhone map[string]*models.Member
	candidates     []*models.Member
	findErr        error

	gotSkillLevel string
	gotExcludeID  int
	gotLimit      int
}

func (r *fakeMemberRepo) FindByPhone(_ context.Context, _ repositories.SQLExecutor, phone string) (*models.Member, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	member, ok := r.membersByPhone[phone]
	if !ok {
		return nil, repositories.ErrMemberNotFound
	}
	return member, nil
}

func (r *fakeMemberRepo) FindCandidates(_ context.Context, _ repositories.SQLExecutor, skillLevel string, excludeID, limit int) ([]*models.Member, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.gotSkillLevel = skillLevel
	r.gotExcludeID = excludeID
	r.gotLimit = limit
	return r.candidates, nil
}

func (r *fakeMemberRepo) ResolvePhones(_ context.Context, _ repositories.SQLExecutor, phones []string) ([]repositories.PhoneMatch, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	matches := make([]repositories.PhoneMatch, 0, len(phones))
	for _, phone := range phones {
		if member, ok := r.membersByPhone[phone]; ok {
			matches = append(matches, repositories.PhoneMatch{MemberID: member.ID, Phone: phone})
		}
	}
	return matches, nil
}

type fakeMatchRepo struct {
	createRequestErr    error
	createInvitationErr error
	updateErr           error

	nextRequestID int
	requests      []*models.MatchRequest
	invitations   []*models.MatchInvitation
	updates       []invitationUpdate
}

type invitationUpdate struct {
	requestID int
	phone     string
	status    models.InvitationStatus
}

func (r *fakeMatchRepo) CreateRequest(_ context.Context, _ repositories.SQLExecutor, request *models.MatchRequest) error {
	if r.createRequestErr != nil {
		return r.createRequestErr
	}
	r.nextRequestID++
	request.ID = r.nextRequestID
	request.Status = models.MatchRequestStatusPending
	r.requests = append(r.requests, request)
	return nil
}

func (r *fakeMatchRepo) GetRequestByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.MatchRequest, error) {
	for _, request := range r.requests {
		if request.ID == id {
			return request, nil
		}
	}
	return nil, repositories.ErrMatchRequestNotFound
}

func (r *fakeMatchRepo) CreateInvitation(_ context.Context, _ repositories.SQLExecutor, invitation *models.MatchInvitation) error {
	if r.createInvitationErr != nil {
		return r.createInvitationErr
	}
	invitation.ID = len(r.invitations) + 1
	invitation.Status = models.InvitationStatusPending
	r.invitations = append(r.invitations, invitation)
	return nil
}

func (r *fakeMatchRepo) UpdateInvitationStatusByPhone(_ context.Context, _ repositories.SQLExecutor, requestID int, phone string, status models.InvitationStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, invitationUpdate{requestID: requestID, phone: phone, status: status})
	return nil
}

func (r *fakeMatchRepo) ListInvitationsByRequest(_ context.Context, _ repositories.SQLExecutor, requestID int) ([]*models.MatchInvitation, error) {
	invitations := make([]*models.MatchInvitation, 0)
	for _, invitation := range r.invitations {
		if invitation.RequestID == requestID {
			invitations = append(invitations, invitation)
		}
	}
	return invitations, nil
}
