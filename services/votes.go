package services

import (
	"context"

	"github.com/George1161/the-legit-website/database"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
)

// VoteLedger enforces one vote per (project, IP). Uniqueness is left to the
// store so two concurrent votes cannot both succeed.
type VoteLedger struct {
	store database.Store
}

func NewVoteLedger(store database.Store) VoteLedger {
	return VoteLedger{store: store}
}

func (v VoteLedger) HasVoted(ctx context.Context, projectID uuid.UUID, ip string) (bool, error) {
	return v.store.HasVote(ctx, projectID, ip)
}

// RecordVote fails with errs.ErrAlreadyVoted, leaving the counter untouched,
// when ip has voted for the project before.
func (v VoteLedger) RecordVote(ctx context.Context, projectID uuid.UUID, ip string) (*models.Project, error) {
	return v.store.AddVote(ctx, projectID, ip)
}

func (v VoteLedger) ClearVotes(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	return v.store.ClearVotes(ctx, projectID)
}
