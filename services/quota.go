package services

import (
	"context"

	"github.com/George1161/the-legit-website/database"
	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
)

const (
	DefaultSubmissionLimit = 3
	DefaultEditLimit       = 3
)

// QuotaLedger decides whether an IP may submit another project and whether
// it may edit a given one.
type QuotaLedger struct {
	store           database.Store
	submissionLimit int
	editLimit       int
}

// NewQuotaLedger builds a ledger; non-positive limits fall back to the defaults.
func NewQuotaLedger(store database.Store, submissionLimit, editLimit int) QuotaLedger {
	if submissionLimit <= 0 {
		submissionLimit = DefaultSubmissionLimit
	}
	if editLimit <= 0 {
		editLimit = DefaultEditLimit
	}
	return QuotaLedger{store: store, submissionLimit: submissionLimit, editLimit: editLimit}
}

func (q QuotaLedger) SubmissionLimit() int { return q.submissionLimit }

func (q QuotaLedger) EditLimit() int { return q.editLimit }

// CanSubmit is advisory; the count is re-checked inside the create transaction.
func (q QuotaLedger) CanSubmit(ctx context.Context, ip string) (bool, error) {
	owned, err := q.store.CountProjectsByIP(ctx, ip)
	if err != nil {
		return false, err
	}
	return q.allowSubmission(owned) == nil, nil
}

func (q QuotaLedger) allowSubmission(owned int) error {
	if owned >= q.submissionLimit {
		return errs.NewQuotaExceededError()
	}
	return nil
}

// CanEdit checks ownership before the edit count, so a stranger is always
// told they are not the owner.
func (q QuotaLedger) CanEdit(project *models.Project, ip string) error {
	if project.CreatedByIP != ip {
		return errs.NewNotOwnerError()
	}
	if project.EditCount >= q.editLimit {
		return errs.NewEditLimitReachedError()
	}
	return nil
}

// RecordEdit must run in the same store transaction as the content change.
func (q QuotaLedger) RecordEdit(project *models.Project) {
	project.EditCount++
	project.Approved = false
}

func (q QuotaLedger) SubmissionsRemaining(owned int) int {
	return max(0, q.submissionLimit-owned)
}

func (q QuotaLedger) EditsRemaining(project *models.Project) int {
	return max(0, q.editLimit-project.EditCount)
}
