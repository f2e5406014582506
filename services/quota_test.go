package services

import (
	"context"
	"testing"
	"time"

	"github.com/George1161/the-legit-website/database"
	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuotaLedgerDefaults(t *testing.T) {
	q := NewQuotaLedger(database.NewMemoryStore(), 0, -1)
	assert.Equal(t, DefaultSubmissionLimit, q.SubmissionLimit())
	assert.Equal(t, DefaultEditLimit, q.EditLimit())

	q = NewQuotaLedger(database.NewMemoryStore(), 5, 1)
	assert.Equal(t, 5, q.SubmissionLimit())
	assert.Equal(t, 1, q.EditLimit())
}

func TestQuotaLedgerCanSubmit(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	q := NewQuotaLedger(store, 2, 3)

	for i := range 3 {
		allowed, err := q.CanSubmit(ctx, "1.1.1.1")
		require.NoError(t, err)
		if i < 2 {
			assert.True(t, allowed)
			require.NoError(t, store.CreateProject(ctx, &models.Project{
				ID:          uuid.New(),
				CreatedByIP: "1.1.1.1",
				CreatedAt:   time.Now(),
			}, q.allowSubmission))
		} else {
			assert.False(t, allowed)
		}
	}

	allowed, err := q.CanSubmit(ctx, "2.2.2.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestQuotaLedgerCanEdit(t *testing.T) {
	q := NewQuotaLedger(database.NewMemoryStore(), 3, 3)
	project := &models.Project{CreatedByIP: "1.1.1.1"}

	assert.NoError(t, q.CanEdit(project, "1.1.1.1"))
	assert.True(t, errs.IsNotOwner(q.CanEdit(project, "2.2.2.2")))

	project.EditCount = 3
	assert.True(t, errs.IsEditLimitReached(q.CanEdit(project, "1.1.1.1")))
	// ownership is reported before the limit
	assert.True(t, errs.IsNotOwner(q.CanEdit(project, "2.2.2.2")))
}

func TestQuotaLedgerRecordEdit(t *testing.T) {
	q := NewQuotaLedger(database.NewMemoryStore(), 3, 3)
	project := &models.Project{Approved: true, EditCount: 1}

	q.RecordEdit(project)

	assert.Equal(t, 2, project.EditCount)
	assert.False(t, project.Approved)
	assert.Equal(t, 1, q.EditsRemaining(project))
}

func TestQuotaLedgerRemainingNeverNegative(t *testing.T) {
	q := NewQuotaLedger(database.NewMemoryStore(), 3, 3)

	assert.Equal(t, 3, q.SubmissionsRemaining(0))
	assert.Equal(t, 0, q.SubmissionsRemaining(5))
	assert.Equal(t, 0, q.EditsRemaining(&models.Project{EditCount: 4}))
}
