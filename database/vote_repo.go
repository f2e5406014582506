package database

import (
	"errors"

	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type VoteRepo struct {
	db *gorm.DB
}

func NewVoteRepo(db *gorm.DB) *VoteRepo {
	return &VoteRepo{db}
}

// Exists reports whether ip already voted for the project
func (r *VoteRepo) Exists(projectID uuid.UUID, ip string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("project_id = ? AND ip = ?", projectID, ip).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a vote record. The unique index on (project_id, ip) rejects
// repeats with a unique constraint violation.
func (r *VoteRepo) Add(vote *models.Vote) error {
	err := r.db.Create(vote).Error
	if isUniqueViolation(err) {
		return errs.NewUniqueConstraintViolationError("vote", "ip", err)
	}
	return err
}

// DeleteByProject removes every vote record of a project
func (r *VoteRepo) DeleteByProject(projectID uuid.UUID) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.Vote{}).Error
}

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
