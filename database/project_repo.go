package database

import (
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns the projects matching filter, newest first
func (r *ProjectRepo) FindAll(filter ProjectFilter) ([]*models.Project, error) {
	query := r.db.Model(&models.Project{})
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}
	if filter.CreatedByIP != "" {
		query = query.Where("created_by_ip = ?", filter.CreatedByIP)
	}

	var projects []*models.Project
	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDForUpdate returns a project by its ID and row-locks it until the
// surrounding transaction ends
func (r *ProjectRepo) FindByIDForUpdate(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CountByIP returns how many projects were created from ip
func (r *ProjectRepo) CountByIP(ip string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("created_by_ip = ?", ip).Count(&count).Error
	return count, err
}

// LockOwner takes a transaction scoped advisory lock keyed by the creating IP,
// serializing count-then-insert for that IP
func (r *ProjectRepo) LockOwner(ip string) error {
	return r.db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", ip).Error
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// IncrementVotes adds one to the vote counter
func (r *ProjectRepo) IncrementVotes(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1)).Error
}

// ResetVotes sets the vote counter back to zero
func (r *ProjectRepo) ResetVotes(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		UpdateColumn("votes", 0).Error
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}
