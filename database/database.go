package database

import (
	"context"
	"errors"

	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the persistence boundary used by the services. Every method is a
// single logical transaction: it either applies all of its effects or none.
type Store interface {
	// CreateProject counts the projects already owned by project.CreatedByIP,
	// passes the count to allow and inserts the project only if allow returns
	// nil. Concurrent creates for the same IP are serialized.
	CreateProject(ctx context.Context, project *models.Project, allow func(owned int) error) error
	// UpdateProject locks the project, runs mutate on it and persists the
	// result. Nothing is written when mutate fails.
	UpdateProject(ctx context.Context, id uuid.UUID, mutate func(project *models.Project) error) (*models.Project, error)
	// DeleteProject removes the project and its vote records.
	DeleteProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// ListProjects returns matching projects, newest first.
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*models.Project, error)
	CountProjectsByIP(ctx context.Context, ip string) (int, error)

	HasVote(ctx context.Context, projectID uuid.UUID, ip string) (bool, error)
	// AddVote records the (project, ip) pair and increments the counter.
	// A second vote for the same pair fails with errs.ErrAlreadyVoted.
	AddVote(ctx context.Context, projectID uuid.UUID, ip string) (*models.Project, error)
	// ClearVotes zeroes the counter and deletes every vote record of the project.
	ClearVotes(ctx context.Context, projectID uuid.UUID) (*models.Project, error)

	Ping(ctx context.Context) error
	Close() error
}

// ProjectFilter narrows ListProjects. Zero values match everything.
type ProjectFilter struct {
	Approved    *bool
	CreatedByIP string
}

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
	voteRepo    *VoteRepo
}

var _ Store = Database{}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
		voteRepo:    NewVoteRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) VoteRepo() *VoteRepo {
	return d.voteRepo
}

// Migrate creates or updates the projects and votes tables.
func (d Database) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&models.Project{}, &models.Vote{}); err != nil {
		return errs.NewStorageError("migrate", "schema", err)
	}
	return nil
}

// inTx runs fn with repositories bound to one transaction. Errors returned by
// fn come back as they are; a failure to begin or commit is reported as a
// failed transaction.
func (d Database) inTx(ctx context.Context, operation string, fn func(projects *ProjectRepo, votes *VoteRepo) error) error {
	var fnErr error
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewProjectRepo(tx), NewVoteRepo(tx))
		return fnErr
	})
	return txError(operation, fnErr, err)
}

func txError(operation string, fnErr, txErr error) error {
	if txErr == nil || fnErr != nil {
		return txErr
	}
	return errs.NewTransactionFailedError(operation, txErr)
}

func (d Database) CreateProject(ctx context.Context, project *models.Project, allow func(owned int) error) error {
	err := d.inTx(ctx, "create project", func(projects *ProjectRepo, _ *VoteRepo) error {
		if err := projects.LockOwner(project.CreatedByIP); err != nil {
			return err
		}
		owned, err := projects.CountByIP(project.CreatedByIP)
		if err != nil {
			return err
		}
		if err := allow(int(owned)); err != nil {
			return err
		}
		return projects.Add(project)
	})
	return mapError("create", "project", err)
}

func (d Database) UpdateProject(ctx context.Context, id uuid.UUID, mutate func(project *models.Project) error) (*models.Project, error) {
	var updated *models.Project
	err := d.inTx(ctx, "update project", func(projects *ProjectRepo, _ *VoteRepo) error {
		project, err := projects.FindByIDForUpdate(id)
		if err != nil {
			return err
		}
		createdByIP, createdAt := project.CreatedByIP, project.CreatedAt
		if err := mutate(project); err != nil {
			return err
		}
		// identity and provenance are immutable
		project.ID, project.CreatedByIP, project.CreatedAt = id, createdByIP, createdAt
		if err := projects.Update(project); err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, mapError("update", "project", err)
	}
	return updated, nil
}

func (d Database) DeleteProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var deleted *models.Project
	err := d.inTx(ctx, "delete project", func(projects *ProjectRepo, votes *VoteRepo) error {
		project, err := projects.FindByIDForUpdate(id)
		if err != nil {
			return err
		}
		if err := votes.DeleteByProject(id); err != nil {
			return err
		}
		if err := projects.Delete(id); err != nil {
			return err
		}
		deleted = project
		return nil
	})
	if err != nil {
		return nil, mapError("delete", "project", err)
	}
	return deleted, nil
}

func (d Database) FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := NewProjectRepo(d.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, mapError("find", "project", err)
	}
	return project, nil
}

func (d Database) ListProjects(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	projects, err := NewProjectRepo(d.db.WithContext(ctx)).FindAll(filter)
	if err != nil {
		return nil, mapError("list", "projects", err)
	}
	return projects, nil
}

func (d Database) CountProjectsByIP(ctx context.Context, ip string) (int, error) {
	n, err := NewProjectRepo(d.db.WithContext(ctx)).CountByIP(ip)
	if err != nil {
		return 0, mapError("count", "projects", err)
	}
	return int(n), nil
}

func (d Database) HasVote(ctx context.Context, projectID uuid.UUID, ip string) (bool, error) {
	ok, err := NewVoteRepo(d.db.WithContext(ctx)).Exists(projectID, ip)
	if err != nil {
		return false, mapError("find", "vote", err)
	}
	return ok, nil
}

func (d Database) AddVote(ctx context.Context, projectID uuid.UUID, ip string) (*models.Project, error) {
	var voted *models.Project
	err := d.inTx(ctx, "add vote", func(projects *ProjectRepo, votes *VoteRepo) error {
		if _, err := projects.FindByIDForUpdate(projectID); err != nil {
			return err
		}
		if err := votes.Add(&models.Vote{ID: uuid.New(), ProjectID: projectID, IP: ip}); err != nil {
			if errs.IsUniqueConstraintViolationError(err) {
				return errs.NewAlreadyVotedError()
			}
			return err
		}
		if err := projects.IncrementVotes(projectID); err != nil {
			return err
		}
		project, err := projects.FindByID(projectID)
		if err != nil {
			return err
		}
		voted = project
		return nil
	})
	if err != nil {
		return nil, mapError("add", "vote", err)
	}
	return voted, nil
}

func (d Database) ClearVotes(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var cleared *models.Project
	err := d.inTx(ctx, "clear votes", func(projects *ProjectRepo, votes *VoteRepo) error {
		project, err := projects.FindByIDForUpdate(projectID)
		if err != nil {
			return err
		}
		if err := votes.DeleteByProject(projectID); err != nil {
			return err
		}
		if err := projects.ResetVotes(projectID); err != nil {
			return err
		}
		project.Votes = 0
		cleared = project
		return nil
	})
	if err != nil {
		return nil, mapError("clear", "votes", err)
	}
	return cleared, nil
}

func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mapError leaves ApiErrs raised inside a transaction untouched and turns
// everything else into a not-found or storage error.
func mapError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFound("project")
	}
	return errs.NewStorageError(operation, entity, err)
}
