package database

import (
	"context"
	"sort"
	"sync"

	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
)

type voteKey struct {
	projectID uuid.UUID
	ip        string
}

// MemoryStore keeps projects and votes in process memory. A single mutex
// makes every operation atomic. Contents are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
	votes    map[voteKey]struct{}
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[uuid.UUID]*models.Project),
		votes:    make(map[voteKey]struct{}),
	}
}

func clone(p *models.Project) *models.Project {
	c := *p
	if p.Image != nil {
		image := *p.Image
		c.Image = &image
	}
	c.VoteRecords = nil
	return &c
}

func (s *MemoryStore) CreateProject(_ context.Context, project *models.Project, allow func(owned int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := allow(s.countByIP(project.CreatedByIP)); err != nil {
		return err
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if _, exists := s.projects[project.ID]; exists {
		return errs.NewAlreadyExists("project")
	}
	s.projects[project.ID] = clone(project)
	return nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, id uuid.UUID, mutate func(project *models.Project) error) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}

	working := clone(current)
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID, working.CreatedByIP, working.CreatedAt = current.ID, current.CreatedByIP, current.CreatedAt
	s.projects[id] = working
	return clone(working), nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	delete(s.projects, id)
	s.deleteVotes(id)
	return clone(project), nil
}

func (s *MemoryStore) FindProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	return clone(project), nil
}

func (s *MemoryStore) ListProjects(_ context.Context, filter ProjectFilter) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]*models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		if filter.Approved != nil && project.Approved != *filter.Approved {
			continue
		}
		if filter.CreatedByIP != "" && project.CreatedByIP != filter.CreatedByIP {
			continue
		}
		projects = append(projects, clone(project))
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID.String() > projects[j].ID.String()
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *MemoryStore) CountProjectsByIP(_ context.Context, ip string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countByIP(ip), nil
}

func (s *MemoryStore) HasVote(_ context.Context, projectID uuid.UUID, ip string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.votes[voteKey{projectID, ip}]
	return ok, nil
}

func (s *MemoryStore) AddVote(_ context.Context, projectID uuid.UUID, ip string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	key := voteKey{projectID, ip}
	if _, voted := s.votes[key]; voted {
		return nil, errs.NewAlreadyVotedError()
	}
	s.votes[key] = struct{}{}
	project.Votes++
	return clone(project), nil
}

func (s *MemoryStore) ClearVotes(_ context.Context, projectID uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	s.deleteVotes(projectID)
	project.Votes = 0
	return clone(project), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) countByIP(ip string) int {
	n := 0
	for _, project := range s.projects {
		if project.CreatedByIP == ip {
			n++
		}
	}
	return n
}

func (s *MemoryStore) deleteVotes(projectID uuid.UUID) {
	for key := range s.votes {
		if key.projectID == projectID {
			delete(s.votes, key)
		}
	}
}
