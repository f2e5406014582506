package services

import (
	"context"
	"strings"
	"time"

	"github.com/George1161/the-legit-website/database"
	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SubmissionInput is a create or edit request after transport decoding.
type SubmissionInput struct {
	Fields models.Fields
	Image  *ImageUpload
	IP     string
}

// ProjectEditInfo describes the edits left on one of the caller's projects.
type ProjectEditInfo struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	EditCount      int       `json:"editCount"`
	EditsRemaining int       `json:"editsRemaining"`
}

// UserLimits is the caller's remaining quota.
type UserLimits struct {
	SubmissionsRemaining int               `json:"submissionsRemaining"`
	TotalSubmissions     int               `json:"totalSubmissions"`
	ProjectEditInfo      []ProjectEditInfo `json:"projectEditInfo"`
}

// ProjectService owns the project lifecycle: submit, edit, moderate, vote.
type ProjectService struct {
	store    database.Store
	quota    QuotaLedger
	votes    VoteLedger
	images   ImageStore
	notifier Notifier
	now      func() time.Time
	logger   zerolog.Logger
}

type ProjectServiceOption func(*ProjectService)

func WithLimits(submissionLimit, editLimit int) ProjectServiceOption {
	return func(s *ProjectService) {
		s.quota = NewQuotaLedger(s.store, submissionLimit, editLimit)
	}
}

func WithImageStore(images ImageStore) ProjectServiceOption {
	return func(s *ProjectService) {
		s.images = images
	}
}

func WithNotifier(notifier Notifier) ProjectServiceOption {
	return func(s *ProjectService) {
		s.notifier = notifier
	}
}

func WithClock(now func() time.Time) ProjectServiceOption {
	return func(s *ProjectService) {
		s.now = now
	}
}

func NewProjectService(store database.Store, opts ...ProjectServiceOption) *ProjectService {
	s := &ProjectService{
		store:  store,
		quota:  NewQuotaLedger(store, DefaultSubmissionLimit, DefaultEditLimit),
		votes:  NewVoteLedger(store),
		now:    time.Now,
		logger: log.With().Str("service", "projects").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ProjectService) Quota() QuotaLedger { return s.quota }

func (s *ProjectService) Votes() VoteLedger { return s.votes }

// validate trims the fields, applies the legacy description fallback and
// rejects empty required content.
func validate(fields models.Fields) (title, short, full, social string, err error) {
	trimmed := models.Fields{
		Title:            strings.TrimSpace(fields.Title),
		ShortDescription: strings.TrimSpace(fields.ShortDescription),
		FullDescription:  strings.TrimSpace(fields.FullDescription),
		Social:           strings.TrimSpace(fields.Social),
		Description:      strings.TrimSpace(fields.Description),
	}
	title, short, full = trimmed.Resolve()
	if title == "" || short == "" || full == "" {
		return "", "", "", "", errs.NewMissingFieldsError()
	}
	return title, short, full, trimmed.Social, nil
}

func (s *ProjectService) uploadImage(ctx context.Context, image *ImageUpload) (*string, error) {
	if image == nil {
		return nil, nil
	}
	if s.images == nil {
		return nil, errs.NewImageUploadDisabledError()
	}
	url, err := s.images.Upload(ctx, *image)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// Create submits a new, unapproved project on behalf of in.IP.
func (s *ProjectService) Create(ctx context.Context, in SubmissionInput) (*models.Project, error) {
	allowed, err := s.quota.CanSubmit(ctx, in.IP)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errs.NewQuotaExceededError()
	}

	title, short, full, social, err := validate(in.Fields)
	if err != nil {
		return nil, err
	}

	image, err := s.uploadImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:               uuid.New(),
		Title:            title,
		ShortDescription: short,
		FullDescription:  full,
		Social:           social,
		Image:            image,
		CreatedByIP:      in.IP,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.CreateProject(ctx, project, s.quota.allowSubmission); err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID.String()).Str("ip", in.IP).Msg("Project submitted")
	s.notify(*project)
	return project, nil
}

func (s *ProjectService) notify(project models.Project) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifySubmission(ctx, project); err != nil {
			s.logger.Warn().Err(err).Str("projectID", project.ID.String()).Msg("Failed to send submission notification")
		}
	}()
}

// Edit replaces the content of a project owned by in.IP, counts the edit and
// sends the project back to review.
func (s *ProjectService) Edit(ctx context.Context, id uuid.UUID, in SubmissionInput) (*models.Project, error) {
	existing, err := s.store.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.quota.CanEdit(existing, in.IP); err != nil {
		return nil, err
	}

	title, short, full, social, err := validate(in.Fields)
	if err != nil {
		return nil, err
	}

	image, err := s.uploadImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateProject(ctx, id, func(project *models.Project) error {
		// re-checked under the row lock
		if err := s.quota.CanEdit(project, in.IP); err != nil {
			return err
		}
		project.Title = title
		project.ShortDescription = short
		project.FullDescription = full
		project.Social = social
		if image != nil {
			project.Image = image
		}
		s.quota.RecordEdit(project)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", id.String()).Int("editCount", updated.EditCount).Msg("Project edited")
	return updated, nil
}

// Approve marks the project as publicly listed without re-validating it.
func (s *ProjectService) Approve(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.store.UpdateProject(ctx, id, func(project *models.Project) error {
		project.Approved = true
		return nil
	})
}

// Nominate toggles the featured flag.
func (s *ProjectService) Nominate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.store.UpdateProject(ctx, id, func(project *models.Project) error {
		project.Nominated = !project.Nominated
		return nil
	})
}

// Delete removes the project and its votes for good.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("projectID", id.String()).Msg("Project deleted")
	return project, nil
}

// Reject is the moderation name for Delete.
func (s *ProjectService) Reject(ctx context.Context, id uuid.UUID) error {
	_, err := s.Delete(ctx, id)
	return err
}

func (s *ProjectService) Vote(ctx context.Context, id uuid.UUID, ip string) (*models.Project, error) {
	return s.votes.RecordVote(ctx, id, ip)
}

func (s *ProjectService) ClearVotes(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.votes.ClearVotes(ctx, id)
}

func (s *ProjectService) ListApproved(ctx context.Context) ([]*models.Project, error) {
	approved := true
	return s.store.ListProjects(ctx, database.ProjectFilter{Approved: &approved})
}

// ListAll is the admin view: approved and unapproved projects.
func (s *ProjectService) ListAll(ctx context.Context) ([]*models.Project, error) {
	return s.store.ListProjects(ctx, database.ProjectFilter{})
}

func (s *ProjectService) UserLimits(ctx context.Context, ip string) (UserLimits, error) {
	owned, err := s.store.ListProjects(ctx, database.ProjectFilter{CreatedByIP: ip})
	if err != nil {
		return UserLimits{}, err
	}

	limits := UserLimits{
		SubmissionsRemaining: s.quota.SubmissionsRemaining(len(owned)),
		TotalSubmissions:     len(owned),
		ProjectEditInfo:      make([]ProjectEditInfo, 0, len(owned)),
	}
	for _, project := range owned {
		limits.ProjectEditInfo = append(limits.ProjectEditInfo, ProjectEditInfo{
			ID:             project.ID,
			Title:          project.Title,
			EditCount:      project.EditCount,
			EditsRemaining: s.quota.EditsRemaining(project),
		})
	}
	return limits, nil
}

// Ping checks that the backing store is reachable.
func (s *ProjectService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
