package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/codechat/internal/apperror"
	"github.com/sakif/codechat/internal/model"
	"github.com/sakif/codechat/internal/repository"
)

// Validation limits for project fields.
const (
	MaxProjectNameLength        = 100
	MaxProjectDescriptionLength = 2000
)

// ProjectService handles business logic for projects.
type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService. It needs the user repository
// too, because creating a project checks that the owner exists.
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

// Create validates and saves a new project owned by userID.
// A nonexistent owner is a not-found failure, not a validation failure —
// the id is well-formed, the row just isn't there.
func (s *ProjectService) Create(ctx context.Context, userID int64, name string, description *string, language model.CodingLanguage) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "project name is required")
	}
	if len(name) > MaxProjectNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("project name must be %d characters or less", MaxProjectNameLength))
	}
	if description != nil && len(*description) > MaxProjectDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxProjectDescriptionLength))
	}
	if !language.Valid() {
		return nil, apperror.ValidationFailed("coding_language",
			fmt.Sprintf("unknown coding language %q", language))
	}

	// Owner must exist before we insert.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	project := &model.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
		Language:    language,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.logger.Error("failed to create project",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.Int64("id", project.ID),
		slog.Int64("userID", userID),
	)

	return project, nil
}

// Update applies a partial update to a project; see UserService.Update for
// the fetch-then-update rationale. An empty update still advances
// updated_at (and therefore re-sorts the owner's project list).
func (s *ProjectService) Update(ctx context.Context, id int64, upd model.ProjectUpdate) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name.Set {
		name := strings.TrimSpace(upd.Name.Value)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "project name must not be empty")
		}
		if len(name) > MaxProjectNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("project name must be %d characters or less", MaxProjectNameLength))
		}
		project.Name = name
	}
	if upd.Description.Set {
		if upd.Description.Value != nil && len(*upd.Description.Value) > MaxProjectDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxProjectDescriptionLength))
		}
		project.Description = upd.Description.Value
	}
	if upd.Language.Set {
		if !upd.Language.Value.Valid() {
			return nil, apperror.ValidationFailed("coding_language",
				fmt.Sprintf("unknown coding language %q", upd.Language.Value))
		}
		project.Language = upd.Language.Value
	}

	if err := s.projects.Update(ctx, project); err != nil {
		s.logger.Error("failed to update project",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return project, nil
}

// ListForUser returns the user's projects, most recently touched first.
// An unknown user id is simply an empty list.
func (s *ProjectService) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list projects",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Delete removes the project if userID owns it. It returns whether a row
// was actually removed; "already gone", "never existed", and "not yours"
// all come back as false. The cascade takes the project's conversations,
// messages, and snippets with it.
func (s *ProjectService) Delete(ctx context.Context, id, userID int64) (bool, error) {
	deleted, err := s.projects.DeleteOwned(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to delete project",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("deleting project: %w", err)
	}

	if deleted {
		s.logger.Info("project deleted",
			slog.Int64("id", id),
			slog.Int64("userID", userID),
		)
	}

	return deleted, nil
}
