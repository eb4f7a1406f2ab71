package usecase

import (
	"context"

	"github.com/runoshun/tissue/internal/domain"
)

// ListProjectsInput contains the input for the ListProjects use case.
type ListProjectsInput struct {
	Name string         // Optional project title; empty lists all projects
	Repo domain.RepoRef // Repository whose projects are discovered
}

// ListProjectsOutput contains the output of the ListProjects use case.
type ListProjectsOutput struct {
	Projects []domain.ProjectDescriptor
}

// ListProjects discovers the project boards reachable from a repository.
type ListProjects struct {
	boards domain.BoardsFactory
}

// NewListProjects creates a new ListProjects use case.
func NewListProjects(boards domain.BoardsFactory) *ListProjects {
	return &ListProjects{boards: boards}
}

// Execute discovers projects. With a name, only that project is returned,
// or domain.ErrProjectNotFound.
func (uc *ListProjects) Execute(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	boards := uc.boards(in.Repo)

	if in.Name != "" {
		p, err := boards.Find(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		return &ListProjectsOutput{Projects: []domain.ProjectDescriptor{*p}}, nil
	}

	return &ListProjectsOutput{Projects: boards.Discover(ctx)}, nil
}
