package gosonar

import (
	"context"
	"errors"
)

const applicationsPath = "/api/applications"

// ApplicationsService manages applications, portfolios of projects.
// Applications are only available on commercial editions.
type ApplicationsService service

// ApplicationProject is a project member of an application
type ApplicationProject struct {
	Key      string `json:"key" sonar:"required"`
	Name     string `json:"name" sonar:"required"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Selected *bool  `json:"selected,omitempty"`
	Branch   string `json:"branch,omitempty"`
}

// ApplicationBranch is a branch of an application
type ApplicationBranch struct {
	Name   string `json:"name" sonar:"required"`
	IsMain bool   `json:"isMain"`
}

// Application describes an application
type Application struct {
	Key         string                `json:"key" sonar:"required"`
	Name        string                `json:"name" sonar:"required"`
	Description string                `json:"description,omitempty"`
	Visibility  string                `json:"visibility,omitempty"`
	Projects    []*ApplicationProject `json:"projects,omitempty"`
	Branches    []*ApplicationBranch  `json:"branches,omitempty"`
}

type applicationResponse struct {
	Application *Application `json:"application"`
}

// ApplicationSearchResponse is returned by ApplicationsService.Search
type ApplicationSearchResponse struct {
	Paging       Paging         `json:"paging"`
	Applications []*Application `json:"applications"`
}

// ApplicationProjectsResponse is returned by ApplicationsService.SearchProjects
type ApplicationProjectsResponse struct {
	Paging   Paging                `json:"paging"`
	Projects []*ApplicationProject `json:"projects"`
}

// ApplicationCreateOptions holds the parameters of ApplicationsService.Create
type ApplicationCreateOptions struct {
	Name        string     `url:"name"`
	Description string     `url:"description,omitempty"`
	Key         string     `url:"key,omitempty"`
	Visibility  Visibility `url:"visibility,omitempty"`
}

// ApplicationBranchOptions describes an application branch: for every
// project of the application, the project branch to use. Projects and
// ProjectBranches are matched by position.
type ApplicationBranchOptions struct {
	Application     string   `url:"application"`
	Branch          string   `url:"branch"`
	Name            string   `url:"name,omitempty"`
	Projects        []string `url:"project"`
	ProjectBranches []string `url:"projectBranch,omitempty"`
}

// ApplicationSearchOptions holds the parameters of ApplicationsService.Search
type ApplicationSearchOptions struct {
	ListOptions
	Query string `url:"q,omitempty"`
}

// ApplicationProjectsOptions holds the parameters of ApplicationsService.SearchProjects
type ApplicationProjectsOptions struct {
	ListOptions
	Application string `url:"application"`
	Query       string `url:"q,omitempty"`
	// Selected is one of "all", "selected", "deselected"
	Selected string `url:"selected,omitempty"`
}

type applicationParams struct {
	Application string  `url:"application"`
	Branch      string  `url:"branch,omitempty"`
	Project     string  `url:"project,omitempty"`
	Name        string  `url:"name,omitempty"`
	Description string  `url:"description,omitempty"`
	Tags        *string `url:"tags,omitempty"`
}

// AddProject adds a project to an application
func (s *ApplicationsService) AddProject(ctx context.Context, application, project string) error {
	params := &applicationParams{Application: application, Project: project}
	return s.client.post(ctx, applicationsPath+"/add_project", params, nil)
}

// Create creates an application
func (s *ApplicationsService) Create(ctx context.Context, opts *ApplicationCreateOptions) (*Application, error) {
	if opts == nil || opts.Name == "" {
		return nil, errors.New("application name is required")
	}
	var resp applicationResponse
	if err := s.client.post(ctx, applicationsPath+"/create", opts, &resp); err != nil {
		return nil, err
	}
	return resp.Application, nil
}

// CreateBranch creates a branch of an application
func (s *ApplicationsService) CreateBranch(ctx context.Context, opts *ApplicationBranchOptions) error {
	if opts == nil {
		return errors.New("branch options are required")
	}
	params := *opts
	params.Name = ""
	return s.client.post(ctx, applicationsPath+"/create_branch", &params, nil)
}

// Delete deletes an application
func (s *ApplicationsService) Delete(ctx context.Context, application string) error {
	return s.client.post(ctx, applicationsPath+"/delete", &applicationParams{Application: application}, nil)
}

// DeleteBranch deletes a branch of an application
func (s *ApplicationsService) DeleteBranch(ctx context.Context, application, branch string) error {
	params := &applicationParams{Application: application, Branch: branch}
	return s.client.post(ctx, applicationsPath+"/delete_branch", params, nil)
}

// RemoveProject removes a project from an application
func (s *ApplicationsService) RemoveProject(ctx context.Context, application, project string) error {
	params := &applicationParams{Application: application, Project: project}
	return s.client.post(ctx, applicationsPath+"/remove_project", params, nil)
}

// Search lists applications
func (s *ApplicationsService) Search(ctx context.Context, opts *ApplicationSearchOptions) (*ApplicationSearchResponse, error) {
	var resp ApplicationSearchResponse
	if err := s.client.get(ctx, applicationsPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchProjects lists the projects of an application
func (s *ApplicationsService) SearchProjects(ctx context.Context, opts *ApplicationProjectsOptions) (*ApplicationProjectsResponse, error) {
	var resp ApplicationProjectsResponse
	if err := s.client.get(ctx, applicationsPath+"/search_projects", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetTags replaces the tags of an application
func (s *ApplicationsService) SetTags(ctx context.Context, application string, tags []string) error {
	params := &applicationParams{Application: application, Tags: joined(tags)}
	return s.client.post(ctx, applicationsPath+"/set_tags", params, nil)
}

// Show returns an application, optionally for one of its branches
func (s *ApplicationsService) Show(ctx context.Context, application, branch string) (*Application, error) {
	var resp applicationResponse
	params := &applicationParams{Application: application, Branch: branch}
	if err := s.client.get(ctx, applicationsPath+"/show", params, &resp); err != nil {
		return nil, err
	}
	return resp.Application, nil
}

// ShowLeak returns the leak period of an application
func (s *ApplicationsService) ShowLeak(ctx context.Context, application, branch string) (map[string]interface{}, error) {
	resp := map[string]interface{}{}
	params := &applicationParams{Application: application, Branch: branch}
	if err := s.client.get(ctx, applicationsPath+"/show_leak", params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Update changes the name and the description of an application
func (s *ApplicationsService) Update(ctx context.Context, application, name, description string) error {
	params := &applicationParams{Application: application, Name: name, Description: description}
	return s.client.post(ctx, applicationsPath+"/update", params, nil)
}

// UpdateBranch renames a branch and replaces its project branches
func (s *ApplicationsService) UpdateBranch(ctx context.Context, opts *ApplicationBranchOptions) error {
	if opts == nil {
		return errors.New("branch options are required")
	}
	return s.client.post(ctx, applicationsPath+"/update_branch", opts, nil)
}
