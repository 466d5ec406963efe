package gosonar

import (
	"context"
	"encoding/json"
	"errors"
)

const projectsPath = "/api/projects"

// ProjectsService manages projects
type ProjectsService service

// ProjectComponent is a project as returned by the projects API
type ProjectComponent struct {
	Key              string   `json:"key" sonar:"required"`
	Name             string   `json:"name" sonar:"required"`
	Qualifier        string   `json:"qualifier"`
	Visibility       string   `json:"visibility,omitempty"`
	LastAnalysisDate string   `json:"lastAnalysisDate,omitempty"`
	Revision         string   `json:"revision,omitempty"`
	Managed          *bool    `json:"managed,omitempty"`
	IsFavorite       *bool    `json:"isFavorite,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	NeedIssueSync    *bool    `json:"needIssueSync,omitempty"`
}

// UnmarshalJSON defaults the qualifier to TRK
func (p *ProjectComponent) UnmarshalJSON(data []byte) error {
	type plain ProjectComponent
	out := plain{Qualifier: "TRK"}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = ProjectComponent(out)
	return nil
}

// ProjectSearchResponse is returned by ProjectsService.Search
type ProjectSearchResponse struct {
	Paging     Paging              `json:"paging"`
	Components []*ProjectComponent `json:"components"`
}

// ExportFindingsResponse is returned by ProjectsService.ExportFindings
type ExportFindingsResponse struct {
	ExportDate string                   `json:"exportDate,omitempty"`
	Findings   []map[string]interface{} `json:"findings,omitempty"`
}

// ProjectSearchOptions holds the filters of ProjectsService.Search and
// ProjectsService.BulkDelete
type ProjectSearchOptions struct {
	ListOptions
	// AnalyzedBefore is a date or datetime, e.g. 2017-10-19
	AnalyzedBefore    string     `url:"analyzedBefore,omitempty"`
	OnProvisionedOnly *bool      `url:"onProvisionedOnly,omitempty"`
	Projects          []string   `url:"projects,omitempty,comma"`
	Query             string     `url:"q,omitempty"`
	Qualifiers        []string   `url:"qualifiers,omitempty,comma"`
	Sort              string     `url:"s,omitempty"`
	Visibility        Visibility `url:"visibility,omitempty"`
}

// ProjectCreateOptions holds the parameters of ProjectsService.Create
type ProjectCreateOptions struct {
	Name    string `url:"name"`
	Project string `url:"project"`
	// MainBranch defaults to "main" on the server side
	MainBranch             string     `url:"mainBranch,omitempty"`
	NewCodeDefinitionType  string     `url:"newCodeDefinitionType,omitempty"`
	NewCodeDefinitionValue string     `url:"newCodeDefinitionValue,omitempty"`
	Visibility             Visibility `url:"visibility,omitempty"`
}

type projectParams struct {
	Project     string     `url:"project,omitempty"`
	Branch      string     `url:"branch,omitempty"`
	PullRequest string     `url:"pullRequest,omitempty"`
	Visibility  Visibility `url:"visibility,omitempty"`
	From        string     `url:"from,omitempty"`
	To          string     `url:"to,omitempty"`
}

// BulkDelete deletes every project matching the filters. Paging fields are
// ignored.
func (s *ProjectsService) BulkDelete(ctx context.Context, opts *ProjectSearchOptions) error {
	filters := ProjectSearchOptions{}
	if opts != nil {
		filters = *opts
	}
	filters.ListOptions = ListOptions{}
	filters.Sort = ""
	return s.client.post(ctx, projectsPath+"/bulk_delete", &filters, nil)
}

// Create creates a project
func (s *ProjectsService) Create(ctx context.Context, opts *ProjectCreateOptions) (*ProjectComponent, error) {
	if opts == nil || opts.Name == "" || opts.Project == "" {
		return nil, errors.New("project name and key are required")
	}
	var resp struct {
		Project *ProjectComponent `json:"project"`
	}
	if err := s.client.post(ctx, projectsPath+"/create", opts, &resp); err != nil {
		return nil, err
	}
	return resp.Project, nil
}

// Delete deletes a project
func (s *ProjectsService) Delete(ctx context.Context, project string) error {
	return s.client.post(ctx, projectsPath+"/delete", &projectParams{Project: project}, nil)
}

// ExportFindings exports the issues and hotspots of a project branch
func (s *ProjectsService) ExportFindings(ctx context.Context, project, branch, pullRequest string) (*ExportFindingsResponse, error) {
	var resp ExportFindingsResponse
	params := &projectParams{Project: project, Branch: branch, PullRequest: pullRequest}
	if err := s.client.get(ctx, projectsPath+"/export_findings", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LicenseUsage returns the number of lines of code counted by the license
func (s *ProjectsService) LicenseUsage(ctx context.Context) (int, error) {
	var resp struct {
		LinesOfCode int `json:"linesOfCode"`
	}
	if err := s.client.get(ctx, projectsPath+"/license_usage", nil, &resp); err != nil {
		return 0, err
	}
	return resp.LinesOfCode, nil
}

// Search lists projects
func (s *ProjectsService) Search(ctx context.Context, opts *ProjectSearchOptions) (*ProjectSearchResponse, error) {
	var resp ProjectSearchResponse
	if err := s.client.get(ctx, projectsPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchAll pages through Search and collects every project
func (s *ProjectsService) SearchAll(ctx context.Context, opts *ProjectSearchOptions) ([]*ProjectComponent, error) {
	search := ProjectSearchOptions{}
	if opts != nil {
		search = *opts
	}
	if search.PageSize <= 0 {
		search.PageSize = maxPageSize
	}
	search.Page = 1

	var projects []*ProjectComponent
	for {
		resp, err := s.Search(ctx, &search)
		if err != nil {
			return projects, err
		}
		projects = append(projects, resp.Components...)
		if len(resp.Components) == 0 || !resp.Paging.HasNextPage() || !nextPageInWindow(search.Page, search.PageSize) {
			return projects, nil
		}
		search.Page++
	}
}

// UpdateKey changes the key of a project
func (s *ProjectsService) UpdateKey(ctx context.Context, from, to string) error {
	return s.client.post(ctx, projectsPath+"/update_key", &projectParams{From: from, To: to}, nil)
}

// UpdateVisibility makes a project public or private
func (s *ProjectsService) UpdateVisibility(ctx context.Context, project string, visibility Visibility) error {
	params := &projectParams{Project: project, Visibility: visibility}
	return s.client.post(ctx, projectsPath+"/update_visibility", params, nil)
}
