package gosonar

import (
	"context"
	"errors"
)

const componentsPath = "/api/components"

// ComponentsService browses projects, directories and files
type ComponentsService service

// ComponentItem describes a component as returned by the components API
type ComponentItem struct {
	Key           string `json:"key" sonar:"required"`
	Name          string `json:"name,omitempty"`
	Qualifier     string `json:"qualifier,omitempty"`
	Path          string `json:"path,omitempty"`
	Language      string `json:"language,omitempty"`
	Project       string `json:"project,omitempty"`
	Branch        string `json:"branch,omitempty"`
	PullRequest   string `json:"pullRequest,omitempty"`
	Description   string `json:"description,omitempty"`
	Visibility    string `json:"visibility,omitempty"`
	AnalysisDate  string `json:"analysisDate,omitempty"`
	Version       string `json:"version,omitempty"`
	NeedIssueSync *bool  `json:"needIssueSync,omitempty"`
}

// ComponentShowResponse is returned by ComponentsService.Show
type ComponentShowResponse struct {
	Component *ComponentItem   `json:"component"`
	Ancestors []*ComponentItem `json:"ancestors,omitempty"`
}

// ComponentTreeResponse is returned by ComponentsService.Tree
type ComponentTreeResponse struct {
	Paging        Paging           `json:"paging"`
	BaseComponent *ComponentItem   `json:"baseComponent"`
	Components    []*ComponentItem `json:"components"`
}

// ComponentSearchResponse is returned by ComponentsService.Search
type ComponentSearchResponse struct {
	Paging     Paging           `json:"paging"`
	Components []*ComponentItem `json:"components"`
}

// ComponentShowOptions selects the component to show
type ComponentShowOptions struct {
	Component   string `url:"component"`
	Branch      string `url:"branch,omitempty"`
	PullRequest string `url:"pullRequest,omitempty"`
}

// ComponentTreeOptions holds the parameters of ComponentsService.Tree
type ComponentTreeOptions struct {
	ListOptions
	Component   string   `url:"component"`
	Ascending   *bool    `url:"asc,omitempty"`
	Branch      string   `url:"branch,omitempty"`
	PullRequest string   `url:"pullRequest,omitempty"`
	Query       string   `url:"q,omitempty"`
	Qualifiers  []string `url:"qualifiers,omitempty,comma"`
	Sort        string   `url:"s,omitempty"`
	// Strategy is one of "all", "children", "leaves"
	Strategy string `url:"strategy,omitempty"`
}

// ComponentSearchOptions holds the parameters of ComponentsService.Search
type ComponentSearchOptions struct {
	ListOptions
	Qualifiers []string `url:"qualifiers,comma"`
	Query      string   `url:"q,omitempty"`
}

// Show returns a component and its ancestors
func (s *ComponentsService) Show(ctx context.Context, opts *ComponentShowOptions) (*ComponentShowResponse, error) {
	if opts == nil || opts.Component == "" {
		return nil, errors.New("component is required")
	}
	var resp ComponentShowResponse
	if err := s.client.get(ctx, componentsPath+"/show", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tree navigates the components below a base component
func (s *ComponentsService) Tree(ctx context.Context, opts *ComponentTreeOptions) (*ComponentTreeResponse, error) {
	if opts == nil || opts.Component == "" {
		return nil, errors.New("component is required")
	}
	var resp ComponentTreeResponse
	if err := s.client.get(ctx, componentsPath+"/tree", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search finds components of the given qualifiers
func (s *ComponentsService) Search(ctx context.Context, opts *ComponentSearchOptions) (*ComponentSearchResponse, error) {
	if opts == nil || len(opts.Qualifiers) == 0 {
		return nil, errors.New("at least one qualifier is required")
	}
	var resp ComponentSearchResponse
	if err := s.client.get(ctx, componentsPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
