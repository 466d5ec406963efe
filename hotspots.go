package gosonar

import (
	"context"
)

const hotspotsPath = "/api/hotspots"

// HotspotsService reviews security hotspots
type HotspotsService service

// Hotspot is a security hotspot as listed by HotspotsService.Search
type Hotspot struct {
	Key                      string                   `json:"key" sonar:"required"`
	Component                string                   `json:"component" sonar:"required"`
	Project                  string                   `json:"project" sonar:"required"`
	SecurityCategory         string                   `json:"securityCategory,omitempty"`
	VulnerabilityProbability string                   `json:"vulnerabilityProbability,omitempty"`
	Status                   string                   `json:"status,omitempty"`
	Resolution               string                   `json:"resolution,omitempty"`
	Line                     int                      `json:"line,omitempty"`
	Message                  string                   `json:"message,omitempty"`
	Assignee                 string                   `json:"assignee,omitempty"`
	Author                   string                   `json:"author,omitempty"`
	CreationDate             string                   `json:"creationDate,omitempty"`
	UpdateDate               string                   `json:"updateDate,omitempty"`
	Flows                    []map[string]interface{} `json:"flows,omitempty"`
	RuleKey                  string                   `json:"ruleKey,omitempty"`
	TextRange                *TextRange               `json:"textRange,omitempty"`
}

// HotspotSearchResponse is returned by HotspotsService.Search
type HotspotSearchResponse struct {
	Paging     Paging       `json:"paging"`
	Hotspots   []*Hotspot   `json:"hotspots"`
	Components []*Component `json:"components,omitempty"`
}

// HotspotDetails is returned by HotspotsService.Show
type HotspotDetails struct {
	Key             string                   `json:"key" sonar:"required"`
	Component       map[string]interface{}   `json:"component,omitempty"`
	Project         map[string]interface{}   `json:"project,omitempty"`
	Rule            map[string]interface{}   `json:"rule,omitempty"`
	Status          string                   `json:"status,omitempty"`
	Resolution      string                   `json:"resolution,omitempty"`
	Message         string                   `json:"message,omitempty"`
	Line            int                      `json:"line,omitempty"`
	Author          string                   `json:"author,omitempty"`
	CreationDate    string                   `json:"creationDate,omitempty"`
	UpdateDate      string                   `json:"updateDate,omitempty"`
	Changelog       []map[string]interface{} `json:"changelog,omitempty"`
	Comment         []map[string]interface{} `json:"comment,omitempty"`
	Users           []map[string]interface{} `json:"users,omitempty"`
	CanChangeStatus *bool                    `json:"canChangeStatus,omitempty"`
}

// HotspotSearchOptions holds the parameters of HotspotsService.Search.
// Either ProjectKey or Hotspots must be set.
type HotspotSearchOptions struct {
	ListOptions
	Branch          string   `url:"branch,omitempty"`
	Files           []string `url:"files,omitempty,comma"`
	Hotspots        []string `url:"hotspots,omitempty,comma"`
	InNewCodePeriod *bool    `url:"inNewCodePeriod,omitempty"`
	OnlyMine        *bool    `url:"onlyMine,omitempty"`
	OwaspAsvsLevel  string   `url:"owaspAsvsLevel,omitempty"`
	ProjectKey      string   `url:"projectKey,omitempty"`
	PullRequest     string   `url:"pullRequest,omitempty"`
	// Resolution is one of FIXED, SAFE, ACKNOWLEDGED
	Resolution string `url:"resolution,omitempty"`
	// Status is TO_REVIEW or REVIEWED
	Status string `url:"status,omitempty"`
}

type hotspotParams struct {
	Hotspot    string `url:"hotspot"`
	Status     string `url:"status,omitempty"`
	Resolution string `url:"resolution,omitempty"`
	Assignee   string `url:"assignee,omitempty"`
	Comment    string `url:"comment,omitempty"`
}

// ChangeStatus changes the review status of a hotspot. comment and
// resolution are optional.
func (s *HotspotsService) ChangeStatus(ctx context.Context, hotspot, status, resolution, comment string) error {
	params := &hotspotParams{Hotspot: hotspot, Status: status, Resolution: resolution, Comment: comment}
	return s.client.post(ctx, hotspotsPath+"/change_status", params, nil)
}

// Search lists hotspots
func (s *HotspotsService) Search(ctx context.Context, opts *HotspotSearchOptions) (*HotspotSearchResponse, error) {
	var resp HotspotSearchResponse
	if err := s.client.get(ctx, hotspotsPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Show returns the details of a hotspot
func (s *HotspotsService) Show(ctx context.Context, hotspot string) (*HotspotDetails, error) {
	var resp HotspotDetails
	if err := s.client.get(ctx, hotspotsPath+"/show", &hotspotParams{Hotspot: hotspot}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Assign assigns a hotspot. An empty assignee unassigns it.
func (s *HotspotsService) Assign(ctx context.Context, hotspot, assignee, comment string) error {
	params := &hotspotParams{Hotspot: hotspot, Assignee: assignee, Comment: comment}
	return s.client.post(ctx, hotspotsPath+"/assign", params, nil)
}

// AddComment comments a hotspot
func (s *HotspotsService) AddComment(ctx context.Context, hotspot, comment string) error {
	params := &hotspotParams{Hotspot: hotspot, Comment: comment}
	return s.client.post(ctx, hotspotsPath+"/add_comment", params, nil)
}
