package gosonar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

const qualityGatesPath = "/api/qualitygates"

// QualityGate status values
const (
	QualityGateOK    = "OK"
	QualityGateWarn  = "WARN"
	QualityGateError = "ERROR"
	QualityGateNone  = "NONE"
)

// QualityGatesService manages quality gates and reads their status
type QualityGatesService service

// ID is an identifier sent either as a JSON number or as a JSON string,
// depending on the server version
type ID string

// UnmarshalJSON accepts both forms
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// QualityGateCondition is a threshold on a metric
type QualityGateCondition struct {
	ID     ID     `json:"id,omitempty"`
	Metric string `json:"metric" sonar:"required"`
	Op     string `json:"op,omitempty"`
	Error  string `json:"error,omitempty"`
}

// QualityGate describes a quality gate
type QualityGate struct {
	ID         ID                      `json:"id,omitempty"`
	Name       string                  `json:"name" sonar:"required"`
	IsDefault  bool                    `json:"isDefault,omitempty"`
	IsBuiltIn  bool                    `json:"isBuiltIn,omitempty"`
	Actions    map[string]interface{}  `json:"actions,omitempty"`
	Conditions []*QualityGateCondition `json:"conditions,omitempty"`
	CaycStatus string                  `json:"caycStatus,omitempty"`
}

// QualityGateRef identifies a quality gate created by Create or Copy
type QualityGateRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name" sonar:"required"`
}

// QualityGateListResponse is returned by QualityGatesService.List
type QualityGateListResponse struct {
	QualityGates []*QualityGate         `json:"qualitygates"`
	Default      ID                     `json:"default,omitempty"`
	Actions      map[string]interface{} `json:"actions,omitempty"`
}

// ProjectStatusCondition is the evaluation of one condition on a project
type ProjectStatusCondition struct {
	Status         string `json:"status" sonar:"required"`
	MetricKey      string `json:"metricKey" sonar:"required"`
	Comparator     string `json:"comparator" sonar:"required"`
	ErrorThreshold string `json:"errorThreshold,omitempty"`
	ActualValue    string `json:"actualValue,omitempty"`
}

// ProjectStatus is the quality gate status of a project analysis
type ProjectStatus struct {
	Status            string                    `json:"status" sonar:"required"`
	Conditions        []*ProjectStatusCondition `json:"conditions,omitempty"`
	Periods           []map[string]interface{}  `json:"periods,omitempty"`
	IgnoredConditions *bool                     `json:"ignoredConditions,omitempty"`
}

// Passed reports whether the gate did not fail
func (p *ProjectStatus) Passed() bool {
	return p.Status != QualityGateError
}

// QualityGateProjectsResponse is returned by QualityGatesService.Search
type QualityGateProjectsResponse struct {
	Paging  *Paging                  `json:"paging,omitempty"`
	Results []map[string]interface{} `json:"results"`
}

// ProjectStatusOptions selects the analysis to read the status of.
// One of AnalysisID, ProjectID or ProjectKey is needed.
type ProjectStatusOptions struct {
	AnalysisID  string `url:"analysisId,omitempty"`
	Branch      string `url:"branch,omitempty"`
	ProjectID   string `url:"projectId,omitempty"`
	ProjectKey  string `url:"projectKey,omitempty"`
	PullRequest string `url:"pullRequest,omitempty"`
}

// QualityGateProjectsOptions holds the parameters of QualityGatesService.Search
type QualityGateProjectsOptions struct {
	GateName string `url:"gateName"`
	Page     int    `url:"page,omitempty"`
	PageSize int    `url:"pageSize,omitempty"`
	Query    string `url:"query,omitempty"`
	Selected string `url:"selected,omitempty"`
}

// ConditionOptions describes a condition to create or update
type ConditionOptions struct {
	ID       ID     `url:"id,omitempty"`
	GateName string `url:"gateName,omitempty"`
	Metric   string `url:"metric"`
	Error    string `url:"error"`
	// Op is LT or GT
	Op string `url:"op,omitempty"`
}

type qualityGateParams struct {
	ID          ID     `url:"id,omitempty"`
	Name        string `url:"name,omitempty"`
	SourceName  string `url:"sourceName,omitempty"`
	CurrentName string `url:"currentName,omitempty"`
	GateName    string `url:"gateName,omitempty"`
	ProjectKey  string `url:"projectKey,omitempty"`
	Project     string `url:"project,omitempty"`
}

// Copy copies a quality gate
func (s *QualityGatesService) Copy(ctx context.Context, sourceName, name string) (*QualityGateRef, error) {
	var resp QualityGateRef
	params := &qualityGateParams{SourceName: sourceName, Name: name}
	if err := s.client.post(ctx, qualityGatesPath+"/copy", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates an empty quality gate
func (s *QualityGatesService) Create(ctx context.Context, name string) (*QualityGateRef, error) {
	var resp QualityGateRef
	if err := s.client.post(ctx, qualityGatesPath+"/create", &qualityGateParams{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCondition adds a condition to a quality gate
func (s *QualityGatesService) CreateCondition(ctx context.Context, opts *ConditionOptions) (*QualityGateCondition, error) {
	if opts == nil || opts.GateName == "" {
		return nil, errors.New("quality gate name is required")
	}
	params := *opts
	params.ID = ""
	var resp QualityGateCondition
	if err := s.client.post(ctx, qualityGatesPath+"/create_condition", &params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCondition removes a condition
func (s *QualityGatesService) DeleteCondition(ctx context.Context, id ID) error {
	return s.client.post(ctx, qualityGatesPath+"/delete_condition", &qualityGateParams{ID: id}, nil)
}

// Deselect detaches a project from its quality gate, back to the default one
func (s *QualityGatesService) Deselect(ctx context.Context, projectKey string) error {
	return s.client.post(ctx, qualityGatesPath+"/deselect", &qualityGateParams{ProjectKey: projectKey}, nil)
}

// Destroy deletes a quality gate
func (s *QualityGatesService) Destroy(ctx context.Context, name string) error {
	return s.client.post(ctx, qualityGatesPath+"/destroy", &qualityGateParams{Name: name}, nil)
}

// GetByProject returns the quality gate of a project
func (s *QualityGatesService) GetByProject(ctx context.Context, project string) (map[string]interface{}, error) {
	resp := map[string]interface{}{}
	if err := s.client.get(ctx, qualityGatesPath+"/get_by_project", &qualityGateParams{Project: project}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// List lists every quality gate
func (s *QualityGatesService) List(ctx context.Context) (*QualityGateListResponse, error) {
	var resp QualityGateListResponse
	if err := s.client.get(ctx, qualityGatesPath+"/list", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProjectStatus returns the quality gate status of a project
func (s *QualityGatesService) ProjectStatus(ctx context.Context, opts *ProjectStatusOptions) (*ProjectStatus, error) {
	if opts == nil || (opts.AnalysisID == "" && opts.ProjectID == "" && opts.ProjectKey == "") {
		return nil, errors.New("one of analysis ID, project ID or project key is required")
	}
	var resp struct {
		ProjectStatus *ProjectStatus `json:"projectStatus" sonar:"required"`
	}
	if err := s.client.get(ctx, qualityGatesPath+"/project_status", opts, &resp); err != nil {
		return nil, err
	}
	if resp.ProjectStatus == nil {
		return nil, &DecodeError{Endpoint: qualityGatesPath + "/project_status", Err: errors.New("missing project status")}
	}
	return resp.ProjectStatus, nil
}

// Rename renames a quality gate
func (s *QualityGatesService) Rename(ctx context.Context, currentName, name string) error {
	params := &qualityGateParams{CurrentName: currentName, Name: name}
	return s.client.post(ctx, qualityGatesPath+"/rename", params, nil)
}

// Search lists the projects associated, or not, to a quality gate
func (s *QualityGatesService) Search(ctx context.Context, opts *QualityGateProjectsOptions) (*QualityGateProjectsResponse, error) {
	if opts == nil || opts.GateName == "" {
		return nil, errors.New("quality gate name is required")
	}
	var resp QualityGateProjectsResponse
	if err := s.client.get(ctx, qualityGatesPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Select associates a project to a quality gate
func (s *QualityGatesService) Select(ctx context.Context, gateName, projectKey string) error {
	params := &qualityGateParams{GateName: gateName, ProjectKey: projectKey}
	return s.client.post(ctx, qualityGatesPath+"/select", params, nil)
}

// SetAsDefault makes a quality gate the default one
func (s *QualityGatesService) SetAsDefault(ctx context.Context, name string) error {
	return s.client.post(ctx, qualityGatesPath+"/set_as_default", &qualityGateParams{Name: name}, nil)
}

// Show returns a quality gate and its conditions
func (s *QualityGatesService) Show(ctx context.Context, name string) (*QualityGate, error) {
	var resp QualityGate
	if err := s.client.get(ctx, qualityGatesPath+"/show", &qualityGateParams{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCondition changes a condition
func (s *QualityGatesService) UpdateCondition(ctx context.Context, opts *ConditionOptions) error {
	if opts == nil || opts.ID == "" {
		return errors.New("condition ID is required")
	}
	params := *opts
	params.GateName = ""
	return s.client.post(ctx, qualityGatesPath+"/update_condition", &params, nil)
}
