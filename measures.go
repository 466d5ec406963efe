package gosonar

import (
	"context"
	"errors"
)

const measuresPath = "/api/measures"

// MeasuresService reads metric values of components
type MeasuresService service

// Measure is the value of one metric
type Measure struct {
	Metric    string                 `json:"metric" sonar:"required"`
	Value     string                 `json:"value,omitempty"`
	Period    map[string]interface{} `json:"period,omitempty"`
	BestValue *bool                  `json:"bestValue,omitempty"`
}

// MeasureComponent is a component with its measures
type MeasureComponent struct {
	Key       string     `json:"key" sonar:"required"`
	Name      string     `json:"name,omitempty"`
	Qualifier string     `json:"qualifier,omitempty"`
	Path      string     `json:"path,omitempty"`
	Language  string     `json:"language,omitempty"`
	Measures  []*Measure `json:"measures,omitempty"`
}

// Measure returns the measure of metric, nil when it was not computed
func (c *MeasureComponent) Measure(metric string) *Measure {
	for _, m := range c.Measures {
		if m.Metric == metric {
			return m
		}
	}
	return nil
}

// ComponentMeasuresResponse is returned by MeasuresService.Component
type ComponentMeasuresResponse struct {
	Component *MeasureComponent        `json:"component"`
	Metrics   []map[string]interface{} `json:"metrics,omitempty"`
	Period    map[string]interface{}   `json:"period,omitempty"`
}

// ComponentTreeMeasuresResponse is returned by MeasuresService.ComponentTree
type ComponentTreeMeasuresResponse struct {
	BaseComponent *MeasureComponent        `json:"baseComponent"`
	Components    []*MeasureComponent      `json:"components"`
	Metrics       []map[string]interface{} `json:"metrics,omitempty"`
	Paging        *Paging                  `json:"paging,omitempty"`
}

// HistoryValue is the value of a metric at the date of an analysis
type HistoryValue struct {
	Date  string `json:"date"`
	Value string `json:"value,omitempty"`
}

// MeasureHistory is the history of one metric
type MeasureHistory struct {
	Metric  string          `json:"metric"`
	History []*HistoryValue `json:"history"`
}

// SearchHistoryResponse is returned by MeasuresService.SearchHistory
type SearchHistoryResponse struct {
	Paging   *Paging           `json:"paging,omitempty"`
	Measures []*MeasureHistory `json:"measures"`
}

// ComponentMeasuresOptions holds the parameters of MeasuresService.Component
type ComponentMeasuresOptions struct {
	Component        string   `url:"component"`
	MetricKeys       []string `url:"metricKeys,comma"`
	AdditionalFields []string `url:"additionalFields,omitempty,comma"`
	Branch           string   `url:"branch,omitempty"`
	PullRequest      string   `url:"pullRequest,omitempty"`
}

// ComponentTreeMeasuresOptions holds the parameters of MeasuresService.ComponentTree
type ComponentTreeMeasuresOptions struct {
	ListOptions
	Component        string   `url:"component"`
	MetricKeys       []string `url:"metricKeys,comma"`
	AdditionalFields []string `url:"additionalFields,omitempty,comma"`
	Ascending        *bool    `url:"asc,omitempty"`
	Branch           string   `url:"branch,omitempty"`
	MetricPeriodSort int      `url:"metricPeriodSort,omitempty"`
	MetricSort       string   `url:"metricSort,omitempty"`
	MetricSortFilter string   `url:"metricSortFilter,omitempty"`
	PullRequest      string   `url:"pullRequest,omitempty"`
	Query            string   `url:"q,omitempty"`
	Qualifiers       []string `url:"qualifiers,omitempty,comma"`
	Sort             string   `url:"s,omitempty"`
	Strategy         string   `url:"strategy,omitempty"`
}

// SearchHistoryOptions holds the parameters of MeasuresService.SearchHistory
type SearchHistoryOptions struct {
	ListOptions
	Component   string   `url:"component"`
	Metrics     []string `url:"metrics,comma"`
	Branch      string   `url:"branch,omitempty"`
	From        string   `url:"from,omitempty"`
	To          string   `url:"to,omitempty"`
	PullRequest string   `url:"pullRequest,omitempty"`
}

var errMetricsRequired = errors.New("component and at least one metric are required")

// Component returns the measures of a component
func (s *MeasuresService) Component(ctx context.Context, opts *ComponentMeasuresOptions) (*ComponentMeasuresResponse, error) {
	if opts == nil || opts.Component == "" || len(opts.MetricKeys) == 0 {
		return nil, errMetricsRequired
	}
	var resp ComponentMeasuresResponse
	if err := s.client.get(ctx, measuresPath+"/component", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ComponentTree returns the measures of the components below a base component
func (s *MeasuresService) ComponentTree(ctx context.Context, opts *ComponentTreeMeasuresOptions) (*ComponentTreeMeasuresResponse, error) {
	if opts == nil || opts.Component == "" || len(opts.MetricKeys) == 0 {
		return nil, errMetricsRequired
	}
	var resp ComponentTreeMeasuresResponse
	if err := s.client.get(ctx, measuresPath+"/component_tree", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchHistory returns the history of metrics of a component
func (s *MeasuresService) SearchHistory(ctx context.Context, opts *SearchHistoryOptions) (*SearchHistoryResponse, error) {
	if opts == nil || opts.Component == "" || len(opts.Metrics) == 0 {
		return nil, errMetricsRequired
	}
	var resp SearchHistoryResponse
	if err := s.client.get(ctx, measuresPath+"/search_history", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
