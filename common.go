package gosonar

import "strings"

// Visibility of a project or an application
type Visibility string

const (
	// VisibilityPublic is visible to everybody
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate is visible to users with explicit permissions
	VisibilityPrivate Visibility = "private"
)

// Paging is the pagination block carried by list responses
type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// TotalPages returns the number of pages, 0 when the page size is unknown
func (p Paging) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HasNextPage reports whether another page follows the current one
func (p Paging) HasNextPage() bool {
	return p.PageIndex < p.TotalPages()
}

// HasPreviousPage reports whether the current page is not the first one
func (p Paging) HasPreviousPage() bool {
	return p.PageIndex > 1
}

// ListOptions holds the paging parameters shared by list endpoints
type ListOptions struct {
	// Page is the 1-based page index
	Page int `url:"p,omitempty"`
	// PageSize is the number of items per page
	PageSize int `url:"ps,omitempty"`
}

// Component is the minimal description of a component
type Component struct {
	Key        string `json:"key" sonar:"required"`
	Name       string `json:"name" sonar:"required"`
	Qualifier  string `json:"qualifier,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	Project    string `json:"project,omitempty"`
}

// Project is the minimal description of a project
type Project struct {
	Key              string `json:"key" sonar:"required"`
	Name             string `json:"name" sonar:"required"`
	Qualifier        string `json:"qualifier,omitempty"`
	Visibility       string `json:"visibility,omitempty"`
	LastAnalysisDate string `json:"lastAnalysisDate,omitempty"`
	Revision         string `json:"revision,omitempty"`
	Managed          *bool  `json:"managed,omitempty"`
}

// Branch of a project or an application
type Branch struct {
	Name         string                 `json:"name" sonar:"required"`
	IsMain       bool                   `json:"isMain"`
	Type         string                 `json:"type,omitempty"`
	Status       map[string]interface{} `json:"status,omitempty"`
	AnalysisDate string                 `json:"analysisDate,omitempty"`
}

// Bool returns a pointer to b, for the tri-state flags of the option structs
func Bool(b bool) *bool {
	return &b
}

// joined comma-joins values. The result is never nil so an empty list is
// still sent, which clears the value on the server side.
func joined(values []string) *string {
	s := strings.Join(values, ",")
	return &s
}
