package gosonar

import (
	"context"
	"errors"
)

const (
	issuesPath = "/api/issues"

	// maxSearchWindow is the number of results the search endpoints can page through
	maxSearchWindow = 10000
	maxPageSize     = 500
)

// IssuesService searches and updates issues
type IssuesService service

// TextRange locates an issue in its file
type TextRange struct {
	StartLine   int `json:"startLine"`
	EndLine     int `json:"endLine"`
	StartOffset int `json:"startOffset,omitempty"`
	EndOffset   int `json:"endOffset,omitempty"`
}

// IssueLocation is a secondary location of an issue
type IssueLocation struct {
	Component string     `json:"component,omitempty"`
	TextRange *TextRange `json:"textRange,omitempty"`
	Msg       string     `json:"msg,omitempty"`
}

// IssueFlow is an ordered list of locations
type IssueFlow struct {
	Locations []*IssueLocation `json:"locations"`
}

// IssueComment is a comment left on an issue
type IssueComment struct {
	Key       string `json:"key" sonar:"required"`
	Login     string `json:"login" sonar:"required"`
	HTMLText  string `json:"htmlText,omitempty"`
	Markdown  string `json:"markdown,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Impact of an issue on a software quality
type Impact struct {
	SoftwareQuality string `json:"softwareQuality"`
	Severity        string `json:"severity"`
}

// Issue is a problem raised by a rule on a component
type Issue struct {
	Key                        string                   `json:"key" sonar:"required"`
	Rule                       string                   `json:"rule" sonar:"required"`
	Severity                   string                   `json:"severity,omitempty"`
	Component                  string                   `json:"component" sonar:"required"`
	Project                    string                   `json:"project" sonar:"required"`
	Line                       int                      `json:"line,omitempty"`
	Message                    string                   `json:"message,omitempty"`
	Status                     string                   `json:"status,omitempty"`
	Resolution                 string                   `json:"resolution,omitempty"`
	Type                       string                   `json:"type,omitempty"`
	Effort                     string                   `json:"effort,omitempty"`
	Debt                       string                   `json:"debt,omitempty"`
	Author                     string                   `json:"author,omitempty"`
	Tags                       []string                 `json:"tags,omitempty"`
	CreationDate               string                   `json:"creationDate,omitempty"`
	UpdateDate                 string                   `json:"updateDate,omitempty"`
	CloseDate                  string                   `json:"closeDate,omitempty"`
	TextRange                  *TextRange               `json:"textRange,omitempty"`
	Flows                      []*IssueFlow             `json:"flows,omitempty"`
	Comments                   []*IssueComment          `json:"comments,omitempty"`
	Assignee                   string                   `json:"assignee,omitempty"`
	Hash                       string                   `json:"hash,omitempty"`
	Scope                      string                   `json:"scope,omitempty"`
	QuickFixAvailable          *bool                    `json:"quickFixAvailable,omitempty"`
	RuleDescriptionContextKey  string                   `json:"ruleDescriptionContextKey,omitempty"`
	MessageFormattings         []map[string]interface{} `json:"messageFormattings,omitempty"`
	CodeVariants               []string                 `json:"codeVariants,omitempty"`
	CleanCodeAttribute         string                   `json:"cleanCodeAttribute,omitempty"`
	CleanCodeAttributeCategory string                   `json:"cleanCodeAttributeCategory,omitempty"`
	Impacts                    []*Impact                `json:"impacts,omitempty"`
}

// IssueSearchResponse is returned by IssuesService.Search. Older servers
// only send the flat P, PS and Total fields instead of Paging.
type IssueSearchResponse struct {
	Paging      *Paging                  `json:"paging,omitempty"`
	Issues      []*Issue                 `json:"issues"`
	Components  []*Component             `json:"components,omitempty"`
	Rules       []map[string]interface{} `json:"rules,omitempty"`
	Facets      []map[string]interface{} `json:"facets,omitempty"`
	P           int                      `json:"p,omitempty"`
	PS          int                      `json:"ps,omitempty"`
	Total       int                      `json:"total,omitempty"`
	EffortTotal int                      `json:"effortTotal,omitempty"`
}

// Pages returns the paging block, built from the flat fields when the
// server did not send one
func (r *IssueSearchResponse) Pages() Paging {
	if r.Paging != nil {
		return *r.Paging
	}
	return Paging{PageIndex: r.P, PageSize: r.PS, Total: r.Total}
}

// IssueSearchOptions holds the filters of IssuesService.Search
type IssueSearchOptions struct {
	ListOptions
	AdditionalFields             []string `url:"additionalFields,omitempty,comma"`
	Ascending                    *bool    `url:"asc,omitempty"`
	Assigned                     *bool    `url:"assigned,omitempty"`
	Assignees                    []string `url:"assignees,omitempty,comma"`
	Author                       string   `url:"author,omitempty"`
	Branch                       string   `url:"branch,omitempty"`
	CleanCodeAttributeCategories []string `url:"cleanCodeAttributeCategories,omitempty,comma"`
	CodeVariants                 []string `url:"codeVariants,omitempty,comma"`
	ComponentKeys                []string `url:"componentKeys,omitempty,comma"`
	CreatedAfter                 string   `url:"createdAfter,omitempty"`
	CreatedAt                    string   `url:"createdAt,omitempty"`
	CreatedBefore                string   `url:"createdBefore,omitempty"`
	// CreatedInLast is a period such as "1m2w" (one month two weeks)
	CreatedInLast           string   `url:"createdInLast,omitempty"`
	Directories             []string `url:"directories,omitempty,comma"`
	Facets                  []string `url:"facets,omitempty,comma"`
	Files                   []string `url:"files,omitempty,comma"`
	ImpactSeverities        []string `url:"impactSeverities,omitempty,comma"`
	ImpactSoftwareQualities []string `url:"impactSoftwareQualities,omitempty,comma"`
	InNewCodePeriod         *bool    `url:"inNewCodePeriod,omitempty"`
	IssueStatuses           []string `url:"issueStatuses,omitempty,comma"`
	Issues                  []string `url:"issues,omitempty,comma"`
	Languages               []string `url:"languages,omitempty,comma"`
	OnComponentOnly         *bool    `url:"onComponentOnly,omitempty"`
	ProjectKeys             []string `url:"projects,omitempty,comma"`
	PullRequest             string   `url:"pullRequest,omitempty"`
	Resolutions             []string `url:"resolutions,omitempty,comma"`
	Resolved                *bool    `url:"resolved,omitempty"`
	Rules                   []string `url:"rules,omitempty,comma"`
	Sort                    string   `url:"s,omitempty"`
	Scopes                  []string `url:"scopes,omitempty,comma"`
	Severities              []string `url:"severities,omitempty,comma"`
	Statuses                []string `url:"statuses,omitempty,comma"`
	Tags                    []string `url:"tags,omitempty,comma"`
	Types                   []string `url:"types,omitempty,comma"`
}

// IssueBulkChangeOptions holds the actions applied by IssuesService.BulkChange
type IssueBulkChangeOptions struct {
	Issues  []string `url:"issues,comma"`
	AddTags []string `url:"add_tags,omitempty,comma"`
	// Assign is the new assignee. A pointer to "" unassigns the issues.
	Assign       *string  `url:"assign,omitempty"`
	Comment      string   `url:"comment,omitempty"`
	DoTransition string   `url:"do_transition,omitempty"`
	RemoveTags   []string `url:"remove_tags,omitempty,comma"`
	SetSeverity  string   `url:"set_severity,omitempty"`
	SetType      string   `url:"set_type,omitempty"`
}

// IssueTagsOptions holds the parameters of IssuesService.Authors and IssuesService.Tags
type IssueTagsOptions struct {
	Project  string `url:"project,omitempty"`
	PageSize int    `url:"ps,omitempty"`
	Query    string `url:"q,omitempty"`
}

type issueParams struct {
	Issue      string  `url:"issue,omitempty"`
	Comment    string  `url:"comment,omitempty"`
	Text       string  `url:"text,omitempty"`
	Assignee   string  `url:"assignee,omitempty"`
	Transition string  `url:"transition,omitempty"`
	Severity   string  `url:"severity,omitempty"`
	Tags       *string `url:"tags,omitempty"`
	Type       string  `url:"type,omitempty"`
}

// changeIssue posts an update and returns the issue found under the "issue"
// key of the answer, or the answer itself when that key is missing.
func (s *IssuesService) changeIssue(ctx context.Context, endpoint string, params *issueParams) (*Issue, error) {
	var issue Issue
	if err := s.client.postEnvelope(ctx, issuesPath+endpoint, params, "issue", &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// AddComment comments an issue
func (s *IssuesService) AddComment(ctx context.Context, issue, text string) (*Issue, error) {
	return s.changeIssue(ctx, "/add_comment", &issueParams{Issue: issue, Text: text})
}

// Assign assigns an issue. An empty assignee unassigns it.
func (s *IssuesService) Assign(ctx context.Context, issue, assignee string) (*Issue, error) {
	return s.changeIssue(ctx, "/assign", &issueParams{Issue: issue, Assignee: assignee})
}

// Authors lists the SCM authors of issues
func (s *IssuesService) Authors(ctx context.Context, opts *IssueTagsOptions) ([]string, error) {
	var resp struct {
		Authors []string `json:"authors"`
	}
	if err := s.client.get(ctx, issuesPath+"/authors", opts, &resp); err != nil {
		return nil, err
	}
	return resp.Authors, nil
}

// BulkChange applies the same actions to many issues and returns the summary
// sent by the server
func (s *IssuesService) BulkChange(ctx context.Context, opts *IssueBulkChangeOptions) (map[string]interface{}, error) {
	if opts == nil || len(opts.Issues) == 0 {
		return nil, errors.New("at least one issue is required")
	}
	resp := map[string]interface{}{}
	if err := s.client.post(ctx, issuesPath+"/bulk_change", opts, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Changelog returns the history of an issue
func (s *IssuesService) Changelog(ctx context.Context, issue string) ([]map[string]interface{}, error) {
	var resp struct {
		Changelog []map[string]interface{} `json:"changelog"`
	}
	if err := s.client.get(ctx, issuesPath+"/changelog", &issueParams{Issue: issue}, &resp); err != nil {
		return nil, err
	}
	return resp.Changelog, nil
}

// DeleteComment deletes a comment and returns the issue it belonged to
func (s *IssuesService) DeleteComment(ctx context.Context, comment string) (*Issue, error) {
	return s.changeIssue(ctx, "/delete_comment", &issueParams{Comment: comment})
}

// DoTransition applies a workflow transition such as "confirm" or "resolve"
func (s *IssuesService) DoTransition(ctx context.Context, issue, transition string) (*Issue, error) {
	return s.changeIssue(ctx, "/do_transition", &issueParams{Issue: issue, Transition: transition})
}

// EditComment replaces the text of a comment
func (s *IssuesService) EditComment(ctx context.Context, comment, text string) (*Issue, error) {
	return s.changeIssue(ctx, "/edit_comment", &issueParams{Comment: comment, Text: text})
}

// Search finds issues
func (s *IssuesService) Search(ctx context.Context, opts *IssueSearchOptions) (*IssueSearchResponse, error) {
	var resp IssueSearchResponse
	if err := s.client.get(ctx, issuesPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchAll pages through Search and collects every issue. The server
// refuses to go past the first 10000 results so the walk stops there.
func (s *IssuesService) SearchAll(ctx context.Context, opts *IssueSearchOptions) ([]*Issue, error) {
	search := IssueSearchOptions{}
	if opts != nil {
		search = *opts
	}
	if search.PageSize <= 0 {
		search.PageSize = maxPageSize
	}
	search.Page = 1

	var issues []*Issue
	for {
		resp, err := s.Search(ctx, &search)
		if err != nil {
			return issues, err
		}
		issues = append(issues, resp.Issues...)

		paging := resp.Pages()
		if len(resp.Issues) == 0 || !paging.HasNextPage() || !nextPageInWindow(search.Page, search.PageSize) {
			return issues, nil
		}
		search.Page++
	}
}

// nextPageInWindow reports whether the page after page still ends inside
// the search window
func nextPageInWindow(page, pageSize int) bool {
	return (page+1)*pageSize <= maxSearchWindow
}

// SetSeverity changes the severity of an issue
func (s *IssuesService) SetSeverity(ctx context.Context, issue, severity string) (*Issue, error) {
	return s.changeIssue(ctx, "/set_severity", &issueParams{Issue: issue, Severity: severity})
}

// SetTags replaces the tags of an issue
func (s *IssuesService) SetTags(ctx context.Context, issue string, tags []string) (*Issue, error) {
	return s.changeIssue(ctx, "/set_tags", &issueParams{Issue: issue, Tags: joined(tags)})
}

// SetType changes the type of an issue (BUG, VULNERABILITY, CODE_SMELL)
func (s *IssuesService) SetType(ctx context.Context, issue, issueType string) (*Issue, error) {
	return s.changeIssue(ctx, "/set_type", &issueParams{Issue: issue, Type: issueType})
}

// Tags lists the tags used on issues
func (s *IssuesService) Tags(ctx context.Context, opts *IssueTagsOptions) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := s.client.get(ctx, issuesPath+"/tags", opts, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}
