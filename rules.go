package gosonar

import (
	"context"
	"errors"
)

const rulesPath = "/api/rules"

// RulesService searches and manages coding rules
type RulesService service

// RuleParam is a parameter of a rule
type RuleParam struct {
	Key          string `json:"key" sonar:"required"`
	HTMLDesc     string `json:"htmlDesc,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Type         string `json:"type,omitempty"`
}

// Rule describes a coding rule
type Rule struct {
	Key                        string                   `json:"key" sonar:"required"`
	Repo                       string                   `json:"repo,omitempty"`
	Name                       string                   `json:"name,omitempty"`
	CreatedAt                  string                   `json:"createdAt,omitempty"`
	HTMLDesc                   string                   `json:"htmlDesc,omitempty"`
	MDDesc                     string                   `json:"mdDesc,omitempty"`
	Severity                   string                   `json:"severity,omitempty"`
	Status                     string                   `json:"status,omitempty"`
	IsTemplate                 *bool                    `json:"isTemplate,omitempty"`
	TemplateKey                string                   `json:"templateKey,omitempty"`
	Tags                       []string                 `json:"tags,omitempty"`
	SysTags                    []string                 `json:"sysTags,omitempty"`
	Lang                       string                   `json:"lang,omitempty"`
	LangName                   string                   `json:"langName,omitempty"`
	Params                     []*RuleParam             `json:"params,omitempty"`
	Type                       string                   `json:"type,omitempty"`
	InternalKey                string                   `json:"internalKey,omitempty"`
	IsExternal                 *bool                    `json:"isExternal,omitempty"`
	CleanCodeAttribute         string                   `json:"cleanCodeAttribute,omitempty"`
	CleanCodeAttributeCategory string                   `json:"cleanCodeAttributeCategory,omitempty"`
	Impacts                    []map[string]interface{} `json:"impacts,omitempty"`
	DescriptionSections        []map[string]interface{} `json:"descriptionSections,omitempty"`
	EducationPrinciples        []string                 `json:"educationPrinciples,omitempty"`
}

// RuleSearchResponse is returned by RulesService.Search
type RuleSearchResponse struct {
	Total  int                      `json:"total"`
	P      int                      `json:"p"`
	PS     int                      `json:"ps"`
	Rules  []*Rule                  `json:"rules"`
	Facets []map[string]interface{} `json:"facets,omitempty"`
	Paging *Paging                  `json:"paging,omitempty"`
}

// RuleShowResponse is returned by RulesService.Show
type RuleShowResponse struct {
	Rule    *Rule                    `json:"rule" sonar:"required"`
	Actives []map[string]interface{} `json:"actives,omitempty"`
}

// RuleFilters selects rules. It is shared by rule search and by the bulk
// activation of rules in quality profiles.
type RuleFilters struct {
	ActiveSeverities []string `url:"active_severities,omitempty,comma"`
	Ascending        *bool    `url:"asc,omitempty"`
	AvailableSince   string   `url:"available_since,omitempty"`
	Inheritance      []string `url:"inheritance,omitempty,comma"`
	IsTemplate       *bool    `url:"is_template,omitempty"`
	Languages        []string `url:"languages,omitempty,comma"`
	Query            string   `url:"q,omitempty"`
	QualityProfile   string   `url:"qprofile,omitempty"`
	Repositories     []string `url:"repositories,omitempty,comma"`
	RuleKey          string   `url:"rule_key,omitempty"`
	Sort             string   `url:"s,omitempty"`
	Severities       []string `url:"severities,omitempty,comma"`
	Statuses         []string `url:"statuses,omitempty,comma"`
	Tags             []string `url:"tags,omitempty,comma"`
	TemplateKey      string   `url:"template_key,omitempty"`
	Types            []string `url:"types,omitempty,comma"`
}

// RuleSearchOptions holds the filters of RulesService.Search
type RuleSearchOptions struct {
	ListOptions
	RuleFilters
	Activation                   *bool    `url:"activation,omitempty"`
	CleanCodeAttributeCategories []string `url:"cleanCodeAttributeCategories,omitempty,comma"`
	CWE                          []string `url:"cwe,omitempty,comma"`
	Fields                       []string `url:"f,omitempty,comma"`
	Facets                       []string `url:"facets,omitempty,comma"`
	ImpactSeverities             []string `url:"impactSeverities,omitempty,comma"`
	ImpactSoftwareQualities      []string `url:"impactSoftwareQualities,omitempty,comma"`
	IncludeExternal              *bool    `url:"include_external,omitempty"`
	OwaspTop10                   []string `url:"owaspTop10,omitempty,comma"`
	OwaspTop10v2021              []string `url:"owaspTop10-2021,omitempty,comma"`
	SansTop25                    []string `url:"sansTop25,omitempty,comma"`
	SonarsourceSecurity          []string `url:"sonarsourceSecurity,omitempty,comma"`
}

// RuleCreateOptions describes a custom rule built from a template
type RuleCreateOptions struct {
	CustomKey           string `url:"customKey"`
	MarkdownDescription string `url:"markdownDescription"`
	Name                string `url:"name"`
	TemplateKey         string `url:"templateKey"`
	CleanCodeAttribute  string `url:"cleanCodeAttribute,omitempty"`
	Impacts             string `url:"impacts,omitempty"`
	// Params is formatted as "key1=value1;key2=value2"
	Params              string `url:"params,omitempty"`
	PreventReactivation *bool  `url:"preventReactivation,omitempty"`
	Severity            string `url:"severity,omitempty"`
	Status              string `url:"status,omitempty"`
	Type                string `url:"type,omitempty"`
}

// RuleUpdateOptions holds the changes of RulesService.Update
type RuleUpdateOptions struct {
	Key                      string   `url:"key"`
	MarkdownDescription      string   `url:"markdownDescription,omitempty"`
	MarkdownNote             string   `url:"markdown_note,omitempty"`
	Name                     string   `url:"name,omitempty"`
	Params                   string   `url:"params,omitempty"`
	RemediationFnBaseEffort  string   `url:"remediationFnBaseEffort,omitempty"`
	RemediationFnType        string   `url:"remediationFnType,omitempty"`
	RemediationGapMultiplier string   `url:"remediationGapMultiplier,omitempty"`
	Severity                 string   `url:"severity,omitempty"`
	Status                   string   `url:"status,omitempty"`
	Tags                     []string `url:"tags,omitempty,comma"`
}

type ruleParams struct {
	Key      string `url:"key,omitempty"`
	Actives  *bool  `url:"actives,omitempty"`
	Language string `url:"language,omitempty"`
	Query    string `url:"q,omitempty"`
	PageSize int    `url:"ps,omitempty"`
}

// Create creates a custom rule
func (s *RulesService) Create(ctx context.Context, opts *RuleCreateOptions) (*Rule, error) {
	if opts == nil || opts.CustomKey == "" || opts.TemplateKey == "" {
		return nil, errors.New("custom key and template key are required")
	}
	var rule Rule
	if err := s.client.postEnvelope(ctx, rulesPath+"/create", opts, "rule", &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Delete deletes a custom rule
func (s *RulesService) Delete(ctx context.Context, key string) error {
	return s.client.post(ctx, rulesPath+"/delete", &ruleParams{Key: key}, nil)
}

// Repositories lists the rule repositories
func (s *RulesService) Repositories(ctx context.Context, language, query string) ([]map[string]interface{}, error) {
	var resp struct {
		Repositories []map[string]interface{} `json:"repositories"`
	}
	params := &ruleParams{Language: language, Query: query}
	if err := s.client.get(ctx, rulesPath+"/repositories", params, &resp); err != nil {
		return nil, err
	}
	return resp.Repositories, nil
}

// Search searches rules
func (s *RulesService) Search(ctx context.Context, opts *RuleSearchOptions) (*RuleSearchResponse, error) {
	var resp RuleSearchResponse
	if err := s.client.get(ctx, rulesPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Show returns a rule, and its activations in quality profiles when actives is set
func (s *RulesService) Show(ctx context.Context, key string, actives *bool) (*RuleShowResponse, error) {
	var resp RuleShowResponse
	if err := s.client.get(ctx, rulesPath+"/show", &ruleParams{Key: key, Actives: actives}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tags lists rule tags
func (s *RulesService) Tags(ctx context.Context, query string, pageSize int) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := s.client.get(ctx, rulesPath+"/tags", &ruleParams{Query: query, PageSize: pageSize}, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// Update changes a rule
func (s *RulesService) Update(ctx context.Context, opts *RuleUpdateOptions) (*Rule, error) {
	if opts == nil || opts.Key == "" {
		return nil, errors.New("rule key is required")
	}
	var rule Rule
	if err := s.client.postEnvelope(ctx, rulesPath+"/update", opts, "rule", &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}
