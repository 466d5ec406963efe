package gosonar

import (
	"context"
	"errors"
	"sort"
	"strings"
)

const qualityProfilesPath = "/api/qualityprofiles"

// QualityProfilesService manages quality profiles and their rules
type QualityProfilesService service

// QualityProfile is a set of activated rules for a language
type QualityProfile struct {
	Key                       string                 `json:"key" sonar:"required"`
	Name                      string                 `json:"name" sonar:"required"`
	Language                  string                 `json:"language" sonar:"required"`
	LanguageName              string                 `json:"languageName,omitempty"`
	IsInherited               bool                   `json:"isInherited,omitempty"`
	IsDefault                 bool                   `json:"isDefault,omitempty"`
	IsBuiltIn                 bool                   `json:"isBuiltIn,omitempty"`
	ParentKey                 string                 `json:"parentKey,omitempty"`
	ParentName                string                 `json:"parentName,omitempty"`
	ActiveRuleCount           int                    `json:"activeRuleCount,omitempty"`
	ActiveDeprecatedRuleCount int                    `json:"activeDeprecatedRuleCount,omitempty"`
	RulesUpdatedAt            string                 `json:"rulesUpdatedAt,omitempty"`
	LastUsed                  string                 `json:"lastUsed,omitempty"`
	UserUpdatedAt             string                 `json:"userUpdatedAt,omitempty"`
	ProjectCount              int                    `json:"projectCount,omitempty"`
	Actions                   map[string]interface{} `json:"actions,omitempty"`
}

// QualityProfileSearchResponse is returned by QualityProfilesService.Search
type QualityProfileSearchResponse struct {
	Profiles []*QualityProfile      `json:"profiles"`
	Actions  map[string]interface{} `json:"actions,omitempty"`
}

// QualityProfileCreateResponse is returned by Create and Copy
type QualityProfileCreateResponse struct {
	Profile  *QualityProfile `json:"profile"`
	Warnings []string        `json:"warnings,omitempty"`
	Infos    []string        `json:"infos,omitempty"`
}

// QualityProfileInheritanceResponse is returned by QualityProfilesService.Inheritance
type QualityProfileInheritanceResponse struct {
	Profile   *QualityProfile   `json:"profile"`
	Ancestors []*QualityProfile `json:"ancestors,omitempty"`
	Children  []*QualityProfile `json:"children,omitempty"`
}

// QualityProfileChange is an entry of a quality profile changelog
type QualityProfileChange struct {
	Date        string                 `json:"date" sonar:"required"`
	AuthorLogin string                 `json:"authorLogin,omitempty"`
	AuthorName  string                 `json:"authorName,omitempty"`
	Action      string                 `json:"action,omitempty"`
	RuleKey     string                 `json:"ruleKey,omitempty"`
	RuleName    string                 `json:"ruleName,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`
}

// QualityProfileChangelogResponse is returned by QualityProfilesService.Changelog
type QualityProfileChangelogResponse struct {
	Events []*QualityProfileChange `json:"events"`
	Paging *Paging                 `json:"paging,omitempty"`
	P      int                     `json:"p,omitempty"`
	PS     int                     `json:"ps,omitempty"`
	Total  int                     `json:"total,omitempty"`
}

// QualityProfileProjectsResponse is returned by QualityProfilesService.Projects
type QualityProfileProjectsResponse struct {
	Paging  *Paging                  `json:"paging,omitempty"`
	Results []map[string]interface{} `json:"results"`
}

// ActivateRuleOptions holds the parameters of QualityProfilesService.ActivateRule
type ActivateRuleOptions struct {
	Key      string
	Rule     string
	Params   map[string]string
	Reset    *bool
	Severity string
}

type activateRuleParams struct {
	Key      string `url:"key"`
	Rule     string `url:"rule"`
	Params   string `url:"params,omitempty"`
	Reset    *bool  `url:"reset,omitempty"`
	Severity string `url:"severity,omitempty"`
}

// encodeRuleParams renders rule parameters as "key1=value1;key2=value2"
func encodeRuleParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, ";")
}

// BulkRuleOptions selects the rules to activate or deactivate in bulk
type BulkRuleOptions struct {
	RuleFilters
	TargetKey string `url:"targetKey"`
	// TargetSeverity is only used on activation
	TargetSeverity string `url:"targetSeverity,omitempty"`
}

// QualityProfileChangelogOptions holds the parameters of QualityProfilesService.Changelog
type QualityProfileChangelogOptions struct {
	ListOptions
	Language       string `url:"language"`
	QualityProfile string `url:"qualityProfile"`
	Since          string `url:"since,omitempty"`
	To             string `url:"to,omitempty"`
}

// QualityProfileProjectsOptions holds the parameters of QualityProfilesService.Projects
type QualityProfileProjectsOptions struct {
	ListOptions
	Key      string `url:"key"`
	Query    string `url:"q,omitempty"`
	Selected string `url:"selected,omitempty"`
}

// QualityProfileSearchOptions holds the filters of QualityProfilesService.Search
type QualityProfileSearchOptions struct {
	Defaults       *bool  `url:"defaults,omitempty"`
	Language       string `url:"language,omitempty"`
	Project        string `url:"project,omitempty"`
	QualityProfile string `url:"qualityProfile,omitempty"`
}

type qualityProfileParams struct {
	Key                  string `url:"key,omitempty"`
	Rule                 string `url:"rule,omitempty"`
	Project              string `url:"project,omitempty"`
	Name                 string `url:"name,omitempty"`
	Language             string `url:"language,omitempty"`
	QualityProfile       string `url:"qualityProfile,omitempty"`
	ParentQualityProfile string `url:"parentQualityProfile,omitempty"`
	FromKey              string `url:"fromKey,omitempty"`
	ToName               string `url:"toName,omitempty"`
	CompareToSonarWay    *bool  `url:"compareToSonarWay,omitempty"`
}

// ActivateRule activates a rule in a quality profile
func (s *QualityProfilesService) ActivateRule(ctx context.Context, opts *ActivateRuleOptions) error {
	if opts == nil || opts.Key == "" || opts.Rule == "" {
		return errors.New("profile key and rule are required")
	}
	params := &activateRuleParams{
		Key:      opts.Key,
		Rule:     opts.Rule,
		Params:   encodeRuleParams(opts.Params),
		Reset:    opts.Reset,
		Severity: opts.Severity,
	}
	return s.client.post(ctx, qualityProfilesPath+"/activate_rule", params, nil)
}

// ActivateRules activates every rule matching the filters
func (s *QualityProfilesService) ActivateRules(ctx context.Context, opts *BulkRuleOptions) (map[string]interface{}, error) {
	if opts == nil || opts.TargetKey == "" {
		return nil, errors.New("target profile key is required")
	}
	resp := map[string]interface{}{}
	if err := s.client.post(ctx, qualityProfilesPath+"/activate_rules", opts, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AddProject associates a project to a quality profile
func (s *QualityProfilesService) AddProject(ctx context.Context, key, project string) error {
	params := &qualityProfileParams{Key: key, Project: project}
	return s.client.post(ctx, qualityProfilesPath+"/add_project", params, nil)
}

// Backup returns the XML backup of a quality profile
func (s *QualityProfilesService) Backup(ctx context.Context, language, qualityProfile string) (string, error) {
	params := &qualityProfileParams{Language: language, QualityProfile: qualityProfile}
	return s.client.getText(ctx, qualityProfilesPath+"/backup", params)
}

// Changelog returns the history of a quality profile
func (s *QualityProfilesService) Changelog(ctx context.Context, opts *QualityProfileChangelogOptions) (*QualityProfileChangelogResponse, error) {
	var resp QualityProfileChangelogResponse
	if err := s.client.get(ctx, qualityProfilesPath+"/changelog", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangeParent changes the parent of a quality profile. An empty parent
// detaches the profile.
func (s *QualityProfilesService) ChangeParent(ctx context.Context, language, qualityProfile, parent string) error {
	params := &qualityProfileParams{Language: language, QualityProfile: qualityProfile, ParentQualityProfile: parent}
	return s.client.post(ctx, qualityProfilesPath+"/change_parent", params, nil)
}

// Copy copies a quality profile under a new name
func (s *QualityProfilesService) Copy(ctx context.Context, fromKey, toName string) (*QualityProfileCreateResponse, error) {
	var resp QualityProfileCreateResponse
	params := &qualityProfileParams{FromKey: fromKey, ToName: toName}
	if err := s.client.post(ctx, qualityProfilesPath+"/copy", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates an empty quality profile
func (s *QualityProfilesService) Create(ctx context.Context, language, name string) (*QualityProfileCreateResponse, error) {
	var resp QualityProfileCreateResponse
	params := &qualityProfileParams{Language: language, Name: name}
	if err := s.client.post(ctx, qualityProfilesPath+"/create", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeactivateRule deactivates a rule in a quality profile
func (s *QualityProfilesService) DeactivateRule(ctx context.Context, key, rule string) error {
	params := &qualityProfileParams{Key: key, Rule: rule}
	return s.client.post(ctx, qualityProfilesPath+"/deactivate_rule", params, nil)
}

// DeactivateRules deactivates every rule matching the filters
func (s *QualityProfilesService) DeactivateRules(ctx context.Context, opts *BulkRuleOptions) (map[string]interface{}, error) {
	if opts == nil || opts.TargetKey == "" {
		return nil, errors.New("target profile key is required")
	}
	params := *opts
	params.TargetSeverity = ""
	resp := map[string]interface{}{}
	if err := s.client.post(ctx, qualityProfilesPath+"/deactivate_rules", &params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete deletes a quality profile and its descendants
func (s *QualityProfilesService) Delete(ctx context.Context, language, qualityProfile string) error {
	params := &qualityProfileParams{Language: language, QualityProfile: qualityProfile}
	return s.client.post(ctx, qualityProfilesPath+"/delete", params, nil)
}

// Inheritance returns the ancestors and the children of a quality profile
func (s *QualityProfilesService) Inheritance(ctx context.Context, language, qualityProfile string) (*QualityProfileInheritanceResponse, error) {
	var resp QualityProfileInheritanceResponse
	params := &qualityProfileParams{Language: language, QualityProfile: qualityProfile}
	if err := s.client.get(ctx, qualityProfilesPath+"/inheritance", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Projects lists the projects associated to a quality profile
func (s *QualityProfilesService) Projects(ctx context.Context, opts *QualityProfileProjectsOptions) (*QualityProfileProjectsResponse, error) {
	var resp QualityProfileProjectsResponse
	if err := s.client.get(ctx, qualityProfilesPath+"/projects", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveProject detaches a project from a quality profile
func (s *QualityProfilesService) RemoveProject(ctx context.Context, key, project string) error {
	params := &qualityProfileParams{Key: key, Project: project}
	return s.client.post(ctx, qualityProfilesPath+"/remove_project", params, nil)
}

// Rename renames a quality profile
func (s *QualityProfilesService) Rename(ctx context.Context, key, name string) error {
	params := &qualityProfileParams{Key: key, Name: name}
	return s.client.post(ctx, qualityProfilesPath+"/rename", params, nil)
}

// Search lists quality profiles
func (s *QualityProfilesService) Search(ctx context.Context, opts *QualityProfileSearchOptions) (*QualityProfileSearchResponse, error) {
	var resp QualityProfileSearchResponse
	if err := s.client.get(ctx, qualityProfilesPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetDefault makes a quality profile the default one of its language
func (s *QualityProfilesService) SetDefault(ctx context.Context, language, qualityProfile string) error {
	params := &qualityProfileParams{Language: language, QualityProfile: qualityProfile}
	return s.client.post(ctx, qualityProfilesPath+"/set_default", params, nil)
}

// Show returns a quality profile
func (s *QualityProfilesService) Show(ctx context.Context, key string, compareToSonarWay *bool) (*QualityProfile, error) {
	var resp struct {
		Profile *QualityProfile `json:"profile"`
	}
	params := &qualityProfileParams{Key: key, CompareToSonarWay: compareToSonarWay}
	if err := s.client.get(ctx, qualityProfilesPath+"/show", params, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}
