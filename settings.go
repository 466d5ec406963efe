package gosonar

import (
	"context"
	"errors"
)

const settingsPath = "/api/settings"

// SettingsService reads and writes global and component settings
type SettingsService service

// Setting is the value of a setting
type Setting struct {
	Key          string                   `json:"key" sonar:"required"`
	Value        string                   `json:"value,omitempty"`
	Values       []string                 `json:"values,omitempty"`
	FieldValues  []map[string]interface{} `json:"fieldValues,omitempty"`
	Inherited    *bool                    `json:"inherited,omitempty"`
	ParentValue  string                   `json:"parentValue,omitempty"`
	ParentValues []string                 `json:"parentValues,omitempty"`
}

// SettingDefinition describes a setting
type SettingDefinition struct {
	Key          string                   `json:"key" sonar:"required"`
	Name         string                   `json:"name,omitempty"`
	Description  string                   `json:"description,omitempty"`
	Category     string                   `json:"category,omitempty"`
	SubCategory  string                   `json:"subCategory,omitempty"`
	Type         string                   `json:"type,omitempty"`
	DefaultValue string                   `json:"defaultValue,omitempty"`
	MultiValues  *bool                    `json:"multiValues,omitempty"`
	Options      []string                 `json:"options,omitempty"`
	Fields       []map[string]interface{} `json:"fields,omitempty"`
}

// SettingsValuesResponse is returned by SettingsService.Values
type SettingsValuesResponse struct {
	Settings           []*Setting `json:"settings"`
	SetSecuredSettings []string   `json:"setSecuredSettings,omitempty"`
}

// SettingLocation narrows a setting to a component, a branch or a pull request
type SettingLocation struct {
	Branch      string `url:"branch,omitempty"`
	Component   string `url:"component,omitempty"`
	PullRequest string `url:"pullRequest,omitempty"`
}

// SetSettingOptions holds the parameters of SettingsService.Set. Only one of
// Value, Values or FieldValues is expected.
type SetSettingOptions struct {
	SettingLocation
	Key    string   `url:"key"`
	Value  string   `url:"value,omitempty"`
	Values []string `url:"values,omitempty"`
	// FieldValues are JSON objects, one per entry of a property set
	FieldValues []string `url:"fieldValues,omitempty"`
}

type settingParams struct {
	SettingLocation
	Keys []string `url:"keys,omitempty,comma"`
}

// ListDefinitions lists the setting definitions, for a component when given
func (s *SettingsService) ListDefinitions(ctx context.Context, component string) ([]*SettingDefinition, error) {
	var resp struct {
		Definitions []*SettingDefinition `json:"definitions"`
	}
	params := &settingParams{SettingLocation: SettingLocation{Component: component}}
	if err := s.client.get(ctx, settingsPath+"/list_definitions", params, &resp); err != nil {
		return nil, err
	}
	return resp.Definitions, nil
}

// Reset removes the value of settings, falling back to their default
func (s *SettingsService) Reset(ctx context.Context, keys []string, location *SettingLocation) error {
	if len(keys) == 0 {
		return errors.New("at least one setting key is required")
	}
	params := &settingParams{Keys: keys}
	if location != nil {
		params.SettingLocation = *location
	}
	return s.client.post(ctx, settingsPath+"/reset", params, nil)
}

// Set changes the value of a setting
func (s *SettingsService) Set(ctx context.Context, opts *SetSettingOptions) error {
	if opts == nil || opts.Key == "" {
		return errors.New("setting key is required")
	}
	return s.client.post(ctx, settingsPath+"/set", opts, nil)
}

// Values returns setting values, all of them when keys is empty
func (s *SettingsService) Values(ctx context.Context, component string, keys []string) (*SettingsValuesResponse, error) {
	var resp SettingsValuesResponse
	params := &settingParams{SettingLocation: SettingLocation{Component: component}, Keys: keys}
	if err := s.client.get(ctx, settingsPath+"/values", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
