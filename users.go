package gosonar

import (
	"context"
	"errors"
)

const usersPath = "/api/users"

// UsersService manages users
type UsersService service

// User describes a user account
type User struct {
	Login                       string   `json:"login" sonar:"required"`
	Name                        string   `json:"name,omitempty"`
	Active                      *bool    `json:"active,omitempty"`
	Email                       string   `json:"email,omitempty"`
	Local                       *bool    `json:"local,omitempty"`
	ExternalIdentity            string   `json:"externalIdentity,omitempty"`
	ExternalProvider            string   `json:"externalProvider,omitempty"`
	Groups                      []string `json:"groups,omitempty"`
	TokensCount                 int      `json:"tokensCount,omitempty"`
	LastConnectionDate          string   `json:"lastConnectionDate,omitempty"`
	SonarLintLastConnectionDate string   `json:"sonarLintLastConnectionDate,omitempty"`
	Avatar                      string   `json:"avatar,omitempty"`
	Managed                     *bool    `json:"managed,omitempty"`
}

// CurrentUser is the authenticated user
type CurrentUser struct {
	Login       string                 `json:"login" sonar:"required"`
	Name        string                 `json:"name,omitempty"`
	Email       string                 `json:"email,omitempty"`
	Local       *bool                  `json:"local,omitempty"`
	Groups      []string               `json:"groups,omitempty"`
	Permissions map[string]interface{} `json:"permissions,omitempty"`
	IsLoggedIn  *bool                  `json:"isLoggedIn,omitempty"`
}

// UserSearchResponse is returned by UsersService.Search
type UserSearchResponse struct {
	Paging Paging  `json:"paging"`
	Users  []*User `json:"users"`
}

// UserGroupsResponse is returned by UsersService.Groups
type UserGroupsResponse struct {
	Paging Paging                   `json:"paging"`
	Groups []map[string]interface{} `json:"groups"`
}

// UserCreateOptions holds the parameters of UsersService.Create
type UserCreateOptions struct {
	Login string `url:"login"`
	Name  string `url:"name"`
	Email string `url:"email,omitempty"`
	// Local is false for users authenticated by an external provider
	Local       *bool    `url:"local,omitempty"`
	Password    string   `url:"password,omitempty"`
	SCMAccounts []string `url:"scmAccount,omitempty"`
}

// UserUpdateOptions holds the parameters of UsersService.Update
type UserUpdateOptions struct {
	Login       string   `url:"login"`
	Email       string   `url:"email,omitempty"`
	Name        string   `url:"name,omitempty"`
	SCMAccounts []string `url:"scmAccount,omitempty"`
}

// UserSearchOptions holds the filters of UsersService.Search
type UserSearchOptions struct {
	ListOptions
	Active                          *bool  `url:"active,omitempty"`
	ExternalIdentity                string `url:"externalIdentity,omitempty"`
	LastConnectedAfter              string `url:"lastConnectedAfter,omitempty"`
	LastConnectedBefore             string `url:"lastConnectedBefore,omitempty"`
	Managed                         *bool  `url:"managed,omitempty"`
	Query                           string `url:"q,omitempty"`
	SonarLintLastConnectionDateFrom string `url:"sonarLintLastConnectionDateFrom,omitempty"`
	SonarLintLastConnectionDateTo   string `url:"sonarLintLastConnectionDateTo,omitempty"`
}

// UserGroupsOptions holds the parameters of UsersService.Groups
type UserGroupsOptions struct {
	ListOptions
	Login    string `url:"login"`
	Query    string `url:"q,omitempty"`
	Selected string `url:"selected,omitempty"`
}

type userParams struct {
	Login     string `url:"login"`
	NewLogin  string `url:"newLogin,omitempty"`
	Anonymize *bool  `url:"anonymize,omitempty"`
}

// Anonymize anonymizes a deactivated user
func (s *UsersService) Anonymize(ctx context.Context, login string) error {
	return s.client.post(ctx, usersPath+"/anonymize", &userParams{Login: login}, nil)
}

// Create creates a user, or reactivates a deactivated one
func (s *UsersService) Create(ctx context.Context, opts *UserCreateOptions) (*User, error) {
	if opts == nil || opts.Login == "" || opts.Name == "" {
		return nil, errors.New("login and name are required")
	}
	var resp struct {
		User *User `json:"user" sonar:"required"`
	}
	if err := s.client.post(ctx, usersPath+"/create", opts, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Current returns the authenticated user
func (s *UsersService) Current(ctx context.Context) (*CurrentUser, error) {
	var resp CurrentUser
	if err := s.client.get(ctx, usersPath+"/current", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deactivate deactivates a user
func (s *UsersService) Deactivate(ctx context.Context, login string, anonymize *bool) (*User, error) {
	var user User
	params := &userParams{Login: login, Anonymize: anonymize}
	if err := s.client.postEnvelope(ctx, usersPath+"/deactivate", params, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Groups lists the groups of a user
func (s *UsersService) Groups(ctx context.Context, opts *UserGroupsOptions) (*UserGroupsResponse, error) {
	var resp UserGroupsResponse
	if err := s.client.get(ctx, usersPath+"/groups", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search searches users
func (s *UsersService) Search(ctx context.Context, opts *UserSearchOptions) (*UserSearchResponse, error) {
	var resp UserSearchResponse
	if err := s.client.get(ctx, usersPath+"/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update changes a user
func (s *UsersService) Update(ctx context.Context, opts *UserUpdateOptions) (*User, error) {
	if opts == nil || opts.Login == "" {
		return nil, errors.New("login is required")
	}
	var user User
	if err := s.client.postEnvelope(ctx, usersPath+"/update", opts, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLogin changes the login of a user
func (s *UsersService) UpdateLogin(ctx context.Context, login, newLogin string) error {
	return s.client.post(ctx, usersPath+"/update_login", &userParams{Login: login, NewLogin: newLogin}, nil)
}
