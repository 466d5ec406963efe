package gosonar

import (
	"context"
	"errors"
)

const userTokensPath = "/api/user_tokens"

// Token types
const (
	UserToken            = "USER_TOKEN"
	GlobalAnalysisToken  = "GLOBAL_ANALYSIS_TOKEN"
	ProjectAnalysisToken = "PROJECT_ANALYSIS_TOKEN"
)

// UserTokensService manages access tokens
type UserTokensService service

// TokenInfo describes an existing token. The token value is never returned.
type TokenInfo struct {
	Name               string                 `json:"name" sonar:"required"`
	CreatedAt          string                 `json:"createdAt,omitempty"`
	LastConnectionDate string                 `json:"lastConnectionDate,omitempty"`
	Type               string                 `json:"type,omitempty"`
	ExpirationDate     string                 `json:"expirationDate,omitempty"`
	IsExpired          *bool                  `json:"isExpired,omitempty"`
	Project            map[string]interface{} `json:"project,omitempty"`
}

// GeneratedToken is a new token and its value
type GeneratedToken struct {
	Login          string `json:"login" sonar:"required"`
	Name           string `json:"name" sonar:"required"`
	Token          string `json:"token" sonar:"required"`
	CreatedAt      string `json:"createdAt,omitempty"`
	Type           string `json:"type,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// TokenSearchResponse is returned by UserTokensService.Search
type TokenSearchResponse struct {
	Login      string       `json:"login" sonar:"required"`
	UserTokens []*TokenInfo `json:"userTokens"`
}

// GenerateTokenOptions holds the parameters of UserTokensService.Generate
type GenerateTokenOptions struct {
	Name string `url:"name"`
	// Login defaults to the authenticated user
	Login          string `url:"login,omitempty"`
	ExpirationDate string `url:"expirationDate,omitempty"`
	ProjectKey     string `url:"projectKey,omitempty"`
	Type           string `url:"type,omitempty"`
}

type userTokenParams struct {
	Name  string `url:"name,omitempty"`
	Login string `url:"login,omitempty"`
}

// Generate creates a token
func (s *UserTokensService) Generate(ctx context.Context, opts *GenerateTokenOptions) (*GeneratedToken, error) {
	if opts == nil || opts.Name == "" {
		return nil, errors.New("token name is required")
	}
	var resp GeneratedToken
	if err := s.client.post(ctx, userTokensPath+"/generate", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Revoke revokes a token of login, or of the authenticated user when login is empty
func (s *UserTokensService) Revoke(ctx context.Context, name, login string) error {
	return s.client.post(ctx, userTokensPath+"/revoke", &userTokenParams{Name: name, Login: login}, nil)
}

// Search lists the tokens of login, or of the authenticated user when login is empty
func (s *UserTokensService) Search(ctx context.Context, login string) (*TokenSearchResponse, error) {
	var resp TokenSearchResponse
	if err := s.client.get(ctx, userTokensPath+"/search", &userTokenParams{Login: login}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
