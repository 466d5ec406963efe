package gosonar

import "context"

const sourcesPath = "/api/sources"

// SourcesService reads source code of files
type SourcesService service

// SourceLine is a line of a source file
type SourceLine struct {
	Line        int    `json:"line"`
	Code        string `json:"code,omitempty"`
	SCMRevision string `json:"scmRevision,omitempty"`
	SCMAuthor   string `json:"scmAuthor,omitempty"`
	SCMDate     string `json:"scmDate,omitempty"`
	Duplicated  *bool  `json:"duplicated,omitempty"`
	IsNew       *bool  `json:"isNew,omitempty"`
}

// SourceLinesOptions holds the parameters of SourcesService.Lines
type SourceLinesOptions struct {
	Key         string `url:"key"`
	Branch      string `url:"branch,omitempty"`
	From        int    `url:"from,omitempty"`
	PullRequest string `url:"pullRequest,omitempty"`
	To          int    `url:"to,omitempty"`
}

// SCMOptions holds the parameters of SourcesService.SCM
type SCMOptions struct {
	Key           string `url:"key"`
	CommitsByLine *bool  `url:"commits_by_line,omitempty"`
	From          int    `url:"from,omitempty"`
	To            int    `url:"to,omitempty"`
}

type sourceParams struct {
	Key         string `url:"key"`
	Branch      string `url:"branch,omitempty"`
	PullRequest string `url:"pullRequest,omitempty"`
}

// Raw returns the raw content of a file, an empty string when there is none
func (s *SourcesService) Raw(ctx context.Context, key, branch, pullRequest string) (string, error) {
	params := &sourceParams{Key: key, Branch: branch, PullRequest: pullRequest}
	return s.client.getText(ctx, sourcesPath+"/raw", params)
}

// Lines returns the lines of a file with their SCM information
func (s *SourcesService) Lines(ctx context.Context, opts *SourceLinesOptions) ([]*SourceLine, error) {
	var resp struct {
		Sources []*SourceLine `json:"sources"`
	}
	if err := s.client.get(ctx, sourcesPath+"/lines", opts, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// SCM returns the SCM information of a file. Every entry holds the line
// number, the author, the date and the revision.
func (s *SourcesService) SCM(ctx context.Context, opts *SCMOptions) ([][]interface{}, error) {
	var resp struct {
		SCM [][]interface{} `json:"scm"`
	}
	if err := s.client.get(ctx, sourcesPath+"/scm", opts, &resp); err != nil {
		return nil, err
	}
	return resp.SCM, nil
}
