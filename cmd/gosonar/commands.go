package main

import (
	"fmt"

	"github.com/ccojocar/zxcvbn-go"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/securego/gosonar"
	"github.com/securego/gosonar/autofix"
)

// minPasswordScore is the lowest zxcvbn score accepted without warning
const minPasswordScore = 3

func newStatusCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the server status and health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			status, err := client.System.Status(cmd.Context())
			if err != nil {
				return err
			}
			health := "unknown"
			if h, err := client.System.Health(cmd.Context()); err != nil {
				logger.Warnf("reading system health: %v", err)
			} else {
				health = h.Health
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Server:  %s\nID:      %s\nVersion: %s\nStatus:  %s\nHealth:  %s\n",
				client.BaseURL(), status.ID, status.Version, status.Status, health)
			return err
		},
	}
}

func newProjectsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "projects [query]",
		Short: "Search projects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			opts := &gosonar.ProjectSearchOptions{}
			if len(args) == 1 {
				opts.Query = args[0]
			}
			projects, err := client.Projects.SearchAll(cmd.Context(), opts)
			if err != nil {
				return err
			}
			logger.Debugf("found %d projects", len(projects))

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("KEY", "NAME", "VISIBILITY", "LAST ANALYSIS")
			for _, p := range projects {
				if err := table.Append([]string{p.Key, p.Name, p.Visibility, p.LastAnalysisDate}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func newIssuesCommand(flags *globalFlags) *cobra.Command {
	var (
		project       string
		branch        string
		pullRequest   string
		severities    []string
		types         []string
		statuses      []string
		withGate      bool
		sortBySev     bool
		noFail        bool
		aiAPIProvider string
		aiAPIKey      string
		aiEndpoint    string
	)
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Report the unresolved issues of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			unresolved := false
			issues, err := client.Issues.SearchAll(cmd.Context(), &gosonar.IssueSearchOptions{
				ComponentKeys: []string{project},
				Branch:        branch,
				PullRequest:   pullRequest,
				Severities:    severities,
				Types:         types,
				Statuses:      statuses,
				Resolved:      &unresolved,
			})
			if err != nil {
				return err
			}
			logger.Infof("found %d issues in %s", len(issues), project)

			var gate *gosonar.ProjectStatus
			if withGate {
				gate, err = client.QualityGates.ProjectStatus(cmd.Context(), &gosonar.ProjectStatusOptions{
					ProjectKey:  project,
					Branch:      branch,
					PullRequest: pullRequest,
				})
				if err != nil {
					return err
				}
			}

			issuesFound := len(issues) > 0
			if !issuesFound && flags.quiet {
				return nil
			}
			if sortBySev {
				sortIssues(issues)
			}

			data := gosonar.NewReportInfo(issues, nil, gate).WithVersion(Version).WithServerURL(client.BaseURL())
			if aiAPIProvider != "" && issuesFound {
				if err := autofix.GenerateSolution(aiAPIProvider, aiAPIKey, aiEndpoint, data); err != nil {
					logger.Errorf("failed to generate autofix: %v", err)
				}
			}
			if err := saveOutput(flags.output, flags.format, flags.color, data); err != nil {
				return err
			}

			if issuesFound && !noFail {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&project, "project", "", "Project key")
	f.StringVar(&branch, "branch", "", "Branch of the project")
	f.StringVar(&pullRequest, "pull-request", "", "Pull request id")
	f.StringSliceVar(&severities, "severities", nil, "Comma separated list of severities")
	f.StringSliceVar(&types, "types", nil, "Comma separated list of issue types")
	f.StringSliceVar(&statuses, "statuses", nil, "Comma separated list of issue statuses")
	f.BoolVar(&withGate, "gate", false, "Include the quality gate status in the report")
	f.BoolVar(&sortBySev, "sort", true, "Sort issues by severity")
	f.BoolVar(&noFail, "no-fail", false, "Do not fail the command, even if issues were found")
	f.StringVar(&aiAPIProvider, "ai-api-provider", "", "AI API provider used to generate autofixes: gemini or a gemini model")
	f.StringVar(&aiAPIKey, "ai-api-key", "", "Key to access the AI API")
	f.StringVar(&aiEndpoint, "ai-endpoint", "", "Endpoint of the AI provider")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newGateCommand(flags *globalFlags) *cobra.Command {
	var project, branch, pullRequest string
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Check the quality gate status of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			status, err := client.QualityGates.ProjectStatus(cmd.Context(), &gosonar.ProjectStatusOptions{
				ProjectKey:  project,
				Branch:      branch,
				PullRequest: pullRequest,
			})
			if err != nil {
				return err
			}
			logger.Infof("quality gate of %s is %s", project, status.Status)

			data := gosonar.NewReportInfo(nil, nil, status).WithVersion(Version).WithServerURL(client.BaseURL())
			if err := saveOutput(flags.output, flags.format, flags.color, data); err != nil {
				return err
			}
			if !status.Passed() {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&project, "project", "", "Project key")
	f.StringVar(&branch, "branch", "", "Branch of the project")
	f.StringVar(&pullRequest, "pull-request", "", "Pull request id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTokenCommand(flags *globalFlags) *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage user tokens",
	}

	var opts gosonar.GenerateTokenOptions
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a user token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			if opts.Name == "" {
				opts.Name = "gosonar-" + uuid.NewString()
			}
			generated, err := client.UserTokens.Generate(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			logger.Infof("generated token %s for %s", generated.Name, generated.Login)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), generated.Token)
			return err
		},
	}
	gf := generate.Flags()
	gf.StringVar(&opts.Name, "name", "", "Token name, generated when empty")
	gf.StringVar(&opts.Login, "user", "", "Login of the token owner, the authenticated user when empty")
	gf.StringVar(&opts.Type, "type", "", "Token type: USER_TOKEN, GLOBAL_ANALYSIS_TOKEN or PROJECT_ANALYSIS_TOKEN")
	gf.StringVar(&opts.ProjectKey, "project", "", "Project of a project analysis token")
	gf.StringVar(&opts.ExpirationDate, "expires", "", "Expiration date, as YYYY-MM-DD")

	var owner string
	revoke := &cobra.Command{
		Use:   "revoke <name>",
		Short: "Revoke a user token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.UserTokens.Revoke(cmd.Context(), args[0], owner); err != nil {
				return err
			}
			logger.Infof("revoked token %s", args[0])
			return nil
		},
	}
	revoke.Flags().StringVar(&owner, "user", "", "Login of the token owner, the authenticated user when empty")

	token.AddCommand(generate, revoke)
	return token
}

// passwordScore rates a password from 0 to 4, penalizing the user inputs
func passwordScore(password string, userInputs ...string) int {
	return zxcvbn.PasswordStrength(password, userInputs).Score
}

func newUsersCommand(flags *globalFlags) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	var opts gosonar.UserCreateOptions
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a local user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Password != "" {
				if score := passwordScore(opts.Password, opts.Login, opts.Name, opts.Email); score < minPasswordScore {
					logger.Warnf("weak password for %s: score %d/4", opts.Login, score)
				}
			}

			client, err := newClient(cmd, flags)
			if err != nil {
				return err
			}
			defer client.Close()

			user, err := client.Users.Create(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", user.Login)
			return err
		},
	}
	cf := create.Flags()
	cf.StringVar(&opts.Login, "user", "", "Login of the new user")
	cf.StringVar(&opts.Name, "name", "", "Display name")
	cf.StringVar(&opts.Email, "email", "", "Email address")
	cf.StringVar(&opts.Password, "user-password", "", "Password of a local user")
	cf.StringSliceVar(&opts.SCMAccounts, "scm-account", nil, "SCM accounts of the user")
	_ = create.MarkFlagRequired("user")
	_ = create.MarkFlagRequired("name")

	users.AddCommand(create)
	return users
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
			return err
		},
	}
}
