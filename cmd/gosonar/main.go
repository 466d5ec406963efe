// (c) Copyright 2016 Hewlett Packard Enterprise Development LP
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/securego/gosonar"
	"github.com/securego/gosonar/report"
)

const (
	envHostURL = "SONAR_HOST_URL"
	envToken   = "SONAR_TOKEN"
)

// exitError carries the exit code of a command that ran fine but whose
// outcome must fail the build (issues found, quality gate in error)
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return "exit status " + strconv.Itoa(e.code)
}

type globalFlags struct {
	url      string
	token    string
	login    string
	password string
	conf     string
	timeout  string
	insecure bool
	retries  int
	logFile  string
	quiet    bool
	debug    bool
	format   string
	output   string
	color    bool
}

var logger = newLogger(os.Stderr, false, false)

func newLogger(w io.Writer, quiet, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.SetOutput(w)
	if quiet {
		l.SetOutput(io.Discard)
	}
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// rootCommand closes the --log file once the command returns, even on error
type rootCommand struct {
	*cobra.Command
	logWriter io.WriteCloser
}

// Execute runs the command tree then closes the log file
func (r *rootCommand) Execute() error {
	err := r.Command.Execute()
	if r.logWriter != nil {
		if cerr := r.logWriter.Close(); cerr != nil && err == nil {
			err = cerr
		}
		r.logWriter = nil
	}
	return err
}

func newRootCommand() *rootCommand {
	flags := &globalFlags{}
	r := &rootCommand{}

	root := &cobra.Command{
		Use:   "gosonar",
		Short: "gosonar - SonarQube command line client",
		Long: fmt.Sprintf(`gosonar - SonarQube command line client
(%s - %s - %s)

gosonar queries a SonarQube server: its status, projects, issues and
quality gates. Reports are written in the formats of the report package.`, Version, GitTag, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			w := io.Writer(os.Stderr)
			if flags.logFile != "" {
				f, err := os.Create(flags.logFile)
				if err != nil {
					return err
				}
				r.logWriter = f
				w = f
			}
			logger = newLogger(w, flags.quiet, flags.debug)
			return nil
		},
	}
	r.Command = root

	pf := root.PersistentFlags()
	pf.StringVar(&flags.url, "url", "", "SonarQube server URL (defaults to $"+envHostURL+")")
	pf.StringVar(&flags.token, "token", "", "User token (defaults to $"+envToken+")")
	pf.StringVar(&flags.login, "login", "", "Login for basic authentication")
	pf.StringVar(&flags.password, "password", "", "Password for basic authentication")
	pf.StringVar(&flags.conf, "conf", "", "Path to optional config file")
	pf.StringVar(&flags.timeout, "timeout", "", "Request timeout, in seconds or as a duration")
	pf.BoolVar(&flags.insecure, "insecure", false, "Skip TLS certificate verification")
	pf.IntVar(&flags.retries, "retries", gosonar.DefaultMaxRetries, "Number of retries of a failed request")
	pf.StringVar(&flags.logFile, "log", "", "Log messages to file rather than stderr")
	pf.BoolVar(&flags.quiet, "quiet", false, "Only show output when errors are found")
	pf.BoolVar(&flags.debug, "debug", false, "Trace every request")
	pf.StringVar(&flags.format, "fmt", "text", fmt.Sprintf("Set output format. Valid options are: %v", report.Formats))
	pf.StringVar(&flags.output, "out", "", "Set output file for results")
	pf.BoolVar(&flags.color, "color", true, "Prints the text format report with colorization when it goes in the stdout")

	root.AddCommand(
		newStatusCommand(flags),
		newProjectsCommand(flags),
		newIssuesCommand(flags),
		newGateCommand(flags),
		newTokenCommand(flags),
		newUsersCommand(flags),
		newVersionCommand(),
	)
	return r
}

func loadConfig(configFile string) (gosonar.Config, error) {
	config := gosonar.NewConfig()
	if configFile != "" {
		// #nosec
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if _, err := config.ReadFrom(file); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// mergeFlags applies the command line on top of the config file, the
// environment only fills what neither of them sets
func mergeFlags(config gosonar.Config, flags *globalFlags, cmd *cobra.Command) {
	set := func(option gosonar.GlobalOption, value, env string) {
		if value != "" {
			config.SetGlobal(option, value)
			return
		}
		if current, err := config.GetGlobal(option); err == nil && current != "" {
			return
		}
		if env != "" {
			if value := os.Getenv(env); value != "" {
				config.SetGlobal(option, value)
			}
		}
	}
	set(gosonar.URL, flags.url, envHostURL)
	set(gosonar.Token, flags.token, envToken)
	set(gosonar.Login, flags.login, "")
	set(gosonar.Password, flags.password, "")
	set(gosonar.Timeout, flags.timeout, "")
	if flags.insecure {
		config.SetGlobal(gosonar.Insecure, "true")
	}
	if cmd != nil && cmd.Flags().Changed("retries") {
		config.SetGlobal(gosonar.Retries, strconv.Itoa(flags.retries))
	}
}

func newClient(cmd *cobra.Command, flags *globalFlags) (*gosonar.Client, error) {
	config, err := loadConfig(flags.conf)
	if err != nil {
		return nil, err
	}
	mergeFlags(config, flags, cmd)

	url, err := config.GetGlobal(gosonar.URL)
	if err != nil || url == "" {
		return nil, fmt.Errorf("SonarQube URL is required: use --url or $%s", envHostURL)
	}
	options, err := config.ClientOptions()
	if err != nil {
		return nil, err
	}
	options = append(options,
		gosonar.WithLogger(logger.WithField("server", url)),
		gosonar.WithUserAgent("gosonar/"+Version),
	)
	return gosonar.NewClient(url, options...)
}

func saveOutput(filename, format string, color bool, data *gosonar.ReportInfo) error {
	if filename != "" {
		outfile, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer outfile.Close()
		return report.CreateReport(outfile, format, false, data)
	}
	return report.CreateReport(os.Stdout, format, color, data)
}

func main() {
	prepareVersionInfo()

	if err := newRootCommand().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err) // #nosec
		os.Exit(1)
	}
}
