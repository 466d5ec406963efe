package gosonar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Globals are applicable to all commands and used for general
	// configuration settings for gosonar.
	Globals = "global"
)

// GlobalOption defines the name of the global options
type GlobalOption string

const (
	// URL is the base URL of the SonarQube server
	URL GlobalOption = "url"
	// Token is the user token used for authentication
	Token GlobalOption = "token"
	// Login is the user login used for basic authentication
	Login GlobalOption = "login"
	// Password goes with Login
	Password GlobalOption = "password"
	// Timeout of every request, as a Go duration or a number of seconds
	Timeout GlobalOption = "timeout"
	// Insecure skips the verification of TLS certificates
	Insecure GlobalOption = "insecure"
	// Retries is the maximum number of retries of a request
	Retries GlobalOption = "retries"
)

// Config is used to provide configuration and customization of the client.
// The global section holds the connection settings, other sections are free.
type Config map[string]interface{}

// NewConfig initializes a new configuration instance. The configuration data then
// needs to be loaded via c.ReadFrom(strings.NewReader("config data"))
// or from a *os.File.
func NewConfig() Config {
	cfg := make(Config)
	cfg[Globals] = make(map[GlobalOption]string)
	return cfg
}

func (c Config) keyToGlobalOptions(key string) GlobalOption {
	return GlobalOption(key)
}

func (c Config) convertGlobals() {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[string]interface{}); ok {
			validGlobals := map[GlobalOption]string{}
			for k, v := range settings {
				validGlobals[c.keyToGlobalOptions(k)] = fmt.Sprintf("%v", v)
			}
			c[Globals] = validGlobals
		}
	}
}

// ReadFrom implements the io.ReaderFrom interface. This
// should be used with io.Reader to load configuration from
// file or from string etc. Both JSON and YAML documents are accepted.
func (c Config) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return int64(len(data)), errors.New("empty configuration")
	}
	if err = json.Unmarshal(data, &c); err != nil {
		if yerr := yaml.Unmarshal(data, &c); yerr != nil {
			return int64(len(data)), fmt.Errorf("parsing configuration: %w", err)
		}
	}
	c.convertGlobals()
	return int64(len(data)), nil
}

// WriteTo implements the io.WriteTo interface. This should
// be used to save or print out the configuration information.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return int64(len(data)), err
	}
	return io.Copy(w, bytes.NewReader(data))
}

// Get returns the configuration section for the supplied key
func (c Config) Get(section string) (interface{}, error) {
	settings, found := c[section]
	if !found {
		return nil, fmt.Errorf("section %s not in configuration", section)
	}
	return settings, nil
}

// Set section in the configuration
func (c Config) Set(section string, value interface{}) {
	c[section] = value
}

// GetGlobal returns value associated with global configuration option
func (c Config) GetGlobal(option GlobalOption) (string, error) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			if value, ok := settings[option]; ok {
				return value, nil
			}
			return "", fmt.Errorf("global setting for %s not found", option)
		}
	}
	return "", fmt.Errorf("no global config options found")
}

// SetGlobal associates a value with a global configuration option
func (c Config) SetGlobal(option GlobalOption, value string) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			settings[option] = value
		}
	}
}

// IsGlobalEnabled checks if a global option is enabled
func (c Config) IsGlobalEnabled(option GlobalOption) (bool, error) {
	value, err := c.GetGlobal(option)
	if err != nil {
		return false, err
	}
	return value == "true" || value == "enabled", nil
}

// ClientOptions turns the global section into client options. Unset options
// are skipped so the client defaults apply.
func (c Config) ClientOptions() ([]ClientOption, error) {
	var opts []ClientOption
	if token, err := c.GetGlobal(Token); err == nil && token != "" {
		opts = append(opts, WithToken(token))
	} else if login, err := c.GetGlobal(Login); err == nil && login != "" {
		password, err := c.GetGlobal(Password)
		if err != nil {
			return nil, errors.New("password is required when username is provided")
		}
		opts = append(opts, WithBasicAuth(login, password))
	}
	if value, err := c.GetGlobal(Timeout); err == nil && value != "" {
		timeout, err := parseTimeout(value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTimeout(timeout))
	}
	if insecure, err := c.IsGlobalEnabled(Insecure); err == nil && insecure {
		opts = append(opts, WithInsecureSkipVerify())
	}
	if value, err := c.GetGlobal(Retries); err == nil && value != "" {
		retries, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid retries %q: %w", value, err)
		}
		opts = append(opts, WithMaxRetries(retries))
	}
	return opts, nil
}

func parseTimeout(value string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", value, err)
	}
	return timeout, nil
}
