package gosonar

import (
	"encoding/base64"
	"errors"
	"net/http"
)

// Authenticator decorates outgoing requests with credentials
type Authenticator interface {
	Authenticate(req *http.Request)
}

// AuthFunc adapts a plain function to the Authenticator interface
type AuthFunc func(req *http.Request)

// Authenticate calls f(req)
func (f AuthFunc) Authenticate(req *http.Request) {
	f(req)
}

// TokenAuth authenticates with a SonarQube user token. The token travels as
// the login part of HTTP basic auth with an empty password.
type TokenAuth struct {
	Token string
}

// NewTokenAuth creates a token authenticator
func NewTokenAuth(token string) (*TokenAuth, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	return &TokenAuth{Token: token}, nil
}

// Authenticate sets the Authorization header
func (a *TokenAuth) Authenticate(req *http.Request) {
	req.Header.Set("Authorization", basicHeader(a.Token, ""))
}

// BasicAuth authenticates with a login and a password
type BasicAuth struct {
	Login    string
	Password string
}

// NewBasicAuth creates a login/password authenticator
func NewBasicAuth(login, password string) (*BasicAuth, error) {
	if login == "" {
		return nil, errors.New("username cannot be empty")
	}
	return &BasicAuth{Login: login, Password: password}, nil
}

// Authenticate sets the Authorization header
func (a *BasicAuth) Authenticate(req *http.Request) {
	req.Header.Set("Authorization", basicHeader(a.Login, a.Password))
}

// NewAuth picks an authenticator from the supplied credentials. A token takes
// precedence over a login. A login needs a password. When nothing is given
// the returned Authenticator is nil and requests are sent anonymously.
func NewAuth(token, login string, password *string) (Authenticator, error) {
	if token != "" {
		return &TokenAuth{Token: token}, nil
	}
	if login != "" {
		if password == nil {
			return nil, errors.New("password is required when username is provided")
		}
		return &BasicAuth{Login: login, Password: *password}, nil
	}
	return nil, nil
}

func basicHeader(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}
