// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

import (
	"encoding/base64"
	"fmt"
)

// Credentials identify the viewer to the API. The server reads them as
// HTTP Basic authentication on every request; there is no session
// token and nothing expires.
type Credentials struct {
	Username string
	Password string
}

// AuthorizationHeader returns the Authorization header value:
// "Basic " followed by base64(username:password).
func (credentials Credentials) AuthorizationHeader() string {
	token := base64.StdEncoding.EncodeToString([]byte(credentials.Username + ":" + credentials.Password))
	return "Basic " + token
}

// Validate rejects credentials that could never authenticate. A colon
// in the username would be indistinguishable from the separator.
func (credentials Credentials) Validate() error {
	if credentials.Username == "" {
		return fmt.Errorf("username is required")
	}
	for _, character := range credentials.Username {
		if character == ':' {
			return fmt.Errorf("username %q must not contain ':'", credentials.Username)
		}
	}
	if credentials.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// String never prints the password.
func (credentials Credentials) String() string {
	return credentials.Username + ":<redacted>"
}
