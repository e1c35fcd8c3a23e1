/*
 * Copyright 2024 SmartMind, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package thanosql

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error represents an error response from the ThanoSQL engine.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// ErrEmptyValues is returned when a values query carries no rows to
// substitute. A statement with zero rows is not meaningful, even though
// the paginator itself tolerates empty input.
var ErrEmptyValues = errors.New("values must contain at least one row")

// PlaceholderCountError is returned when a statement does not contain
// the values placeholder exactly once.
type PlaceholderCountError struct {
	Count int
}

func (e *PlaceholderCountError) Error() string {
	return fmt.Sprintf("statement must contain exactly one %q placeholder, found %d", ValuesPlaceholder, e.Count)
}

// ShapeMismatchError is returned when a value row does not match the
// active substitution mode: Tuple rows without a row template, Fields
// rows with one.
type ShapeMismatchError struct {
	Index int
	Named bool
	Got   any
}

func (e *ShapeMismatchError) Error() string {
	if e.Named {
		return fmt.Sprintf("row %d: expected a Fields map for row template substitution, got %T", e.Index, e.Got)
	}
	return fmt.Sprintf("row %d: expected a Tuple, got %T", e.Index, e.Got)
}

// MissingFieldError is returned when a row template references a field
// that a Fields row does not carry.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing field %q referenced by the row template", e.Index, e.Field)
}

// InjectionError is returned when a template parameter value carries a
// SQL injection fingerprint.
type InjectionError struct {
	Parameter   string
	Fingerprint string
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("parameter %q: SQL injection pattern detected (fingerprint %s)", e.Parameter, e.Fingerprint)
}

func checkStatusCodeOK(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	msg := string(data)
	if err != nil {
		return fmt.Errorf("%d: %s", resp.StatusCode, msg)
	}
	var errResp Error
	err = json.Unmarshal(data, &errResp)
	if err != nil || errResp.Message == "" {
		return fmt.Errorf("%d: %s", resp.StatusCode, msg)
	}
	return &errResp
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
