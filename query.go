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
	"context"
	"net/url"
	"strconv"
	"time"

	libinjection "github.com/corazawaf/libinjection-go"
)

// queryAPI defines interfaces under /query.
type queryAPI interface {
	// executeQuery runs a statement or a saved template on the engine.
	executeQuery(ctx context.Context, req *QueryRequest) (*QueryLog, error)
	// listQueryLogs lists past query executions.
	listQueryLogs(ctx context.Context, opts *QueryLogListOptions) (*QueryLogPage, error)
}

var _ queryAPI = (*QueryService)(nil)

// QueryService runs statements and saved query templates on the engine.
type QueryService struct {
	c *Client

	Log      *QueryLogService
	Template *QueryTemplateService
}

func newQueryService(c *Client) *QueryService {
	s := &QueryService{c: c}
	s.Log = &QueryLogService{query: s}
	s.Template = &QueryTemplateService{query: s}
	return s
}

// QueryRequest describes one execution of a statement or a saved
// template. Exactly one of Query or TemplateID/TemplateName should be
// set; Parameters feeds the server-side template substitution.
type QueryRequest struct {
	// QueryType selects the engine dialect. Empty means "thanosql".
	QueryType string `json:"query_type"`
	// Query is the statement text to execute.
	Query string `json:"query_string,omitempty"`
	// TemplateID refers to a saved query template by ID.
	TemplateID int `json:"template_id,omitempty"`
	// TemplateName refers to a saved query template by name.
	TemplateName string `json:"template_name,omitempty"`
	// Parameters are substituted into the saved template server-side.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Schema and TableName direct the result into a destination table.
	Schema    string `json:"-"`
	TableName string `json:"-"`
	// Overwrite replaces the destination table when it already exists.
	Overwrite bool `json:"-"`
	// MaxResults caps the number of result records returned inline.
	MaxResults int `json:"-"`
}

// QueryLog records one executed statement and its outcome.
type QueryLog struct {
	QueryID              string     `json:"query_id"`
	StatementType        string     `json:"statement_type,omitempty"`
	StartTime            *time.Time `json:"start_time,omitempty"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	Query                string     `json:"query"`
	Referer              string     `json:"referer"`
	State                string     `json:"state,omitempty"`
	DestinationTableName string     `json:"destination_table_name,omitempty"`
	DestinationSchema    string     `json:"destination_schema,omitempty"`
	ErrorResult          string     `json:"error_result,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	Records              *Records   `json:"records,omitempty"`
}

// Execute runs the request on the engine and returns its query log.
//
// String parameters destined for server-side template substitution are
// screened for SQL injection fingerprints before anything is sent.
func (s *QueryService) Execute(ctx context.Context, req *QueryRequest) (*QueryLog, error) {
	return s.executeQuery(ctx, req)
}

// ExecuteValues renders a values query into a complete script and
// executes it. This is the end-to-end entry point for the client-side
// value-substitution engine.
func (s *QueryService) ExecuteValues(ctx context.Context, q *ValuesQuery) (*QueryLog, error) {
	stmt, err := q.Render()
	if err != nil {
		return nil, err
	}
	return s.executeQuery(ctx, &QueryRequest{Query: stmt})
}

func (s *QueryService) executeQuery(ctx context.Context, req *QueryRequest) (*QueryLog, error) {
	if err := ScreenParameters(req.Parameters); err != nil {
		return nil, err
	}

	payload := *req
	if payload.QueryType == "" {
		payload.QueryType = "thanosql"
	}

	q := url.Values{}
	if req.Schema != "" {
		q.Set("schema", req.Schema)
	}
	if req.TableName != "" {
		q.Set("table_name", req.TableName)
	}
	if req.Overwrite {
		q.Set("overwrite", "true")
	}
	if req.MaxResults > 0 {
		q.Set("max_results", strconv.Itoa(req.MaxResults))
	}

	var log QueryLog
	if err := s.c.post(ctx, "/query/", q, &payload, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// ScreenParameters checks template parameter values for SQL injection
// fingerprints and returns an InjectionError on the first hit.
//
// Only string values are screened; numbers, booleans and other types
// cannot carry injection patterns.
func ScreenParameters(params map[string]any) error {
	for name, value := range params {
		s, ok := value.(string)
		if !ok {
			continue
		}
		if isSQLi, fingerprint := libinjection.IsSQLi(s); isSQLi {
			return &InjectionError{Parameter: name, Fingerprint: string(fingerprint)}
		}
	}
	return nil
}

// QueryLogService lists past query executions. It cannot exist without
// its parent QueryService.
type QueryLogService struct {
	query *QueryService
}

// QueryLogListOptions narrows a query log listing.
type QueryLogListOptions struct {
	// Search filters logs by a substring of the query text.
	Search string
	// Offset and Limit page through the listing.
	Offset int
	Limit  int
}

// QueryLogPage is one page of the query log listing.
type QueryLogPage struct {
	Logs  []*QueryLog `json:"query_logs"`
	Total int         `json:"total"`
}

// List lists past query executions, most recent first.
func (s *QueryLogService) List(ctx context.Context, opts *QueryLogListOptions) (*QueryLogPage, error) {
	return s.query.listQueryLogs(ctx, opts)
}

func (s *QueryService) listQueryLogs(ctx context.Context, opts *QueryLogListOptions) (*QueryLogPage, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	var page QueryLogPage
	if err := s.c.get(ctx, "/query/log", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
