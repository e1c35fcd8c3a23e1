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
)

// QueryTemplate is a saved, parameterized query. Parameters lists the
// {{name}} placeholders the engine substitutes at execution time.
type QueryTemplate struct {
	ID         int        `json:"id,omitempty"`
	Name       string     `json:"name"`
	Query      string     `json:"query"`
	Parameters []string   `json:"parameters,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// TemplateParameters returns the placeholder names referenced by a
// query template, deduplicated, in order of first appearance.
func TemplateParameters(query string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range fieldPattern.FindAllStringSubmatch(query, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// QueryTemplateService manages saved query templates. It cannot exist
// without its parent QueryService.
type QueryTemplateService struct {
	query *QueryService
}

// QueryTemplateListOptions narrows a query template listing.
type QueryTemplateListOptions struct {
	Search  string
	OrderBy string
	Offset  int
	Limit   int
}

// List lists saved query templates.
func (s *QueryTemplateService) List(ctx context.Context, opts *QueryTemplateListOptions) ([]*QueryTemplate, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
		if opts.OrderBy != "" {
			q.Set("order_by", opts.OrderBy)
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	var out struct {
		Templates []*QueryTemplate `json:"query_templates"`
	}
	if err := s.query.c.get(ctx, "/query/template", q, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Get retrieves a saved query template by name.
func (s *QueryTemplateService) Get(ctx context.Context, name string) (*QueryTemplate, error) {
	var out struct {
		Template *QueryTemplate `json:"query_template"`
	}
	if err := s.query.c.get(ctx, "/query/template/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return out.Template, nil
}

// Create saves a new query template. With dryRun set, the engine only
// validates the template without storing it.
func (s *QueryTemplateService) Create(ctx context.Context, name, query string, dryRun bool) (*QueryTemplate, error) {
	params := url.Values{}
	if dryRun {
		params.Set("dry_run", "true")
	}
	payload := map[string]string{
		"name":  name,
		"query": query,
	}

	var out struct {
		Template *QueryTemplate `json:"query_template"`
	}
	if err := s.query.c.post(ctx, "/query/template", params, payload, &out); err != nil {
		return nil, err
	}
	return out.Template, nil
}

// Update renames a saved template and/or replaces its query text.
// Empty arguments leave the corresponding property unchanged.
func (s *QueryTemplateService) Update(ctx context.Context, currentName, newName, query string) (*QueryTemplate, error) {
	payload := map[string]string{}
	if newName != "" {
		payload["name"] = newName
	}
	if query != "" {
		payload["query"] = query
	}

	var out struct {
		Template *QueryTemplate `json:"query_template"`
	}
	if err := s.query.c.put(ctx, "/query/template/"+url.PathEscape(currentName), nil, payload, &out); err != nil {
		return nil, err
	}
	return out.Template, nil
}

// Delete removes a saved query template by name.
func (s *QueryTemplateService) Delete(ctx context.Context, name string) error {
	return s.query.c.delete(ctx, "/query/template/"+url.PathEscape(name), nil, nil)
}
