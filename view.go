package thanosql

import (
	"context"
	"net/url"
	"strconv"
)

// View is a view in the workspace.
type View struct {
	Name       string   `json:"name"`
	Schema     string   `json:"schema,omitempty"`
	Columns    []Column `json:"columns"`
	Definition string   `json:"definition"`
}

// ViewService manages views in the workspace. Views are created through
// plain CREATE VIEW statements on the query service.
type ViewService struct {
	c *Client
}

// ViewListOptions narrows a view listing.
type ViewListOptions struct {
	Schema  string
	Verbose bool
	Offset  int
	Limit   int
}

// List lists views in the workspace.
func (s *ViewService) List(ctx context.Context, opts *ViewListOptions) ([]*View, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Schema != "" {
			q.Set("schema", opts.Schema)
		}
		if opts.Verbose {
			q.Set("verbose", "true")
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	var out struct {
		Views []*View `json:"views"`
	}
	if err := s.c.get(ctx, "/view/", q, &out); err != nil {
		return nil, err
	}
	return out.Views, nil
}

// Get retrieves a view by name.
func (s *ViewService) Get(ctx context.Context, name, schema string) (*View, error) {
	q := url.Values{}
	if schema != "" {
		q.Set("schema", schema)
	}

	var out struct {
		View *View `json:"view"`
	}
	if err := s.c.get(ctx, "/view/"+url.PathEscape(name), q, &out); err != nil {
		return nil, err
	}
	return out.View, nil
}

// Delete drops a view by name.
func (s *ViewService) Delete(ctx context.Context, name, schema string) error {
	q := url.Values{}
	if schema != "" {
		q.Set("schema", schema)
	}
	return s.c.delete(ctx, "/view/"+url.PathEscape(name), q, nil)
}
