package thanosql

import (
	"context"
	"net/url"
	"time"
)

// TableTemplate is a saved, versioned table description that tables can
// be created from.
type TableTemplate struct {
	Name          string       `json:"name"`
	TableTemplate *TableObject `json:"table_template"`
	Version       string       `json:"version,omitempty"`
	Compatibility string       `json:"compatibility,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
	UpdatedAt     *time.Time   `json:"updated_at,omitempty"`
}

// TableTemplateService manages table templates.
type TableTemplateService struct {
	c *Client
}

// TableTemplateListOptions narrows a table template listing.
type TableTemplateListOptions struct {
	Search  string
	OrderBy string
	// Latest keeps only the newest version of each template.
	Latest bool
}

// List lists table templates.
func (s *TableTemplateService) List(ctx context.Context, opts *TableTemplateListOptions) ([]*TableTemplate, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
		if opts.OrderBy != "" {
			q.Set("order_by", opts.OrderBy)
		}
		if opts.Latest {
			q.Set("latest", "true")
		}
	}

	var out struct {
		Templates []*TableTemplate `json:"table_templates"`
	}
	if err := s.c.get(ctx, "/table_template/", q, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Get retrieves the versions of a table template by name. With version
// set, only that version is returned.
func (s *TableTemplateService) Get(ctx context.Context, name, version string) ([]*TableTemplate, error) {
	q := url.Values{}
	if version != "" {
		q.Set("version", version)
	}

	var out struct {
		Templates []*TableTemplate `json:"table_templates"`
	}
	if err := s.c.get(ctx, "/table_template/"+url.PathEscape(name), q, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Create saves a new table template version.
func (s *TableTemplateService) Create(ctx context.Context, name string, template *TableObject, version, compatibility string) error {
	payload := map[string]any{
		"table_template": template,
	}
	if version != "" {
		payload["version"] = version
	}
	if compatibility != "" {
		payload["compatibility"] = compatibility
	}
	return s.c.post(ctx, "/table_template/"+url.PathEscape(name), nil, payload, nil)
}

// Delete removes a table template. With version set, only that version
// is removed.
func (s *TableTemplateService) Delete(ctx context.Context, name, version string) error {
	q := url.Values{}
	if version != "" {
		q.Set("version", version)
	}
	return s.c.delete(ctx, "/table_template/"+url.PathEscape(name), q, nil)
}
