package thanosql

import (
	"context"
	"net/url"
)

// SchemaService manages schemas in the workspace.
type SchemaService struct {
	c *Client
}

// List lists the names of schemas stored in the workspace.
func (s *SchemaService) List(ctx context.Context) ([]string, error) {
	var out struct {
		Schemas []struct {
			Name string `json:"name"`
		} `json:"schemas"`
	}
	if err := s.c.get(ctx, "/schema/", nil, &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Schemas))
	for _, schema := range out.Schemas {
		names = append(names, schema.Name)
	}
	return names, nil
}

// Create creates a new schema and returns its name as stored.
func (s *SchemaService) Create(ctx context.Context, name string) (string, error) {
	var out struct {
		Schema  string `json:"schema"`
		Message string `json:"message"`
	}
	if err := s.c.post(ctx, "/schema/"+url.PathEscape(name), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Schema, nil
}
