package thanosql

import (
	"context"
	"net/url"
)

// FileService manages files stored in the workspace.
type FileService struct {
	c *Client
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
}

// List lists files under the given workspace directory. An empty dir
// lists the workspace root.
func (s *FileService) List(ctx context.Context, dir string) ([]*FileInfo, error) {
	q := url.Values{}
	if dir != "" {
		q.Set("dir", dir)
	}

	var out struct {
		Files []*FileInfo `json:"files"`
	}
	if err := s.c.get(ctx, "/file/", q, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// Upload uploads a local file into the given workspace directory and
// returns its stored path.
func (s *FileService) Upload(ctx context.Context, file, dir string) (*FileInfo, error) {
	q := url.Values{}
	if dir != "" {
		q.Set("dir", dir)
	}

	var out struct {
		File *FileInfo `json:"file"`
	}
	if err := s.c.upload(ctx, "/file/", q, file, nil, &out); err != nil {
		return nil, err
	}
	return out.File, nil
}

// Delete removes a stored file by its workspace path.
func (s *FileService) Delete(ctx context.Context, path string) error {
	q := url.Values{}
	q.Set("path", path)
	return s.c.delete(ctx, "/file/", q, nil)
}
