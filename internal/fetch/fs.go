package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
)

var payloadExtensions = []string{".json", ".yaml", ".yml"}

// FSSource reads payload files from an fs.FS. The identity /person/ada maps
// to person/ada.json, person/ada.yaml or person/ada.yml; files may hold the
// bare thing or a full response envelope.
type FSSource struct {
	files fs.FS
}

var _ pkgfetch.Source = (*FSSource)(nil)

// NewFSSource constructs a file-backed source.
func NewFSSource(files fs.FS) (*FSSource, error) {
	if files == nil {
		return nil, errors.New("fetch: filesystem is not configured")
	}
	return &FSSource{files: files}, nil
}

// FetchRaw returns the thing payload for id.
func (s *FSSource) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	base := strings.Trim(path.Clean("/"+id), "/")
	if base == "" || !fs.ValidPath(base) {
		return nil, fmt.Errorf("fetch: invalid id %q", id)
	}

	for _, ext := range payloadExtensions {
		data, err := fs.ReadFile(s.files, base+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch: read %s: %w", base+ext, err)
		}
		if ext != ".json" {
			if data, err = yamlToJSON(data); err != nil {
				return nil, fmt.Errorf("fetch: decode %s: %w", base+ext, err)
			}
		}
		return pkgfetch.Unwrap(data)
	}
	return nil, fmt.Errorf("%w: %s", pkgfetch.ErrNotFound, id)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
