// Package assets is the application's read-only asset store.
package assets

import (
	"embed"
	"io/fs"

	"github.com/cockroachdb/errors"
)

//go:generate glslc shaders/mesh.vert -o shaders/mesh.vert.spv
//go:generate glslc shaders/generated.vert -o shaders/generated.vert.spv
//go:generate glslc shaders/triangle.frag -o shaders/triangle.frag.spv

//go:embed shaders
var bundled embed.FS

var ErrAssetNotFound = errors.New("asset not found")

// Store reads assets by slash-separated path.
type Store struct {
	fsys fs.FS
}

func New(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Bundled returns the store compiled into the binary.
func Bundled() *Store {
	return New(bundled)
}

func (s *Store) ReadAsset(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Mark(errors.Wrapf(err, "reading asset %s", name), ErrAssetNotFound)
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading asset %s", name)
	}
	return data, nil
}
