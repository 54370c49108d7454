package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const (
	KindEmail = "email"
	KindSms   = "sms"
)

var ErrTemplateNotFound = errors.New("template not found")

// Store loads raw template text by name and kind.
type Store interface {
	LoadTemplate(ctx context.Context, name, kind string) (string, error)
}

// FSStore resolves <kind>/<name>.html for email and <kind>/<name>.txt for
// everything else.
type FSStore struct {
	fsys fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

func (s *FSStore) LoadTemplate(ctx context.Context, name, kind string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	kind = strings.ToLower(strings.TrimSpace(kind))
	if name == "" {
		return "", errors.New("template name is required")
	}
	if kind == "" {
		return "", errors.New("template kind is required")
	}

	ext := ".txt"
	if kind == KindEmail {
		ext = ".html"
	}
	p := path.Join(kind, name+ext)

	b, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, p)
		}
		return "", fmt.Errorf("read template %s: %w", p, err)
	}
	return string(b), nil
}
