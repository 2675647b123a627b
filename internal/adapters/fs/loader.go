package fs

import (
	"bytes"
	"context"
	"errors"
	"go/parser"
	"go/token"
	"io"
	iofs "io/fs"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ModuleLoader = (*Loader)(nil)

// Loader reads modules from disk and validates them according to their kind.
type Loader struct {
	now func() time.Time
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{now: time.Now}
}

// Load reads the file at path, validates its syntax and hashes its content.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(domain.ErrModuleNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleReadFailed.Error()), "path", path)
	}
	if info.IsDir() {
		return nil, zerr.With(domain.ErrModuleIsDirectory, "path", path)
	}

	src, err := os.ReadFile(path) //nolint:gosec // Path is resolved against the configured root
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleReadFailed.Error()), "path", path)
	}

	kind := domain.KindOf(path)
	if err := validate(path, kind, src); err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrModuleSyntax.Error()), "path", path), "kind", string(kind))
	}

	return &domain.Module{
		Path:     path,
		Kind:     kind,
		Source:   src,
		Hash:     xxhash.Sum64(src),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		LoadedAt: l.now(),
	}, nil
}

func validate(path string, kind domain.ModuleKind, src []byte) error {
	switch kind {
	case domain.ModuleKindGo:
		_, err := parser.ParseFile(token.NewFileSet(), path, src, parser.AllErrors)
		return err
	case domain.ModuleKindYAML:
		dec := yaml.NewDecoder(bytes.NewReader(src))
		for {
			var node yaml.Node
			err := dec.Decode(&node)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	case domain.ModuleKindJSON:
		if !json.Valid(src) {
			return errors.New("invalid JSON document")
		}
		return nil
	default:
		return nil
	}
}
