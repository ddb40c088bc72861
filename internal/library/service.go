// Package library manages the search roots used to resolve game folders to
// executables. Roots are persisted as settings; configuration may inject
// more at startup. Nothing machine-specific is compiled in.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
	"github.com/NemecSoft/YunGame/internal/setting"
	settingentity "github.com/NemecSoft/YunGame/internal/setting/entity"
)

// Category is the settings category holding persisted roots.
const Category = "library_root"

var (
	ErrEmptyRoot    = errors.New("library root is empty")
	ErrRootNotFound = errors.New("library root not found")
)

type rootMeta struct {
	Path string `json:"path"`
}

type Service struct {
	settings *setting.Service
	injected []string
	logger   *zap.SugaredLogger
}

// NewService builds a Service. injected roots come from configuration and
// are never written to storage.
func NewService(settings *setting.Service, injected []string, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	var clean []string
	for _, r := range injected {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, filepath.Clean(r))
		}
	}
	return &Service{settings: settings, injected: clean, logger: logger}
}

type storedRoot struct {
	id   string
	path string
}

func (s *Service) stored(ctx context.Context) ([]storedRoot, error) {
	items, err := s.settings.List(ctx, Category)
	if err != nil {
		return nil, fmt.Errorf("list library roots: %w", err)
	}
	out := make([]storedRoot, 0, len(items))
	for _, it := range items {
		var m rootMeta
		if err := it.DecodeMetadata(&m); err != nil || m.Path == "" {
			s.logger.Warnw("ignoring malformed library root", "id", it.ID, "err", err)
			continue
		}
		out = append(out, storedRoot{id: it.ID, path: m.Path})
	}
	return out, nil
}

// Roots returns persisted roots followed by injected ones, without duplicates.
func (s *Service) Roots(ctx context.Context) ([]string, error) {
	stored, err := s.stored(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, r := range stored {
		add(r.path)
	}
	for _, p := range s.injected {
		add(p)
	}
	return out, nil
}

// AddRoot persists path. Adding a root that is already persisted is a no-op.
func (s *Service) AddRoot(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyRoot
	}
	path = filepath.Clean(path)
	stored, err := s.stored(ctx)
	if err != nil {
		return err
	}
	for _, r := range stored {
		if r.path == path {
			return nil
		}
	}
	rec, err := settingentity.WithMetadata(Category, rootMeta{Path: path})
	if err != nil {
		return err
	}
	if _, err := s.settings.Create(ctx, rec); err != nil {
		return fmt.Errorf("add library root: %w", err)
	}
	s.logger.Infow("library root added", "path", path)
	return nil
}

// RemoveRoot deletes a persisted root. Injected roots cannot be removed.
func (s *Service) RemoveRoot(ctx context.Context, path string) error {
	path = filepath.Clean(strings.TrimSpace(path))
	stored, err := s.stored(ctx)
	if err != nil {
		return err
	}
	for _, r := range stored {
		if r.path != path {
			continue
		}
		if err := s.settings.Delete(ctx, r.id); err != nil {
			return fmt.Errorf("remove library root: %w", err)
		}
		s.logger.Infow("library root removed", "path", path)
		return nil
	}
	return ErrRootNotFound
}

// FindExecutable returns the first root/folder/exe combination that exists
// as a regular file, or "" when none does.
func (s *Service) FindExecutable(ctx context.Context, folder, exe string) (string, error) {
	roots, err := s.Roots(ctx)
	if err != nil {
		return "", err
	}
	for _, root := range roots {
		p := entity.CombinePath(root, folder, exe)
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", nil
}

// IsValidRoot reports whether path names an existing directory.
func IsValidRoot(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
