// Package storage holds the filesystem InviteStore.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"arztpraxis/internal/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
	icsExt   = ".ics"
)

type fileStore struct {
	dir string
}

// NewFileStore returns an InviteStore that writes one <key>.ics file per invite into dir.
// The directory is created on first save if it does not exist.
func NewFileStore(dir string) domain.InviteStore {
	return &fileStore{dir: dir}
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+icsExt)
}

func (s *fileStore) Save(ctx context.Context, inv *domain.Invite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if inv == nil || !domain.ValidInviteKey(inv.Key) {
		return fmt.Errorf("%w: invalid invite key", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create invite dir: %w", err)
	}
	f, err := os.OpenFile(s.path(inv.Key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.ErrInviteExists
		}
		return fmt.Errorf("create invite file: %w", err)
	}
	if _, err := f.WriteString(inv.ICS); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write invite file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("close invite file: %w", err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, key string) (*domain.Invite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !domain.ValidInviteKey(key) {
		return nil, domain.ErrNotFound
	}
	return s.read(key)
}

func (s *fileStore) read(key string) (*domain.Invite, error) {
	p := s.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read invite file: %w", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat invite file: %w", err)
	}
	return &domain.Invite{Key: key, ICS: string(data), CreatedAt: info.ModTime().UTC()}, nil
}

// List returns invites ordered by modification time, newest first. Files that do not
// carry an invite key are ignored.
func (s *fileStore) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.Invite{}, 0, nil
		}
		return nil, 0, fmt.Errorf("read invite dir: %w", err)
	}

	type entry struct {
		key string
		mod int64
	}
	var found []entry
	for _, e := range entries {
		key, ok := strings.CutSuffix(e.Name(), icsExt)
		if !ok || e.IsDir() || !domain.ValidInviteKey(key) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, entry{key: key, mod: info.ModTime().UnixNano()})
	}
	slices.SortFunc(found, func(a, b entry) int {
		if a.mod != b.mod {
			if a.mod > b.mod {
				return -1
			}
			return 1
		}
		return strings.Compare(b.key, a.key)
	})

	params = params.Normalize()
	start, end := params.Window(len(found))
	page := make([]*domain.Invite, 0, end-start)
	for _, e := range found[start:end] {
		inv, err := s.read(e.key)
		if err != nil {
			return nil, 0, err
		}
		page = append(page, inv)
	}
	return page, len(found), nil
}
