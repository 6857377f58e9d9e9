package sandbox

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Factory creates isolated working directories for executions and keeps
// track of the ones that have not been closed yet.
type Factory struct {
	root   string
	live   *xsync.MapOf[string, *Box]
	logger *slog.Logger
}

func NewFactory(root string, logger *slog.Logger) (*Factory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if root == "" {
		return nil, errors.New("sandbox root directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("create sandbox root %s: %w", abs, err)
	}
	return &Factory{
		root:   abs,
		live:   xsync.NewMapOf[string, *Box](),
		logger: logger,
	}, nil
}

func (f *Factory) Root() string {
	return f.root
}

// NewBox creates a fresh, empty box with a random id.
func (f *Factory) NewBox() (*Box, error) {
	id := uuid.NewString()
	path := filepath.Join(f.root, id)

	// Mkdir, not MkdirAll: an existing directory means a collision.
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, fmt.Errorf("create box %s: %w", id, err)
	}

	box := newBox(f, id, path)
	f.live.Store(id, box)
	f.logger.Debug("created box", "box", id)
	return box, nil
}

// Live returns the number of boxes that have not been closed.
func (f *Factory) Live() int {
	return f.live.Size()
}

// CloseAll removes every box that is still open.
func (f *Factory) CloseAll() error {
	var errs []error
	f.live.Range(func(id string, box *Box) bool {
		f.logger.Warn("closing leftover box", "box", id)
		if err := box.Close(); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

func (f *Factory) release(id string) {
	f.live.Delete(id)
}
