package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Box is a working directory owned by exactly one execution. It holds the
// source file and every build byproduct and is removed by Close.
type Box struct {
	id      string
	path    string
	factory *Factory

	closeOnce sync.Once
	closeErr  error
}

func newBox(factory *Factory, id string, path string) *Box {
	return &Box{
		id:      id,
		path:    path,
		factory: factory,
	}
}

func (box *Box) ID() string {
	return box.id
}

func (box *Box) Path() string {
	return box.path
}

// Close removes the box directory. It is safe to call more than once.
func (box *Box) Close() error {
	box.closeOnce.Do(func() {
		box.factory.release(box.id)
		if err := os.RemoveAll(box.path); err != nil {
			box.closeErr = fmt.Errorf("remove box %s: %w", box.id, err)
		}
	})
	return box.closeErr
}

func (box *Box) AddFile(name string, content []byte) error {
	path, err := box.resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write %s to box %s: %w", name, box.id, err)
	}
	return nil
}

func (box *Box) HasFile(name string) bool {
	path, err := box.resolve(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (box *Box) GetFile(name string) ([]byte, error) {
	path, err := box.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Command prepares a process that runs argv inside the box.
func (box *Box) Command(argv []string, constraints Constraints) *Process {
	return newProcess(box.path, argv, constraints)
}

func (box *Box) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid box file name %q", name)
	}
	path := filepath.Join(box.path, name)
	if path != box.path && !strings.HasPrefix(path, box.path+string(filepath.Separator)) {
		return "", errors.New("box file name escapes the box")
	}
	return path, nil
}
