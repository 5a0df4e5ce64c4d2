// Package hookstore installs, inspects and removes git hook scripts.
package hookstore

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/pluginpipe/internal/domain"
)

//go:embed templates/*
var templates embed.FS

const hookMode = 0o755

// Store implements domain.HookStore with the embedded hook templates.
type Store struct{}

func New() *Store {
	return &Store{}
}

// Template returns the script installed for the named hook.
func Template(name string) ([]byte, error) {
	data, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("no template for hook %q", name)
	}
	return data, nil
}

func (s *Store) InspectHook(dir, name string) domain.HookState {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil || info.IsDir() {
		return domain.HookState{}
	}
	return domain.HookState{
		Exists:     true,
		Executable: info.Mode().Perm()&0o111 != 0,
		Size:       info.Size(),
	}
}

// InstallHook writes the hook's template into dir and marks it executable,
// creating dir when missing. An existing hook is overwritten.
func (s *Store) InstallHook(dir, name string) error {
	data, err := Template(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, hookMode); err != nil {
		return fmt.Errorf("writing %s hook: %w", name, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, hookMode); err != nil {
		return fmt.Errorf("making %s hook executable: %w", name, err)
	}
	return nil
}

func (s *Store) RemoveHook(dir, name string) error {
	err := os.Remove(filepath.Join(dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s hook: %w", name, err)
	}
	return nil
}
