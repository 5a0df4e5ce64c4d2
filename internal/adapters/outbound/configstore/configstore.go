// Package configstore inspects and writes the config files the pipeline
// expects next to the hooks.
package configstore

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/openkraft/pluginpipe/internal/domain"
)

//go:embed templates/*
var templates embed.FS

// GitignoreMarkers must all appear in a project's .gitignore.
var GitignoreMarkers = []string{"__pycache__", ".mypy_cache", "docs_dev/", ".pluginpipe/"}

const gitignoreBanner = "# Added by pluginpipe"

// Store implements domain.ConfigStore.
type Store struct{}

func New() *Store {
	return &Store{}
}

// InspectConfig reports the state of one tracked config file. The workflow
// entry is satisfied by any workflow that mentions validation or plugins.
func (s *Store) InspectConfig(root, name string) domain.ConfigState {
	switch name {
	case domain.ConfigCliff:
		return inspectCliff(filepath.Join(root, domain.ConfigCliff))
	case domain.ConfigGitignore:
		return inspectGitignore(filepath.Join(root, domain.ConfigGitignore))
	case domain.ConfigWorkflow:
		if hasValidationWorkflow(root) {
			return domain.ConfigState{Exists: true}
		}
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(domain.WorkflowPath)))
		return domain.ConfigState{Occupied: err == nil}
	}
	return domain.ConfigState{}
}

func inspectCliff(path string) domain.ConfigState {
	if _, err := os.Stat(path); err != nil {
		return domain.ConfigState{}
	}
	var doc map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return domain.ConfigState{Exists: true, Malformed: true}
	}
	return domain.ConfigState{Exists: true}
}

func inspectGitignore(path string) domain.ConfigState {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigState{}
	}
	return domain.ConfigState{Exists: true, MissingPatterns: missingMarkers(string(data))}
}

func missingMarkers(content string) []string {
	var missing []string
	for _, m := range GitignoreMarkers {
		if !strings.Contains(content, m) {
			missing = append(missing, m)
		}
	}
	return missing
}

func hasValidationWorkflow(root string) bool {
	dir := filepath.Join(root, ".github", "workflows")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		lower := strings.ToLower(string(data))
		if strings.Contains(lower, "validate") || strings.Contains(lower, "plugin") {
			return true
		}
	}
	return false
}

// WriteConfig creates a missing config file from its template. Existing
// files are never overwritten.
func (s *Store) WriteConfig(root, name string) error {
	var tmpl, rel string
	switch name {
	case domain.ConfigCliff:
		tmpl, rel = "cliff.toml", domain.ConfigCliff
	case domain.ConfigGitignore:
		tmpl, rel = "gitignore", domain.ConfigGitignore
	case domain.ConfigWorkflow:
		tmpl, rel = "validate.yml", domain.WorkflowPath
	default:
		return fmt.Errorf("no template for config %q", name)
	}

	data, err := templates.ReadFile("templates/" + tmpl)
	if err != nil {
		return err
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(rel), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", rel, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return f.Close()
}

// AppendGitignore appends the patterns .gitignore does not already mention.
func (s *Store) AppendGitignore(root string, patterns []string) error {
	path := filepath.Join(root, domain.ConfigGitignore)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	content := string(data)

	var b strings.Builder
	for _, p := range patterns {
		if !strings.Contains(content, p) {
			b.WriteString(p + "\n")
		}
	}
	if b.Len() == 0 {
		return nil
	}

	prefix := "\n"
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		prefix = "\n\n"
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	if _, err := f.WriteString(prefix + gitignoreBanner + "\n" + b.String()); err != nil {
		f.Close()
		return fmt.Errorf("appending to .gitignore: %w", err)
	}
	return f.Close()
}
