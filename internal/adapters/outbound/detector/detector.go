// Package detector classifies a project as a marketplace or plugin and lists
// what it contains.
package detector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/config"
	"github.com/openkraft/pluginpipe/internal/domain"
)

// ProjectDetector implements domain.ProjectDetector and domain.PluginCatalog.
type ProjectDetector struct{}

func New() *ProjectDetector {
	return &ProjectDetector{}
}

// DetectKind reads the manifests under .claude-plugin. A manifest that does
// not parse counts as absent.
func (d *ProjectDetector) DetectKind(root string) domain.ProjectKind {
	if _, err := ReadMarketplaceManifest(root); err == nil {
		return domain.KindMarketplace
	}
	if _, err := ReadPluginManifest(root); err == nil {
		if info, err := os.Lstat(filepath.Join(root, ".git")); err == nil && info.Mode().IsRegular() {
			return domain.KindPluginInMarketplace
		}
		return domain.KindPlugin
	}
	return domain.KindUnknown
}

// Submodules parses root/.gitmodules and returns the entries whose path
// exists, sorted by path. A missing file yields no submodules.
func (d *ProjectDetector) Submodules(root string) ([]domain.Submodule, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitmodules"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading .gitmodules: %w", err)
	}

	modules := config.NewModules()
	if err := modules.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parsing .gitmodules: %w", err)
	}

	var out []domain.Submodule
	for name, m := range modules.Submodules {
		if m.Path == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, m.Path)); err != nil {
			continue
		}
		out = append(out, domain.Submodule{Name: name, Path: m.Path, URL: m.URL})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Plugins lists what the structural validator should check: every local
// marketplace entry, or the project itself when it is a plugin.
func (d *ProjectDetector) Plugins(root string) ([]domain.PluginTarget, error) {
	switch d.DetectKind(root) {
	case domain.KindMarketplace:
		m, err := ReadMarketplaceManifest(root)
		if err != nil {
			return nil, err
		}
		var out []domain.PluginTarget
		for _, p := range m.Plugins {
			name := p.Name
			if name == "" {
				name = "unknown"
			}
			src, ok := p.LocalSource()
			if !ok {
				continue
			}
			rel := strings.TrimPrefix(filepath.ToSlash(src), "./")
			out = append(out, domain.PluginTarget{Name: name, Path: filepath.Join(root, filepath.FromSlash(rel))})
		}
		return out, nil
	case domain.KindPlugin, domain.KindPluginInMarketplace:
		name := "plugin"
		if m, err := ReadPluginManifest(root); err == nil && m.Name != "" {
			name = m.Name
		}
		return []domain.PluginTarget{{Name: name, Path: root}}, nil
	}
	return nil, nil
}
