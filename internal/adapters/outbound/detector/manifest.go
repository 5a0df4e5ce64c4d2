package detector

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// PluginManifest is the subset of .claude-plugin/plugin.json the pipeline reads.
type PluginManifest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version,omitempty"`
}

// MarketplaceManifest is the subset of .claude-plugin/marketplace.json the
// pipeline reads.
type MarketplaceManifest struct {
	Name    string             `json:"name"`
	Plugins []MarketplaceEntry `json:"plugins"`
}

type MarketplaceEntry struct {
	Name string `json:"name"`
	// Source is a relative path for local plugins. Remote sources are JSON
	// objects and are kept raw.
	Source json.RawMessage `json:"source,omitempty"`
}

// LocalSource returns the entry's path relative to the marketplace root.
// Entries without a source default to ./<name>; remote sources report false.
func (e MarketplaceEntry) LocalSource() (string, bool) {
	if len(e.Source) == 0 {
		return "./" + e.Name, true
	}
	var s string
	if err := json.Unmarshal(e.Source, &s); err != nil {
		return "", false
	}
	return s, true
}

func ReadPluginManifest(root string) (*PluginManifest, error) {
	var m PluginManifest
	if err := readJSON(filepath.Join(root, domain.ManifestDir, domain.PluginManifest), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func ReadMarketplaceManifest(root string) (*MarketplaceManifest, error) {
	var m MarketplaceManifest
	if err := readJSON(filepath.Join(root, domain.ManifestDir, domain.MarketplaceManifest), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
