package domain

import "fmt"

// Manifest locations relative to a project root.
const (
	ManifestDir         = ".claude-plugin"
	MarketplaceManifest = "marketplace.json"
	PluginManifest      = "plugin.json"
)

// ProjectKind classifies the repository layout the pipeline manages.
type ProjectKind int

const (
	KindUnknown ProjectKind = iota
	KindMarketplace
	KindPlugin
	KindPluginInMarketplace
)

func (k ProjectKind) String() string {
	switch k {
	case KindMarketplace:
		return "marketplace"
	case KindPlugin:
		return "plugin"
	case KindPluginInMarketplace:
		return "plugin_in_marketplace"
	default:
		return "unknown"
	}
}

func (k ProjectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ProjectKind) UnmarshalText(b []byte) error {
	parsed, err := ParseProjectKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseProjectKind accepts the names produced by String.
func ParseProjectKind(s string) (ProjectKind, error) {
	switch s {
	case "marketplace":
		return KindMarketplace, nil
	case "plugin":
		return KindPlugin, nil
	case "plugin_in_marketplace":
		return KindPluginInMarketplace, nil
	case "unknown", "":
		return KindUnknown, nil
	}
	return KindUnknown, fmt.Errorf("unknown project type %q", s)
}

// Submodule is one entry of a marketplace's .gitmodules file.
type Submodule struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

// PluginTarget is a plugin the structural validator should check.
type PluginTarget struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
