package toolchain

import (
	"os"
	"path/filepath"
	"time"
)

const (
	installTimeout        = 120 * time.Second
	packageManagerTimeout = 180 * time.Second
)

// strategy is one way of installing a tool. probe must be on PATH for the
// strategy to be attempted.
type strategy struct {
	probe   string
	argv    []string
	timeout time.Duration
	dir     string
}

// toolSpec describes how a tool is found, installed and explained to a human.
type toolSpec struct {
	// binaries: any one of these on PATH makes the tool available.
	binaries   []string
	local      []string
	strategies func(l *Locator) []strategy
	hints      map[string][]string
	fallback   string
}

func pythonTool(name string) toolSpec {
	return toolSpec{
		binaries: []string{name},
		strategies: func(*Locator) []strategy {
			return []strategy{
				{probe: "uv", argv: []string{"uv", "tool", "install", "--python", "3.12", name}, timeout: installTimeout},
				{probe: "pipx", argv: []string{"pipx", "install", name}, timeout: installTimeout},
				{probe: "pip3", argv: []string{"pip3", "install", "--user", name}, timeout: installTimeout},
				{probe: "pip", argv: []string{"pip", "install", "--user", name}, timeout: installTimeout},
			}
		},
		hints: map[string][]string{"": {"uv", "tool", "install", "--python", "3.12", name}},
	}
}

func nodeRunnerTool(pkg string, global bool) toolSpec {
	spec := toolSpec{
		binaries: []string{"bun", "npx", pkg},
		hints:    map[string][]string{"": {"npm", "install", "-g", pkg}},
	}
	if global {
		spec.strategies = func(*Locator) []strategy {
			return []strategy{
				{probe: "bun", argv: []string{"bun", "add", "-g", pkg}, timeout: installTimeout},
				{probe: "npm", argv: []string{"npm", "install", "-g", pkg}, timeout: installTimeout},
			}
		}
	}
	return spec
}

func rustComponent(binary, component string) toolSpec {
	return toolSpec{
		binaries: []string{binary},
		strategies: func(*Locator) []strategy {
			return []strategy{
				{probe: "rustup", argv: []string{"rustup", "component", "add", component}, timeout: installTimeout},
			}
		},
		hints: map[string][]string{"": {"rustup", "component", "add", component}},
	}
}

var goHints = map[string][]string{
	"darwin":  {"brew", "install", "go"},
	"linux":   {"sudo", "apt-get", "install", "golang-go"},
	"windows": {"winget", "install", "GoLang.Go"},
}

var toolSpecs = map[string]toolSpec{
	"ruff":     pythonTool("ruff"),
	"mypy":     pythonTool("mypy"),
	"yamllint": pythonTool("yamllint"),
	"shellcheck": {
		binaries:   []string{"shellcheck"},
		strategies: shellcheckStrategies,
		hints: map[string][]string{
			"darwin":  {"brew", "install", "shellcheck"},
			"linux":   {"sudo", "apt-get", "install", "shellcheck"},
			"windows": {"scoop", "install", "shellcheck"},
		},
		fallback: "see https://github.com/koalaman/shellcheck#installing",
	},
	"eslint": {
		binaries:   []string{"eslint"},
		local:      []string{filepath.Join("node_modules", ".bin", "eslint")},
		strategies: eslintStrategies,
		hints:      map[string][]string{"": {"npm", "install", "--save-dev", "eslint"}},
	},
	"markdownlint": nodeRunnerTool("markdownlint-cli", true),
	"prettier":     nodeRunnerTool("prettier", false),
	"gofmt":        {binaries: []string{"gofmt"}, hints: goHints},
	"go":           {binaries: []string{"go"}, hints: goHints},
	"cargo": {
		binaries: []string{"cargo"},
		fallback: "curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh",
	},
	"rustfmt":      rustComponent("rustfmt", "rustfmt"),
	"cargo-clippy": rustComponent("cargo-clippy", "clippy"),
	"git-cliff": {
		binaries: []string{"git-cliff"},
		hints:    map[string][]string{"": {"cargo", "install", "git-cliff"}},
	},
}

func shellcheckStrategies(l *Locator) []strategy {
	pm := func(probe string, argv ...string) strategy {
		return strategy{probe: probe, argv: argv, timeout: packageManagerTimeout}
	}
	switch l.goos {
	case "darwin":
		return []strategy{
			pm("brew", "brew", "install", "shellcheck"),
			pm("port", "sudo", "port", "install", "shellcheck"),
		}
	case "linux":
		return []strategy{
			pm("apt-get", "sudo", "apt-get", "install", "-y", "shellcheck"),
			pm("dnf", "sudo", "dnf", "install", "-y", "ShellCheck"),
			pm("yum", "sudo", "yum", "install", "-y", "ShellCheck"),
			pm("pacman", "sudo", "pacman", "-S", "--noconfirm", "shellcheck"),
			pm("zypper", "sudo", "zypper", "install", "-y", "ShellCheck"),
			pm("apk", "sudo", "apk", "add", "shellcheck"),
			pm("brew", "brew", "install", "shellcheck"),
		}
	case "windows":
		return []strategy{
			pm("scoop", "scoop", "install", "shellcheck"),
			pm("choco", "choco", "install", "shellcheck", "-y"),
			pm("winget", "winget", "install", "--id", "koalaman.shellcheck", "-e"),
		}
	}
	return nil
}

// eslintStrategies installs eslint as a dev dependency, which only makes
// sense when the project has a package.json.
func eslintStrategies(l *Locator) []strategy {
	if l.root == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(l.root, "package.json")); err != nil {
		return nil
	}
	return []strategy{
		{probe: "bun", argv: []string{"bun", "add", "--dev", "eslint"}, timeout: installTimeout, dir: l.root},
		{probe: "npm", argv: []string{"npm", "install", "--save-dev", "eslint"}, timeout: installTimeout, dir: l.root},
		{probe: "pnpm", argv: []string{"pnpm", "add", "--save-dev", "eslint"}, timeout: installTimeout, dir: l.root},
	}
}
