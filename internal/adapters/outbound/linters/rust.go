package linters

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/openkraft/pluginpipe/internal/domain"
)

const clippyFixTimeout = 180 * time.Second

// cargoManifest is the part of Cargo.toml that tells a crate from a workspace.
type cargoManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// Rust runs clippy (fix then verify) and cargo fmt on a cargo project.
type Rust struct{ d Deps }

func NewRust(d Deps) *Rust { return &Rust{d: d} }

func (r *Rust) Category() domain.Category { return domain.CategoryRust }

func (r *Rust) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	path := filepath.Join(root, "Cargo.toml")
	if _, err := os.Stat(path); err != nil {
		r.d.Log.Debugw("No Cargo.toml at project root, skipping", "category", r.Category())
		return domain.CategoryResult{Success: true}
	}
	var m cargoManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		r.d.Log.Warnw("Cargo.toml does not parse, skipping", "category", r.Category(), "error", err)
		return domain.CategoryResult{Success: true}
	}
	if m.Package == nil && m.Workspace == nil {
		r.d.Log.Debugw("Cargo.toml declares no package or workspace, skipping", "category", r.Category())
		return domain.CategoryResult{Success: true}
	}

	d := r.d
	if !d.Locator.EnsureAvailable(ctx, "cargo") {
		d.requiredMissing(r.Category(), "cargo")
		return domain.CategoryResult{Success: false}
	}
	return d.run(ctx, r.Category(), []step{
		{kind: stepFix, tool: "cargo-clippy", optional: true, cmd: d.command(root, "cargo-clippy", clippyFixTimeout, []string{"cargo", "clippy", "--fix", "--allow-dirty", "--allow-staged"})},
		{kind: stepVerify, tool: "cargo-clippy", optional: true, cmd: d.command(root, "cargo-clippy", defaultTimeout, []string{"cargo", "clippy"})},
		{kind: stepFormat, tool: "rustfmt", optional: true, cmd: d.command(root, "rustfmt", defaultTimeout, []string{"cargo", "fmt"})},
	})
}
