package linters

import (
	"context"
	"os"
	"path/filepath"
)

// nodeInvocation finds a way to run a Node-distributed tool: bun x, npx,
// the project's node_modules/.bin, then a global binary. When none works
// the locator gets one chance to install it.
func (d Deps) nodeInvocation(ctx context.Context, root, pkg, bin, tool string) []string {
	if argv := d.findNode(root, pkg, bin); argv != nil {
		return argv
	}
	if tool != "" && d.Locator.EnsureAvailable(ctx, tool) {
		return d.findNode(root, pkg, bin)
	}
	return nil
}

func (d Deps) findNode(root, pkg, bin string) []string {
	if _, err := d.Runner.LookPath("bun"); err == nil {
		return []string{"bun", "x", pkg}
	}
	if _, err := d.Runner.LookPath("npx"); err == nil {
		return []string{"npx", pkg}
	}
	local := filepath.Join(root, "node_modules", ".bin", bin)
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return []string{local}
	}
	if _, err := d.Runner.LookPath(bin); err == nil {
		return []string{bin}
	}
	return nil
}
