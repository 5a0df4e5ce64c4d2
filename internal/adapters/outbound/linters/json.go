package linters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// JSON checks syntax in-process and formats with prettier when the syntax
// check passes and prettier can be run.
type JSON struct{ d Deps }

func NewJSON(d Deps) *JSON { return &JSON{d: d} }

func (j *JSON) Category() domain.Category { return domain.CategoryJSON }

func (j *JSON) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 {
		return domain.CategoryResult{Success: true}
	}
	d := j.d
	strict := strictJSON(files)
	steps := []step{
		{kind: stepVerify, check: func(context.Context) (bool, []string) { return validJSON(root, strict) }},
	}
	if prettier := d.nodeInvocation(ctx, root, "prettier", "prettier", "prettier"); prettier != nil && len(strict) > 0 {
		steps = append(steps, step{
			kind:     stepFormat,
			optional: true,
			cmd:      d.command(root, "prettier", defaultTimeout, append(prettier, "--write", "--parser", "json"), strict...),
		})
	}
	return d.run(ctx, j.Category(), steps)
}

// strictJSON drops files that are conventionally JSON-with-comments.
func strictJSON(files []string) []string {
	var out []string
	for _, f := range files {
		base := filepath.Base(f)
		switch {
		case strings.HasPrefix(base, "tsconfig") || strings.HasPrefix(base, "jsconfig"):
		case base == "devcontainer.json" || base == ".devcontainer.json":
		case filepath.Base(filepath.Dir(f)) == ".vscode":
		default:
			out = append(out, f)
		}
	}
	return out
}

func validJSON(root string, files []string) (bool, []string) {
	var problems []string
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(root, f))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", f, err))
			continue
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", f, err))
		}
	}
	return len(problems) == 0, problems
}
