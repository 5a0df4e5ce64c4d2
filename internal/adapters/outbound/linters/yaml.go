package linters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/pluginpipe/internal/domain"
	"gopkg.in/yaml.v3"
)

// YAML runs yamllint with the relaxed preset, failing only on errors. When
// yamllint cannot be had, files are parsed in-process instead.
type YAML struct{ d Deps }

func NewYAML(d Deps) *YAML { return &YAML{d: d} }

func (y *YAML) Category() domain.Category { return domain.CategoryYAML }

func (y *YAML) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 {
		return domain.CategoryResult{Success: true}
	}
	check := func(context.Context) (bool, []string) { return parseYAML(root, files) }
	if y.d.Locator.EnsureAvailable(ctx, "yamllint") {
		check = func(ctx context.Context) (bool, []string) { return y.yamllint(ctx, root, files) }
	} else {
		y.d.Log.Infow("yamllint not available, checking syntax only", "category", y.Category())
	}
	return y.d.run(ctx, y.Category(), []step{{kind: stepVerify, check: check}})
}

func (y *YAML) yamllint(ctx context.Context, root string, files []string) (bool, []string) {
	cmd := y.d.command(root, "yamllint", defaultTimeout, []string{"yamllint", "-d", "relaxed", "--format", "parsable"}, files...)
	res := y.d.Runner.Run(ctx, *cmd)
	switch {
	case res.TimedOut:
		y.d.Log.Warnw("yamllint timed out, skipping", "timeout", cmd.Timeout)
		return true, nil
	case res.Err != nil:
		y.d.Log.Warnw("yamllint could not run, checking syntax only", "error", res.Err)
		return parseYAML(root, files)
	}
	var errs []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.Contains(line, "[error]") {
			errs = append(errs, line)
		}
	}
	return len(errs) == 0, errs
}

// parseYAML decodes every document of every file.
func parseYAML(root string, files []string) (bool, []string) {
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
		dec := yaml.NewDecoder(bytes.NewReader(data))
		for {
			var doc yaml.Node
			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", f, err))
				break
			}
		}
	}
	return len(problems) == 0, problems
}
