package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"aish"
)

// SearchInput defines the input for the search tool.
type SearchInput struct {
	Pattern string `json:"pattern" jsonschema:"required,description=The glob pattern to match files against"`
	Path    string `json:"path,omitempty" jsonschema:"description=The directory to search in"`
}

// SearchTool matches files using glob patterns, newest first.
type SearchTool struct{}

var _ aish.Tool[SearchInput] = (*SearchTool)(nil)

func (t *SearchTool) Name() string        { return "search" }
func (t *SearchTool) Description() string { return "Find files matching a glob pattern" }

func (t *SearchTool) Execute(ctx context.Context, input SearchInput) (*aish.ToolResult, error) {
	if input.Pattern == "" {
		return aish.ErrorResult("pattern is required"), nil
	}

	basePath := input.Path
	if basePath == "" {
		if dir := aish.WorkDir(ctx); dir != "" {
			basePath = dir
		} else {
			var err error
			basePath, err = os.Getwd()
			if err != nil {
				return aish.ErrorResult(fmt.Sprintf("failed to get working directory: %s", err.Error())), nil
			}
		}
	}

	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return aish.ErrorResult(fmt.Sprintf("invalid path: %s", err.Error())), nil
	}

	matches, err := doublestar.Glob(os.DirFS(absBase), input.Pattern)
	if err != nil {
		return aish.ErrorResult(fmt.Sprintf("glob error: %s", err.Error())), nil
	}
	if len(matches) == 0 {
		return aish.TextResult("No files matched the pattern."), nil
	}

	type fileEntry struct {
		path    string
		modTime int64
	}
	entries := make([]fileEntry, 0, len(matches))
	for _, m := range matches {
		fullPath := filepath.Join(absBase, m)
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		entries = append(entries, fileEntry{path: fullPath, modTime: info.ModTime().UnixNano()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime > entries[j].modTime
	})

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.path)
		b.WriteByte('\n')
	}
	return aish.TextResult(b.String()), nil
}
