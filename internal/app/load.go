package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/quantforge/tickflow/internal/ctxlog"
	"github.com/quantforge/tickflow/internal/fsutil"
	"github.com/quantforge/tickflow/internal/hclgraph"
	"github.com/quantforge/tickflow/internal/schema"
)

// loadGraph resolves the configured graph path to a single definition file
// and decodes it. A directory is searched for .json and .hcl graph files;
// exactly one must be present.
func (a *App) loadGraph(ctx context.Context) (*schema.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	path := a.config.GraphPath
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("graph path: %w", err)
	}
	if info.IsDir() {
		path, err = findGraphFile(path)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("Loading graph definition.", "path", path)

	if strings.HasSuffix(path, ".hcl") {
		return hclgraph.LoadFile(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", path, err)
	}
	return schema.Parse(data)
}

func findGraphFile(dir string) (string, error) {
	var found []string
	for _, ext := range []string{".json", ".hcl"} {
		files, err := fsutil.FindFilesByExtension(dir, ext)
		if err != nil {
			return "", fmt.Errorf("scan %s: %w", dir, err)
		}
		found = append(found, files...)
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no graph file found under %s", dir)
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", fmt.Errorf("multiple graph files found under %s: %s", dir, strings.Join(found, ", "))
	}
}
