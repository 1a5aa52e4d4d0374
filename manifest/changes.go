package manifest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// ChangeList serves changed unit names from a file, a fixed list, or both.
// The file holds one name per line; blank lines and lines starting with #
// are skipped. Names repeat only once, compared case-insensitively.
type ChangeList struct {
	Path  string
	Names []string
}

// ChangedUnitNames returns the file names followed by the fixed names.
func (c ChangeList) ChangedUnitNames(ctx context.Context) ([]string, error) {
	var names []string
	if c.Path != "" {
		fromFile, err := readChanges(ctx, c.Path)
		if err != nil {
			return nil, err
		}
		names = fromFile
	}
	names = append(names, c.Names...)
	return dedupe(names), nil
}

func readChanges(ctx context.Context, p string) ([]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return names, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		key := graph.Fold(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}
