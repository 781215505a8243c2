package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Discover returns the files under root whose extension is in exts, as
// slash-separated paths relative to root, sorted lexicographically. The walk
// uses an explicit stack; filesystem enumeration order never leaks into the
// result. Symlinks and other non-regular files are skipped.
func Discover(root string, exts []string) ([]string, error) {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}

	var files []string
	stack := []string{""}
	for len(stack) > 0 {
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", path.Join(filepath.ToSlash(root), rel), err)
		}
		for _, e := range entries {
			child := path.Join(rel, e.Name())
			switch {
			case e.IsDir():
				stack = append(stack, child)
			case e.Type().IsRegular() && want[strings.ToLower(path.Ext(e.Name()))]:
				files = append(files, child)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
