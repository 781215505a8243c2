package document

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ChunkID returns the stable identifier for the chunkIndex-th chunk (1-based)
// of document docNumber, e.g. "doc-003-0012".
func ChunkID(docNumber, chunkIndex int) string {
	return fmt.Sprintf("doc-%03d-%04d", docNumber, chunkIndex)
}

// Slug derives a URL-safe identifier from a document path: the root prefix
// and extension are dropped, separators become hyphens, and the result is
// lower-cased. Slug("docs/chapter-2/index.md", "docs") == "chapter-2-index".
func Slug(p, root string) string {
	p = path.Clean(filepath.ToSlash(p))
	if root = path.Clean(filepath.ToSlash(root)); root != "." {
		p = strings.TrimPrefix(p, root+"/")
	}
	p = strings.TrimSuffix(p, path.Ext(p))
	return strings.ToLower(strings.ReplaceAll(p, "/", "-"))
}
