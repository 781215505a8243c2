package document

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Title resolves a document title. A non-empty string "title" in meta wins;
// otherwise the title is derived from the filename, or from the parent
// directory for index files.
func Title(meta map[string]any, p string) string {
	if t, ok := meta["title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}

	p = filepath.ToSlash(p)
	name := path.Base(p)
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "index" {
		name = path.Base(path.Dir(p))
	}
	return titleCase(name)
}

// titleCase splits on hyphens and upper-cases the first letter of each word.
func titleCase(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
