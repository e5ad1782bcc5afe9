// Package source discovers the bug documents available for analysis.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/horacewang893101/fetch-jira-bug/internal/parser"
)

// Document is one unit of input text, identified by a stable string
// derived from its filename.
type Document struct {
	ID   string
	Path string
}

// List returns the documents in dir with supported extensions, sorted
// by ID ascending. A missing directory yields an empty list, not an
// error: callers treat empty as nothing to do.
func List(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !parser.IsSupportedExtension(entry.Name()) {
			continue
		}
		name := entry.Name()
		docs = append(docs, Document{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
