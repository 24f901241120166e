package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceFile is one discovered post source.
type SourceFile struct {
	Path string // absolute path
	Name string // base name, e.g. 2026-01-01-hello-world.md
}

// markdownExtensions lists the recognized post file extensions.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// discoverPosts walks the posts directory and returns Markdown sources in a
// deterministic (name-sorted) order. A missing posts directory yields an
// empty site rather than an error; authors get a warning from the generator.
func discoverPosts(postsDir string) ([]SourceFile, error) {
	info, err := os.Stat(postsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat posts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("posts path is not a directory: %s", postsDir)
	}

	var files []SourceFile
	err = filepath.WalkDir(postsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories (editor state, VCS internals).
			if path != postsDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !markdownExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		files = append(files, SourceFile{Path: abs, Name: d.Name()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk posts directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
