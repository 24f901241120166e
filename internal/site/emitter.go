package site

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// emit writes pages and static assets into a staging directory and atomically
// swaps it into place as the output root. A failed build never touches the
// previous output: everything happens in the staging tree until the final
// rename.
func emit(buildID, outputDir, staticDir string, pages []Page) (string, error) {
	parent := filepath.Dir(outputDir)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fmt.Errorf("create output parent: %w", err)
	}

	stagingDir := fmt.Sprintf("%s.staging-%s", outputDir, shortID(buildID))
	if err := os.MkdirAll(stagingDir, 0o750); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	// The staging tree is removed on every exit path; only the swap makes it
	// durable (under the output name).
	defer func() { _ = os.RemoveAll(stagingDir) }()

	for _, page := range pages {
		dest := filepath.Join(stagingDir, filepath.FromSlash(page.OutputPath))
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return "", fmt.Errorf("create page directory: %w", err)
		}
		if err := os.WriteFile(dest, page.Content, 0o644); err != nil {
			return "", fmt.Errorf("write page %s: %w", page.OutputPath, err)
		}
	}

	if err := copyStatic(staticDir, stagingDir); err != nil {
		return "", err
	}

	hash, err := hashTree(stagingDir)
	if err != nil {
		return "", fmt.Errorf("hash output tree: %w", err)
	}

	if err := swap(stagingDir, outputDir); err != nil {
		return "", err
	}
	return hash, nil
}

// swap atomically replaces outputDir with stagingDir. The old tree is moved
// aside first so a crash between the two renames leaves a recoverable state,
// never a half-written site.
func swap(stagingDir, outputDir string) error {
	oldDir := outputDir + ".old"
	_ = os.RemoveAll(oldDir)

	if _, err := os.Stat(outputDir); err == nil {
		if err := os.Rename(outputDir, oldDir); err != nil {
			return fmt.Errorf("move previous output aside: %w", err)
		}
	}

	if err := os.Rename(stagingDir, outputDir); err != nil {
		// Try to restore the previous output before reporting.
		if _, statErr := os.Stat(oldDir); statErr == nil {
			_ = os.Rename(oldDir, outputDir)
		}
		return fmt.Errorf("swap staging into place: %w", err)
	}

	_ = os.RemoveAll(oldDir)
	return nil
}

// copyStatic copies the static asset tree into the staging root. A missing
// static directory is fine.
func copyStatic(staticDir, stagingDir string) error {
	info, err := os.Stat(staticDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat static directory: %w", err)
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(staticDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dest := filepath.Join(stagingDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o750)
		}
		return copyFile(path, dest)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open asset %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("create asset directory: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create asset %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy asset %s: %w", src, err)
	}
	return out.Close()
}

func shortID(buildID string) string {
	if len(buildID) > 8 {
		return buildID[:8]
	}
	return buildID
}
