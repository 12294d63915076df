package history

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ademuri/streaming-history-tools/internal/logging"
)

// Accept reports whether a file name is a candidate export file. Hidden files,
// including "._" resource forks left behind by macOS archivers, are skipped.
func Accept(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".")
}

// Walk calls fn for every accepted regular file under root, in lexical order.
// An unreadable root is an error. Unreadable subdirectories are logged and
// skipped. An error returned by fn stops the walk.
func Walk(root string, fn func(path string) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.Warn().Str("path", path).Err(err).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !Accept(d.Name()) {
			return nil
		}
		return fn(path)
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}
	return nil
}
