// Package registry discovers serialized classifiers inside an engine
// installation, so callers can list what the engine could be started with.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nertag/internal/common/fsutil"
	"nertag/pkg/types"
)

// LoadDir scans a directory for *.ser.gz classifier files. ID is the full
// filename; Path is the absolute file path.
func LoadDir(dir string) ([]types.ClassifierModel, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var classifiers []types.ClassifierModel
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".ser.gz") {
			continue
		}
		classifiers = append(classifiers, types.ClassifierModel{
			ID:   name,
			Path: filepath.Join(abs, name),
		})
	}
	return classifiers, nil
}
