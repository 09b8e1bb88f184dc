package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PruneModels keeps the keep most recent model archives in dir and removes the others.
// It returns the removed file names.
func PruneModels(dir string, keep int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type model struct {
		name    string
		modTime int64
	}
	var archives []model
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		archives = append(archives, model{name: e.Name(), modTime: info.ModTime().UnixNano()})
	}
	if keep < 0 {
		keep = 0
	}
	if len(archives) <= keep {
		return nil, nil
	}

	sort.Slice(archives, func(i, j int) bool {
		if archives[i].modTime != archives[j].modTime {
			return archives[i].modTime > archives[j].modTime
		}
		// model names start with their creation date
		return archives[i].name > archives[j].name
	})

	var removed []string
	for _, m := range archives[keep:] {
		if err := os.Remove(filepath.Join(dir, m.name)); err != nil {
			return removed, err
		}
		removed = append(removed, m.name)
	}
	return removed, nil
}
