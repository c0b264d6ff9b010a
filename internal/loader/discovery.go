package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "spotifyetl/internal/errors"
)

// FileInfo represents information about a discovered export file
type FileInfo struct {
	Path string
	Name string
	Size int64
}

// exportPrefix matches the file naming of the Extended Streaming History
// export, e.g. Streaming_History_Audio_2024-2025_1.json.
const exportPrefix = "streaming_history"

// FindExportFiles finds all streaming-history JSON files in the input
// directory, sorted by filename ascending. Filename order drives record
// order downstream, which keeps surrogate-id assignment deterministic
// across runs.
func FindExportFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("input directory " + dir)
		}
		return nil, apperrors.NewConfigError("failed to read input directory "+dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, exportPrefix) || !strings.HasSuffix(lower, ".json") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
