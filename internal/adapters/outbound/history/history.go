// Package history persists auto-fix loop runs next to the project.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/pluginpipe/internal/domain"
)

const historyFile = ".pluginpipe/history/runs.json"

// maxRecords caps the file; older runs are dropped first.
const maxRecords = 200

// FileHistory implements domain.RunHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(projectPath string, record domain.RunRecord) error {
	records, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	records = append(records, record)
	if len(records) > maxRecords {
		records = records[len(records)-maxRecords:]
	}

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0o644)
}

func (h *FileHistory) Load(projectPath string) ([]domain.RunRecord, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return records, nil
}
