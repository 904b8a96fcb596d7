package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the model artifact as JSON. The artifact carries the schema
// version and feature list so a loader can verify parity before scoring.
func Save(m *LogisticModel, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load reads a model artifact written by Save.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}

	if m.SchemaVersion == "" || len(m.Features) == 0 {
		return nil, fmt.Errorf("model artifact %s carries no schema metadata", path)
	}
	if len(m.Weights) != len(m.Features) {
		return nil, fmt.Errorf("model artifact %s is inconsistent: %d weights for %d features",
			path, len(m.Weights), len(m.Features))
	}

	return &m, nil
}
