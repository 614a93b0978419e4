package climate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const DefaultEnvironmentFile = "environment_data.json"

// WriteJSON exports ds as a JSON array of day records.
func WriteJSON(path string, ds Dataset) error {
	if ds == nil {
		ds = Dataset{}
	}
	data, err := json.MarshalIndent(ds, "", "    ")
	if err != nil {
		return fmt.Errorf("encode environment data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write environment data: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace environment data: %w", err)
	}
	return nil
}

func ReadJSON(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse environment data: %w", err)
	}
	return ds, nil
}
