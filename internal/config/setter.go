package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// writeAtomically writes content to a file atomically using a temporary file and rename.
// Creates parent directories if they don't exist.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}
	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "writing to temp file")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	tmpPath = "" // Prevent cleanup since rename succeeded
	return nil
}

// SetConfigValue sets one key in a JSON config file, creating the file if
// needed. The value is checked against the key schema before writing, and
// the file is rewritten with sorted keys.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return errors.Wrap(err, "validating value")
	}
	root, err := loadOrCreateJSON(filePath)
	if err != nil {
		return err
	}
	root[key] = parsed.Parsed

	content, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := writeAtomically(filePath, append(content, '\n')); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// WriteDefaultConfig writes the default template to filePath. An existing
// file is left alone unless force is set.
func WriteDefaultConfig(filePath string, force bool) (bool, error) {
	if fileExists(filePath) && !force {
		return false, nil
	}
	if err := writeAtomically(filePath, []byte(GetDefaultConfigTemplate())); err != nil {
		return false, errors.Wrap(err, "writing config file")
	}
	return true, nil
}

// loadOrCreateJSON loads a JSON config file, or returns an empty object.
func loadOrCreateJSON(filePath string) (map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}
	if err := ValidateJSONSyntaxFromBytes(data, filePath); err != nil {
		return nil, err
	}
	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return root, nil
}
