// Package fs stores the knowledge base and the bot's small JSON state files
// in a data directory.
package fs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/schedulelua/luabot"
)

// File names within the data directory.
const (
	DocsDir           = "docs"
	VersionFile       = "thunderstore_data.json"
	AutoResponsesFile = "auto_responses.json"
	RulesFile         = "rules.json"
	QuotesFile        = "john_lua_quotes.json"
)

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readJSON decodes path into v. It reports false when the file is missing
// or empty.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, luabot.WrapError(luabot.EPARSE, err, "Invalid data file %s.", filepath.Base(path))
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
