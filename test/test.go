package test

import (
	"encoding/json"
	"os"
	"path/filepath"
)

func LoadFixture(relativePath string) ([]byte, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return os.ReadFile(filepath.Join(wd, relativePath))
}

// LoadJSONFixture reads the fixture and decodes it into a value of the requested type
func LoadJSONFixture[T any](relativePath string) (T, error) {
	var result T
	data, err := LoadFixture(relativePath)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(data, &result)
	return result, err
}
