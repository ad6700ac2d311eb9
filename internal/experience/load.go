package experience

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/jonathan/resume-selector/internal/types"
)

// LoadMasterResume reads a master resume and returns it with its raw bytes
func LoadMasterResume(path string) (*types.MasterResume, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	master, err := ParseMasterResume(content)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, nil, err
	}
	return master, content, nil
}

// ParseMasterResume decodes a master resume document
func ParseMasterResume(content []byte) (*types.MasterResume, error) {
	var master types.MasterResume
	if err := json.Unmarshal(content, &master); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}
	return &master, nil
}
