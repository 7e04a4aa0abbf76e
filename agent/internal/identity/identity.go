package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultPath is where the agent keeps its identifier when nothing else is configured.
const DefaultPath = ".device_id"

// ErrEmpty is returned by Load when the file exists but holds no identifier.
var ErrEmpty = errors.New("identity file is empty")

// GetOrCreate returns the identifier stored at path, generating and persisting a
// new random one when the file is missing or blank. A write failure is returned
// as is; callers cannot run a session without a stable identity.
func GetOrCreate(path string) (string, error) {
	id, err := Load(path)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrEmpty) {
		return "", err
	}
	id = uuid.NewString()
	if err := save(path, id); err != nil {
		return "", err
	}
	return id, nil
}

// Load reads the identifier at path without creating it.
func Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(b))
	if id == "" {
		return "", ErrEmpty
	}
	return id, nil
}

func save(path, id string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir identity dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(id), 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}
