package library

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

//go:embed library.json
var defaultFiles embed.FS

var (
	libOnce sync.Once
	lib     *Library
	libErr  error
)

// Load returns the process-wide library. The embedded default data is
// used unless CHESS_LIBRARY_PATH points to an override file.
func Load() (*Library, error) {
	libOnce.Do(func() {
		path, resolveErr := resolveLibraryPath()
		if resolveErr != nil {
			libErr = resolveErr
			return
		}
		if path != "" {
			lib, libErr = LoadFromPath(path)
			return
		}
		raw, err := fs.ReadFile(defaultFiles, "library.json")
		if err != nil {
			libErr = fmt.Errorf("read embedded library: %w", err)
			return
		}
		lib, libErr = decodeLibrary(raw)
		if libErr == nil {
			obslog.L().Info("library_load",
				zap.String("source", "embedded"),
				zap.Int("openings", len(lib.Openings)),
				zap.Int("endgames", len(lib.Endgames)),
			)
		}
	})
	return lib, libErr
}

// LoadFromPath loads and validates a library file.
func LoadFromPath(path string) (*Library, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("library path required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open library %q: %w", path, err)
	}
	l, err := decodeLibrary(raw)
	if err != nil {
		return nil, fmt.Errorf("decode library %q: %w", path, err)
	}
	obslog.L().Info("library_load",
		zap.String("source", path),
		zap.Int("openings", len(l.Openings)),
		zap.Int("endgames", len(l.Endgames)),
	)
	return l, nil
}

func decodeLibrary(raw []byte) (*Library, error) {
	var l Library
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	if err := validateUniqueIDs("opening", l.OpeningEntries()); err != nil {
		return nil, err
	}
	if err := validateUniqueIDs("endgame", l.EndgameEntries()); err != nil {
		return nil, err
	}
	return &l, nil
}

// IDs must be unique within their own library, not across both.
func validateUniqueIDs(kind string, entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		id := e.EntryID()
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s entry missing id", kind)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate %s id %q", kind, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func resolveLibraryPath() (string, error) {
	if envPath := os.Getenv("CHESS_LIBRARY_PATH"); envPath != "" {
		if exists(envPath) {
			return envPath, nil
		}
		return "", fmt.Errorf("env CHESS_LIBRARY_PATH points to missing file: %s", envPath)
	}
	return "", nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
