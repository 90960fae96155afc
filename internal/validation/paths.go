package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathHandler validates and normalizes filesystem paths from config
// before the store or the search index opens them.
type PathHandler struct {
	// AllowedBaseDirs restricts file operations to specific base directories.
	// Empty means allow all directories.
	AllowedBaseDirs []string
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

// NewSecurePathHandler creates a handler restricted to vidrank's own
// directories.
func NewSecurePathHandler() *PathHandler {
	homeDir, _ := os.UserHomeDir()
	return &PathHandler{
		AllowedBaseDirs: []string{
			homeDir,
			filepath.Join(homeDir, ".vidrank"),
			filepath.Join(homeDir, ".config", "vidrank"),
			os.TempDir(),
		},
		MaxPathLength: 4096,
	}
}

// NewPermissivePathHandler creates a handler for development/testing
func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{MaxPathLength: 4096}
}

// ValidatePath expands, cleans and checks a path.
func (ph *PathHandler) ValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > ph.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", ph.MaxPathLength)
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null bytes")
	}

	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
		path = abs
	}
	path = filepath.Clean(path)

	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	if err := ph.checkBaseDirs(path); err != nil {
		return "", err
	}
	return path, nil
}

// DBPath validates the snapshot database location, defaulting to
// ~/.vidrank.db.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".vidrank.db")
	}

	path, err := ph.ValidatePath(userPath)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return path, nil
}

// IndexPath validates the bleve index location, defaulting to
// ~/.vidrank/index.bleve. Bleve indexes are directories.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".vidrank", "index.bleve")
	}
	return ph.ValidatePath(userPath)
}

// EnsureDirectory validates a directory path and creates it.
func (ph *PathHandler) EnsureDirectory(path string) (string, error) {
	validated, err := ph.ValidatePath(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(validated); statErr == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("path exists but is not a directory: %s", validated)
		}
		return validated, nil
	}
	if err := os.MkdirAll(validated, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return validated, nil
}

func (ph *PathHandler) checkBaseDirs(path string) error {
	if len(ph.AllowedBaseDirs) == 0 {
		return nil
	}
	for _, baseDir := range ph.AllowedBaseDirs {
		absBase, err := filepath.Abs(baseDir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, path)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(rel, "..") {
			return nil
		}
	}
	return fmt.Errorf("path not within allowed directories: %v", ph.AllowedBaseDirs)
}
