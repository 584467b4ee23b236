package entities

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandPath expands environment variables and a leading ~ in path. Relative results are
// resolved against baseDir (when not empty).
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		path = strings.Replace(path, "~", homeDir(), 1)
	}

	path = os.ExpandEnv(path)
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	return filepath.Clean(path)
}

func homeDir() string {
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}

	return os.Getenv("HOME")
}
