package application

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eugenenazirov/savi-chat/internal/config"
)

// PrepareDirectories creates the log, upload, static and template directories
// under baseDir when they are missing. Absolute configured paths are used as is.
func PrepareDirectories(baseDir string, cfg config.Config) error {
	dirs := []string{
		cfg.UploadFolder,
		filepath.Join("web", "static", "css"),
		filepath.Join("web", "static", "js"),
		filepath.Join("web", "static", "images"),
		filepath.Join("web", "templates"),
	}
	if cfg.LogFile != "" {
		dirs = append(dirs, filepath.Dir(cfg.LogFile))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
