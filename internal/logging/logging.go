// Package logging configures the process-wide standard logger. When a log
// file is configured, output is teed to stdout and a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
)

// Setup points the standard logger at stdout, plus a rotating file when
// cfg.File is set. The returned closer releases the file.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil), nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	rotating := NewRotatingWriter(cfg)
	log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	log.Printf("[logging] writing logs to %s (max %dMB, %d backups)", cfg.File, cfg.MaxSizeMB, cfg.MaxBackups)
	return rotating, nil
}

// NewRotatingWriter returns a lumberjack writer for cfg.File.
func NewRotatingWriter(cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}
