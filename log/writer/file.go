package writer

import (
	"io"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig configures a size-rotated log file.
type FileConfig struct {
	Filepath   string // directory for log files
	Filename   string // base file name without extension
	FileExt    string // file extension, "log" if empty
	MaxSize    int    // maximum size per file in MB
	MaxBackups int    // number of rotated files to keep
	MaxAge     int    // days to retain rotated files
	Compress   bool   // compress rotated files
}

func (c FileConfig) fullPath() string {
	ext := c.FileExt
	if ext == "" {
		ext = "log"
	}
	return filepath.Join(c.Filepath, c.Filename+"."+ext)
}

// File creates a size-rotated file writer.
func File(c FileConfig) (io.Writer, error) {
	return &lumberjack.Logger{
		Filename:   c.fullPath(),
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}, nil
}
