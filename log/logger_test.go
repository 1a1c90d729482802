package log

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sistematransporte/transporte-go/log/writer"
)

func TestNew(t *testing.T) {
	logger := New(WithLevel(zerolog.DebugLevel))
	logger.Debug().Str("component", "session").Msg("debug message")
	logger.Info().Msg("info message")

	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewFile(writer.FileConfig{
		Filepath: dir,
		Filename: "client",
		MaxSize:  1,
	})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info().Msg("written to file")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "client.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one log file, got %v", matches)
	}
}

func TestGlobal(t *testing.T) {
	old := G
	defer SetGlobalLogger(old)

	SetGlobalLogger(New(WithLevel(zerolog.WarnLevel)))
	Warn().Msg("global warn")
	Infof("filtered at %s level", "warn")
}
