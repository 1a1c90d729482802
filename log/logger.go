package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/sistematransporte/transporte-go/log/writer"
)

// Logger wraps zerolog.Logger with writer lifecycle management.
type Logger struct {
	zerolog.Logger
	writer io.Writer
	closer io.Closer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Close releases the logger's writer resources, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		writer: w,
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// New creates a Logger writing to the console.
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewFile creates a Logger writing to a size-rotated file.
func NewFile(c writer.FileConfig, opts ...Option) (*Logger, error) {
	w, err := writer.File(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	logger := newLogger(w, opts...)
	if closer, ok := w.(io.Closer); ok {
		logger.closer = closer
	}

	return logger, nil
}

// NewMulti creates a Logger writing to both a file and the console.
func NewMulti(c writer.FileConfig, opts ...Option) (*Logger, error) {
	fw, err := writer.File(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	multi := zerolog.MultiLevelWriter(fw, writer.Console())
	logger := newLogger(multi, opts...)
	if closer, ok := fw.(io.Closer); ok {
		logger.closer = closer
	}

	return logger, nil
}
