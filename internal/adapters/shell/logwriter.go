package shell

import (
	"bytes"
	"io"
	"strings"

	"go.trai.ch/lucifer/internal/core/ports"
)

// logWriter forwards complete output lines to the logger.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

// NewLogWriter returns a writer that logs every line written to it at info
// level, prefixed with prefix. Close flushes a trailing partial line.
func NewLogWriter(logger ports.Logger, prefix string) io.WriteCloser {
	return &logWriter{logger: logger, prefix: prefix}
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs terminate lines with \r\n.
	msg := strings.TrimSuffix(string(line), "\r")
	w.logger.Info(w.prefix + msg)
}
