// Package eventlog is bandlock's user-facing event log: one line per event,
// each prefixed with an ISO-8601 timestamp, appended to a file and mirrored
// to standard output.
package eventlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log writes timestamped event lines.
type Log struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	now    func() time.Time
}

// DefaultPath returns BANDLOCK_LOG when set, otherwise bandlock.log in the
// system temporary directory.
func DefaultPath() string {
	if p := os.Getenv("BANDLOCK_LOG"); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "bandlock.log")
}

// Open appends to the log file at path and mirrors every line to mirror
// (usually os.Stdout). The file is written first so a broken mirror never
// costs a line. The file is rotated once it grows past a few
// megabytes so a frequently scheduled run cannot fill the disk.
func Open(path string, mirror io.Writer) *Log {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}
	l := New(io.MultiWriter(file, mirror))
	l.closer = file
	return l
}

// New returns a log writing to w only.
func New(w io.Writer) *Log {
	return &Log{out: w, now: time.Now}
}

// Printf formats and writes one event line.
func (l *Log) Printf(format string, args ...interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] %s\n", l.now().Format(time.RFC3339), msg)
	if _, err := io.WriteString(l.out, line); err != nil {
		log.Printf("DEBUG: failed to write event log: %v", err)
	}
}

// Close releases the log file, if any.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
