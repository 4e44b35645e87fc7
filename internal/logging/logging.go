// Package logging routes the standard logger to stdout and, optionally, a
// size-rotated log file.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/rohits-web03/filekeep/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup redirects the standard logger according to cfg. The returned closer
// flushes and closes the rotating file, if any.
func Setup(cfg config.LogConfig) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	writer, closer := Writer(cfg, os.Stdout)
	log.SetOutput(writer)
	return closer
}

// Writer builds the log destination: stdout always, plus a rotating file when
// cfg.File is set.
func Writer(cfg config.LogConfig, stdout io.Writer) (io.Writer, io.Closer) {
	if cfg.File == "" {
		return stdout, nopCloser{}
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return io.MultiWriter(stdout, fileWriter), fileWriter
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
