// Package logging configures the logrus logger shared by the CLI and the
// pipeline engine.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to out at the named level.
func New(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return log, nil
}

// ParseLevel maps the CLI level names onto logrus levels. An empty name means info.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unsupported log level %q", level)
	}
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Track brackets a long operation. Every line logged through it carries the
// same correlation id.
type Track struct {
	ID    string
	Name  string
	log   logrus.FieldLogger
	start time.Time
}

// Begin opens a time-track named name.
func Begin(log logrus.FieldLogger, name string) *Track {
	t := &Track{
		ID:    uuid.NewString(),
		Name:  name,
		start: time.Now(),
	}
	t.log = log.WithField("track", t.ID)
	t.log.Debugf("begin %s", name)
	return t
}

// Logger returns the correlated logger for messages inside the track.
func (t *Track) Logger() logrus.FieldLogger {
	return t.log
}

// End logs the elapsed time and returns it.
func (t *Track) End() time.Duration {
	elapsed := time.Since(t.start)
	t.log.WithField("elapsed_ms", elapsed.Milliseconds()).Debugf("end %s", t.Name)
	return elapsed
}
