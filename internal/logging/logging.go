// Package logging implements the opaque logging sink consumed by the
// core: a single callback taking a level mask and a message. The core
// emits ERROR on I/O failure and index errors, NOTICE on successful I/O
// with byte counts, and INFO on index-rebuild events and history-block
// discovery.
package logging

import "github.com/sirupsen/logrus"

// Level is one of the three masks the core ever emits.
type Level int

const (
	LevelError Level = iota
	LevelNotice
	LevelInfo
)

// Sink is the log callback contract the core consumes.
type Sink interface {
	Log(level Level, format string, args ...any)
}

// Logrus adapts a *logrus.Logger to the Sink contract. NOTICE has no
// direct logrus equivalent, so it is logged at Info level with the field
// mask=notice, and INFO is logged at Debug to keep routine
// rebuild/history chatter out of a default-level log.
type Logrus struct {
	Logger *logrus.Logger
}

// NewLogrus builds a Logrus sink around a logger with the given level and
// a text formatter, matching the plain single-line log lines the
// original backend produced.
func NewLogrus(level logrus.Level) *Logrus {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logrus{Logger: l}
}

func (s *Logrus) Log(level Level, format string, args ...any) {
	switch level {
	case LevelError:
		s.Logger.Errorf(format, args...)
	case LevelNotice:
		s.Logger.WithField("mask", "notice").Infof(format, args...)
	default:
		s.Logger.Debugf(format, args...)
	}
}

// Discard is a Sink that drops every message; useful in tests.
type Discard struct{}

func (Discard) Log(Level, string, ...any) {}
