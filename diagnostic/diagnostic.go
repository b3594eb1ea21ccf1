// Package diagnostic collects the advisories and errors reported while
// scanning configuration classes and renders them with the offending
// source line.
package diagnostic

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dhamidi/confdoc/java"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Subject is the declaration a diagnostic points at.
type Subject struct {
	Pos  java.Pos
	Name string
}

func At(pos java.Pos, name string) Subject {
	return Subject{Pos: pos, Name: name}
}

// Diagnostic is a single recorded message.
type Diagnostic struct {
	Severity Severity
	Subject  Subject
	Message  string
}

func (d Diagnostic) String() string {
	if !d.Subject.Pos.IsValid() {
		return d.Severity.String() + ": " + d.Message
	}
	return fmt.Sprintf("%s: %s: %s", d.Subject.Pos, d.Severity, d.Message)
}

// FatalError aborts a run. No output is written when one is returned.
type FatalError struct {
	Subject Subject
	Message string
}

func (e *FatalError) Error() string {
	if !e.Subject.Pos.IsValid() {
		return e.Message
	}
	return e.Subject.Pos.String() + ": " + e.Message
}

// Logger is the part of commonlog.Logger a Sink writes to.
type Logger interface {
	Errorf(format string, args ...any)
	Warningf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

// LineSource returns source lines for caret rendering. *java.Codebase
// implements it.
type LineSource interface {
	SourceLine(path string, line int) (string, bool)
}

// Sink logs diagnostics and keeps a copy of each one. A nil Logger
// only records.
type Sink struct {
	log   Logger
	lines LineSource

	mu       sync.Mutex
	recorded []Diagnostic
}

func NewSink(log Logger, lines LineSource) *Sink {
	return &Sink{log: log, lines: lines}
}

func (s *Sink) Info(at Subject, msg string) {
	s.report(Diagnostic{Severity: Info, Subject: at, Message: msg})
}

func (s *Sink) Warn(at Subject, msg string) {
	s.report(Diagnostic{Severity: Warning, Subject: at, Message: msg})
}

func (s *Sink) Error(at Subject, msg string) {
	s.report(Diagnostic{Severity: Error, Subject: at, Message: msg})
}

// Fatal records an error and returns it as a *FatalError.
func (s *Sink) Fatal(at Subject, msg string) error {
	s.Error(at, "Fatal: "+msg)
	return &FatalError{Subject: at, Message: msg}
}

// Debugf logs without recording.
func (s *Sink) Debugf(format string, args ...any) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

func (s *Sink) report(d Diagnostic) {
	s.mu.Lock()
	s.recorded = append(s.recorded, d)
	s.mu.Unlock()

	if s.log == nil {
		return
	}
	text := s.Render(d)
	switch d.Severity {
	case Error:
		s.log.Errorf("%s", text)
	case Warning:
		s.log.Warningf("%s", text)
	default:
		s.log.Infof("%s", text)
	}
}

// Diagnostics returns the recorded diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Diagnostic(nil), s.recorded...)
}

// Count returns the number of recorded diagnostics of at least the given
// severity.
func (s *Sink) Count(min Severity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.recorded {
		if d.Severity >= min {
			n++
		}
	}
	return n
}

// Render formats a diagnostic as its message followed by the location,
// the source line and a caret under the subject's name:
//
//	message
//	src/main/java/Foo.java:12
//	  private int port;
//	              ^
func (s *Sink) Render(d Diagnostic) string {
	pos := d.Subject.Pos
	if !pos.IsValid() {
		return d.Message
	}
	file := pos.File
	if i := strings.Index(file, "/src/"); i > 0 {
		file = file[i+1:]
	}

	line, ok := "", false
	if s.lines != nil {
		line, ok = s.lines.SourceLine(pos.File, pos.Line)
	}
	line = strings.TrimRight(line, " \t\r")
	if !ok || strings.TrimSpace(line) == "" {
		return fmt.Sprintf("%s\n%s:%d", d.Message, file, pos.Line)
	}

	column := -1
	if d.Subject.Name != "" {
		column = strings.Index(line, d.Subject.Name)
	}
	if column < 0 {
		column = min(max(pos.Column-1, 0), len(line))
	}
	return fmt.Sprintf("%s\n%s:%d\n  %s\n  %s^", d.Message, file, pos.Line, line, caretPadding(line[:column]))
}

// caretPadding blanks out prefix while keeping its tabs, so the caret
// lines up with the source line whatever the terminal's tab width.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
