package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
}

func (l Level) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel maps a case insensitive level name to its Level.
func ParseLevel(name string) (Level, error) {
	for l, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(l), nil
		}
	}
	return DebugLevel, fmt.Errorf("unknown logging level %s", name)
}

type Logger interface {
	Error(msg string, ctx ...Field)
	Warn(msg string, ctx ...Field)
	Debug(msg string, ctx ...Field)
	Info(msg string, ctx ...Field)
	With(ctx ...Field) Logger
}

type Writer interface {
	Write([]byte) (int, error)
	WriteByte(byte) error
	WriteString(string) (int, error)
}

type MultiLogger struct {
	loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{
		loggers: loggers,
	}
}

func (l *MultiLogger) Error(msg string, ctx ...Field) {
	for _, logger := range l.loggers {
		logger.Error(msg, ctx...)
	}
}

func (l *MultiLogger) Warn(msg string, ctx ...Field) {
	for _, logger := range l.loggers {
		logger.Warn(msg, ctx...)
	}
}

func (l *MultiLogger) Debug(msg string, ctx ...Field) {
	for _, logger := range l.loggers {
		logger.Debug(msg, ctx...)
	}
}

func (l *MultiLogger) Info(msg string, ctx ...Field) {
	for _, logger := range l.loggers {
		logger.Info(msg, ctx...)
	}
}

func (l *MultiLogger) With(ctx ...Field) Logger {
	loggers := make([]Logger, 0, len(l.loggers))
	for _, logger := range l.loggers {
		loggers = append(loggers, logger.With(ctx...))
	}
	return NewMultiLogger(loggers...)
}

type encodeFunc func(w Writer, now time.Time, level string, msg string, context, fields []Field)

// ServerLogger writes one logfmt or JSON line per record. Children created
// with With share the writer and the level of their parent.
type ServerLogger struct {
	mu      *sync.Mutex
	context []Field
	w       *bufio.Writer
	encode  encodeFunc
	level   *levelVar
	now     func() time.Time
}

type levelVar struct {
	mu  sync.RWMutex
	min Level
}

func (v *levelVar) enabled(l Level) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return l >= v.min
}

func NewServerLogger(w io.Writer) *ServerLogger {
	var mu sync.Mutex
	return &ServerLogger{
		mu:     &mu,
		w:      bufio.NewWriter(w),
		encode: writeLogfmt,
		level:  &levelVar{min: DebugLevel},
		now:    time.Now,
	}
}

// NewJSONLogger returns a ServerLogger writing JSON lines.
func NewJSONLogger(w io.Writer) *ServerLogger {
	l := NewServerLogger(w)
	l.encode = writeJSON
	return l
}

// SetLevel drops records below min, for the logger and all of its children.
func (l *ServerLogger) SetLevel(min Level) {
	l.level.mu.Lock()
	defer l.level.mu.Unlock()
	l.level.min = min
}

func (l *ServerLogger) With(ctx ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	newCtx := make([]Field, len(l.context), len(l.context)+len(ctx))
	copy(newCtx, l.context)
	return &ServerLogger{
		mu:      l.mu,
		context: append(newCtx, ctx...),
		w:       l.w,
		encode:  l.encode,
		level:   l.level,
		now:     l.now,
	}
}

func (l *ServerLogger) Error(msg string, ctx ...Field) {
	l.log(ErrorLevel, msg, ctx)
}

func (l *ServerLogger) Debug(msg string, ctx ...Field) {
	l.log(DebugLevel, msg, ctx)
}

func (l *ServerLogger) Warn(msg string, ctx ...Field) {
	l.log(WarnLevel, msg, ctx)
}

func (l *ServerLogger) Info(msg string, ctx ...Field) {
	l.log(InfoLevel, msg, ctx)
}

func (l *ServerLogger) log(lvl Level, msg string, ctx []Field) {
	if l.level.enabled(lvl) {
		l.Log(l.now(), lvl.String(), msg, ctx)
	}
}

// Log writes a record regardless of the level. Write errors are dropped,
// there is nowhere left to report them.
func (l *ServerLogger) Log(now time.Time, level string, msg string, ctx []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.encode(l.w, now, level, msg, l.context, ctx)
	l.w.Flush()
}

func writeLogfmt(w Writer, now time.Time, level string, msg string, context, fields []Field) {
	w.WriteString("ts=")
	w.WriteString(now.Format(RFC3339Milli))
	w.WriteString(" lvl=")
	w.WriteString(level)
	w.WriteString(" msg=")
	writeString(w, msg)

	for _, f := range context {
		w.WriteByte(' ')
		f.WriteLogfmtTo(w)
	}
	for _, f := range fields {
		w.WriteByte(' ')
		f.WriteLogfmtTo(w)
	}
	w.WriteByte('\n')
}

func writeJSON(w Writer, now time.Time, level string, msg string, context, fields []Field) {
	w.WriteString(`{"ts":`)
	w.WriteString(strconv.Quote(now.Format(RFC3339Milli)))
	w.WriteString(`,"lvl":`)
	w.WriteString(strconv.Quote(level))
	w.WriteString(`,"msg":`)
	w.WriteString(strconv.Quote(msg))

	for _, f := range context {
		w.WriteByte(',')
		f.WriteJSONTo(w)
	}
	for _, f := range fields {
		w.WriteByte(',')
		f.WriteJSONTo(w)
	}
	w.WriteString("}\n")
}

// nopLogger discards every record.
type nopLogger struct{}

func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (n nopLogger) With(...Field) Logger { return n }
