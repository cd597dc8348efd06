package diagnostic

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger routes records through a zap logger.
type ZapLogger struct {
	l *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l}
}

// newZapCore builds the production JSON core writing to w at the given level.
func newZapCore(w zapcore.WriteSyncer, level zap.AtomicLevel) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.LevelKey = "lvl"
	enc.MessageKey = "msg"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, level)
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

func zapFields(ctx []Field) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx))
	for _, f := range ctx {
		switch f := f.(type) {
		case StringField:
			fields = append(fields, zap.String(f.key, f.value))
		case StringerField:
			fields = append(fields, zap.Stringer(f.key, f.value))
		case StringsField:
			fields = append(fields, zap.Strings(f.key, f.values))
		case IntField:
			fields = append(fields, zap.Int(f.key, f.value))
		case Int64Field:
			fields = append(fields, zap.Int64(f.key, f.value))
		case Float64Field:
			fields = append(fields, zap.Float64(f.key, f.value))
		case BoolField:
			fields = append(fields, zap.Bool(f.key, f.value))
		case ErrorField:
			fields = append(fields, zap.NamedError("err", f.err))
		case TimeField:
			fields = append(fields, zap.Time(f.key, f.value))
		case DurationField:
			fields = append(fields, zap.Duration(f.key, f.value))
		}
	}
	return fields
}

func (z *ZapLogger) Error(msg string, ctx ...Field) {
	z.l.Error(msg, zapFields(ctx)...)
}

func (z *ZapLogger) Warn(msg string, ctx ...Field) {
	z.l.Warn(msg, zapFields(ctx)...)
}

func (z *ZapLogger) Debug(msg string, ctx ...Field) {
	z.l.Debug(msg, zapFields(ctx)...)
}

func (z *ZapLogger) Info(msg string, ctx ...Field) {
	z.l.Info(msg, zapFields(ctx)...)
}

func (z *ZapLogger) With(ctx ...Field) Logger {
	return &ZapLogger{l: z.l.With(zapFields(ctx)...)}
}

// Sync flushes the buffered records of the zap core.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}
