package diagnostic

import (
	"strconv"
	"strings"
	"time"
)

// Field is one key/value pair of a log record.
type Field interface {
	WriteJSONTo(w Writer) (n int64, err error)
	WriteLogfmtTo(w Writer) (n int64, err error)
	Match(key, value string) bool
}

// counter tracks the bytes written and the first error.
type counter struct {
	w   Writer
	n   int64
	err error
}

func (c *counter) writeByte(b byte) {
	if c.err != nil {
		return
	}
	c.err = c.w.WriteByte(b)
	if c.err == nil {
		c.n++
	}
}

func (c *counter) writeString(s string) {
	if c.err != nil {
		return
	}
	m, err := c.w.WriteString(s)
	c.n += int64(m)
	c.err = err
}

func writeString(w Writer, s string) (int, error) {
	if s == "" || strings.ContainsAny(s, " \"=\n") {
		return w.WriteString(strconv.Quote(s))
	}
	return w.WriteString(s)
}

// logfmtPair writes key=value, quoting the value when needed.
func logfmtPair(w Writer, key, value string, raw bool) (int64, error) {
	c := &counter{w: w}
	c.writeString(key)
	c.writeByte('=')
	if raw {
		c.writeString(value)
	} else if c.err == nil {
		m, err := writeString(w, value)
		c.n += int64(m)
		c.err = err
	}
	return c.n, c.err
}

// jsonPair writes "key":value with value already encoded.
func jsonPair(w Writer, key, value string) (int64, error) {
	c := &counter{w: w}
	c.writeString(strconv.Quote(key))
	c.writeByte(':')
	c.writeString(value)
	return c.n, c.err
}

type StringField struct {
	key   string
	value string
}

func String(key string, value string) Field {
	return StringField{key: key, value: value}
}

func (s StringField) Match(key, value string) bool {
	return s.key == key && s.value == value
}

func (s StringField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, s.value, false)
}

func (s StringField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.Quote(s.value))
}

type StringerField struct {
	key   string
	value interface{ String() string }
}

func Stringer(key string, value interface{ String() string }) Field {
	return StringerField{key: key, value: value}
}

func (s StringerField) Match(key, value string) bool {
	return s.key == key && s.value.String() == value
}

func (s StringerField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, s.value.String(), false)
}

func (s StringerField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.Quote(s.value.String()))
}

// StringsField is written as key_0=a key_1=b in logfmt and as an array in
// JSON.
type StringsField struct {
	key    string
	values []string
}

func Strings(key string, values []string) Field {
	return StringsField{key: key, values: values}
}

func (s StringsField) Match(key, value string) bool {
	if s.key != key {
		return false
	}
	for _, v := range s.values {
		if v == value {
			return true
		}
	}
	return false
}

func (s StringsField) WriteLogfmtTo(w Writer) (n int64, err error) {
	for i, v := range s.values {
		if i != 0 {
			if err = w.WriteByte(' '); err != nil {
				return
			}
			n++
		}
		var m int64
		m, err = logfmtPair(w, s.key+"_"+strconv.Itoa(i), v, false)
		n += m
		if err != nil {
			return
		}
	}
	return
}

func (s StringsField) WriteJSONTo(w Writer) (int64, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range s.values {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(v))
	}
	b.WriteByte(']')
	return jsonPair(w, s.key, b.String())
}

type IntField struct {
	key   string
	value int
}

func Int(key string, value int) Field {
	return IntField{key: key, value: value}
}

func (s IntField) Match(key, value string) bool {
	return s.key == key && strconv.Itoa(s.value) == value
}

func (s IntField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, strconv.Itoa(s.value), true)
}

func (s IntField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.Itoa(s.value))
}

type Int64Field struct {
	key   string
	value int64
}

func Int64(key string, value int64) Field {
	return Int64Field{key: key, value: value}
}

func (s Int64Field) Match(key, value string) bool {
	return s.key == key && strconv.FormatInt(s.value, 10) == value
}

func (s Int64Field) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, strconv.FormatInt(s.value, 10), true)
}

func (s Int64Field) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.FormatInt(s.value, 10))
}

type Float64Field struct {
	key   string
	value float64
}

func Float64(key string, value float64) Field {
	return Float64Field{key: key, value: value}
}

func (s Float64Field) Match(key, value string) bool {
	return s.key == key && strconv.FormatFloat(s.value, 'f', -1, 64) == value
}

func (s Float64Field) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, strconv.FormatFloat(s.value, 'f', -1, 64), true)
}

func (s Float64Field) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.FormatFloat(s.value, 'f', -1, 64))
}

type BoolField struct {
	key   string
	value bool
}

func Bool(key string, value bool) Field {
	return BoolField{key: key, value: value}
}

func (s BoolField) Match(key, value string) bool {
	return s.key == key && strconv.FormatBool(s.value) == value
}

func (s BoolField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, strconv.FormatBool(s.value), true)
}

func (s BoolField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.FormatBool(s.value))
}

// ErrorField is always keyed err.
type ErrorField struct {
	err error
}

func Error(err error) Field {
	return ErrorField{err: err}
}

func (s ErrorField) Match(key, value string) bool {
	return false
}

func (s ErrorField) text() string {
	if s.err == nil {
		return "nil"
	}
	return s.err.Error()
}

func (s ErrorField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, "err", s.text(), false)
}

func (s ErrorField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, "err", strconv.Quote(s.text()))
}

type TimeField struct {
	key   string
	value time.Time
}

func Time(key string, value time.Time) Field {
	return TimeField{key: key, value: value}
}

func (s TimeField) Match(key, value string) bool {
	return s.key == key && s.value.Format(RFC3339Milli) == value
}

func (s TimeField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, s.value.Format(RFC3339Milli), true)
}

func (s TimeField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.Quote(s.value.Format(RFC3339Milli)))
}

type DurationField struct {
	key   string
	value time.Duration
}

func Duration(key string, value time.Duration) Field {
	return DurationField{key: key, value: value}
}

func (s DurationField) Match(key, value string) bool {
	return s.key == key && s.value.String() == value
}

func (s DurationField) WriteLogfmtTo(w Writer) (int64, error) {
	return logfmtPair(w, s.key, s.value.String(), true)
}

func (s DurationField) WriteJSONTo(w Writer) (int64, error) {
	return jsonPair(w, s.key, strconv.Quote(s.value.String()))
}
