package diagnostic_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scratchlang/slc/services/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultTime = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

type testStringer string

func (t testStringer) String() string {
	return string(t)
}

func TestLogfmt(t *testing.T) {
	tests := []struct {
		name   string
		exp    string
		msg    string
		fields []diagnostic.Field
	}{
		{
			name: "no fields simple message",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=this\n",
			msg:  "this",
		},
		{
			name: "no fields complex message",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=\"this is \\\" a test/yeah\"\n",
			msg:  "this is \" a test/yeah",
		},
		{
			name: "string field",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test test=this\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.String("test", "this"),
			},
		},
		{
			name: "empty string field",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test test=\"\"\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.String("test", ""),
			},
		},
		{
			name: "stringer field",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test test=\"this one\"\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.Stringer("test", testStringer("this one")),
			},
		},
		{
			name: "strings field",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test test_0=a test_1=\"b c\"\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.Strings("test", []string{"a", "b c"}),
			},
		},
		{
			name: "number fields",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test a=10 b=-3 c=2.5\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.Int("a", 10),
				diagnostic.Int64("b", -3),
				diagnostic.Float64("c", 2.5),
			},
		},
		{
			name: "bool duration and time fields",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test ok=true took=1.5s at=2009-11-10T23:00:00.000Z\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.Bool("ok", true),
				diagnostic.Duration("took", 1500*time.Millisecond),
				diagnostic.Time("at", defaultTime),
			},
		},
		{
			name: "error field",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test err=\"this is an error\"\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.Error(errors.New("this is an error")),
			},
		},
		{
			name: "nil error field",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=test err=nil\n",
			msg:  "test",
			fields: []diagnostic.Field{
				diagnostic.Error(nil),
			},
		},
		{
			name: "unicode",
			exp:  "ts=2009-11-10T23:00:00.000Z lvl=error msg=编译 target=角色1\n",
			msg:  "编译",
			fields: []diagnostic.Field{
				diagnostic.String("target", "角色1"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := diagnostic.NewServerLogger(buf)
			l.Log(defaultTime, "error", tt.msg, tt.fields)
			assert.Equal(t, tt.exp, buf.String())
		})
	}
}

func TestLoggerWithContext(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := diagnostic.NewServerLogger(buf).With(diagnostic.String("service", "compiler"))
	l.(*diagnostic.ServerLogger).Log(defaultTime, "info", "done", []diagnostic.Field{diagnostic.Int("blocks", 4)})
	assert.Equal(t, "ts=2009-11-10T23:00:00.000Z lvl=info msg=done service=compiler blocks=4\n", buf.String())
}

func TestJSON(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := diagnostic.NewJSONLogger(buf).With(diagnostic.String("service", "assets"))
	l.Warn("scaled", diagnostic.Strings("paths", []string{"a.png", "b.png"}), diagnostic.Int("width", 480), diagnostic.Error(errors.New("boom")))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["lvl"])
	assert.Equal(t, "scaled", rec["msg"])
	assert.Equal(t, "assets", rec["service"])
	assert.Equal(t, []interface{}{"a.png", "b.png"}, rec["paths"])
	assert.Equal(t, 480.0, rec["width"])
	assert.Equal(t, "boom", rec["err"])
}

func TestLevels(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	root := diagnostic.NewServerLogger(buf)
	child := root.With(diagnostic.String("k", "v"))
	root.SetLevel(diagnostic.WarnLevel)

	child.Debug("debug")
	child.Info("info")
	child.Warn("warn")
	child.Error("error")

	out := buf.String()
	assert.NotContains(t, out, "msg=debug")
	assert.NotContains(t, out, "msg=info")
	assert.Contains(t, out, "lvl=warn msg=warn k=v")
	assert.Contains(t, out, "lvl=error msg=error k=v")
}

func TestParseLevel(t *testing.T) {
	for name, exp := range map[string]diagnostic.Level{
		"debug": diagnostic.DebugLevel,
		"INFO":  diagnostic.InfoLevel,
		"Warn":  diagnostic.WarnLevel,
		"error": diagnostic.ErrorLevel,
	} {
		l, err := diagnostic.ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, exp, l)
	}
	_, err := diagnostic.ParseLevel("loud")
	assert.Error(t, err)
}

func TestMultiLogger(t *testing.T) {
	a, b := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
	l := diagnostic.NewMultiLogger(diagnostic.NewServerLogger(a), diagnostic.NewJSONLogger(b))
	l.With(diagnostic.String("x", "y")).Info("both")

	assert.Contains(t, a.String(), "msg=both x=y")
	assert.Contains(t, b.String(), `"msg":"both","x":"y"`)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, diagnostic.NewConfig().Validate())

	c := diagnostic.NewConfig()
	c.Level = "loud"
	assert.Error(t, c.Validate())

	c = diagnostic.NewConfig()
	c.Encoding = "xml"
	assert.Error(t, c.Validate())

	c = diagnostic.NewConfig()
	c.File = ""
	assert.Error(t, c.Validate())
}

func TestServiceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "slc.log")
	c := diagnostic.NewConfig()
	c.File = path
	c.Encoding = diagnostic.EncodingJSON

	s := diagnostic.NewService(c, nil, nil)
	require.NoError(t, s.Open())
	s.NewCompilerHandler().CompileFinished("abc", "main.sl", 2, 10, 1, time.Second)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "compile finished", rec["msg"])
	assert.Equal(t, "compiler", rec["service"])
	assert.Equal(t, 10.0, rec["blocks"])
	assert.Equal(t, "1s", rec["elapsed"])
}

func TestServiceLevel(t *testing.T) {
	stderr := bytes.NewBuffer(nil)
	c := diagnostic.NewConfig()
	c.Level = "warn"

	s := diagnostic.NewService(c, nil, stderr)
	require.NoError(t, s.Open())
	h := s.NewCompilerHandler()
	h.CompileStarted("abc", "main.sl")
	h.ProblemReported("abc", 3, "warning", errors.New("undeclared variable"))
	h.ProblemReported("abc", 4, "error", errors.New("unsupported statement"))

	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "lvl=warn msg=\"compile problem\" service=compiler session=abc line=3")
	assert.Contains(t, lines[1], "lvl=error")

	require.NoError(t, s.SetLevel("debug"))
	h.CompileStarted("abc", "main.sl")
	assert.Contains(t, stderr.String(), "msg=\"compile started\"")
	assert.Error(t, s.SetLevel("loud"))
}

func TestServiceZap(t *testing.T) {
	stdout := bytes.NewBuffer(nil)
	c := diagnostic.NewConfig()
	c.File = "STDOUT"
	c.Encoding = diagnostic.EncodingZap

	s := diagnostic.NewService(c, stdout, nil)
	require.NoError(t, s.Open())
	s.NewCacheHandler().CacheHit("0123abcd", 2048)
	s.NewStorageHandler().Error("failed to read", errors.New("bucket missing"))
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 1, "debug records are dropped at the default level")
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "error", rec["lvl"])
	assert.Equal(t, "failed to read", rec["msg"])
	assert.Equal(t, "storage", rec["service"])
	assert.Equal(t, "bucket missing", rec["err"])
}

func TestHandlers(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	c := diagnostic.NewConfig()
	c.Level = "debug"
	s := diagnostic.NewService(c, nil, buf)
	require.NoError(t, s.Open())

	s.NewAssetHandler().AssetLoaded("costume", "cat.png", "png", 1536)
	s.NewAssetHandler().CostumeScaled("big.png", 960, 720, 480, 360)
	s.NewDecompileHandler().BlockUnsupported("Cat", "music_playDrumForBeats")
	s.NewCmdHandler().Wrote("out.sb3", 3000)

	out := buf.String()
	assert.Contains(t, out, "service=assets kind=costume path=cat.png format=png size=\"1.5 kB\"")
	assert.Contains(t, out, "scaled_width=480 scaled_height=360")
	assert.Contains(t, out, "service=decompile target=Cat opcode=music_playDrumForBeats")
	assert.Contains(t, out, "service=run path=out.sb3 size=\"3.0 kB\"")
}
