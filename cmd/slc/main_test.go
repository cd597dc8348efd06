package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scratchlang/slc/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catSource = "# Cat\n造型: cat.svg\n当绿旗被点击\n  移动 10 步\n"

const catSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20"></svg>`

type run struct {
	stdout, stderr bytes.Buffer
	err            error
}

// slc runs the command line with the defaults unless args name a config.
func slc(t *testing.T, args ...string) *run {
	t.Helper()
	r := new(run)
	m := NewMain()
	m.Stdin = strings.NewReader("")
	m.Stdout = &r.stdout
	m.Stderr = &r.stderr
	if len(args) == 0 || args[0] != "--config" {
		args = append([]string{"--config", os.DevNull}, args...)
	}
	r.err = m.Run(context.Background(), append([]string{"slc"}, args...)...)
	return r
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func TestCompile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": catSVG})

	r := slc(t, "compile", filepath.Join(dir, "main.sl"))
	require.NoError(t, r.err, r.stderr.String())
	assert.Contains(t, r.stderr.String(), "main.sl -> ")

	p, err := project.ReadFile(filepath.Join(dir, "main.sb3"))
	require.NoError(t, err)
	cat, ok := p.Target("Cat")
	require.True(t, ok)
	require.Len(t, cat.Costumes, 1)
	assert.Equal(t, "cat", cat.Costumes[0].Name)
	assert.Equal(t, project.DefaultAgent, p.Meta.Agent)
}

func TestCompileJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": catSVG})
	out := filepath.Join(dir, "out", "project.json")
	require.NoError(t, os.Mkdir(filepath.Dir(out), 0700))

	r := slc(t, "compile", "--json", "-o", out, filepath.Join(dir, "main.sl"))
	require.NoError(t, r.err, r.stderr.String())

	data, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	p, err := project.Read(data)
	require.NoError(t, err)
	_, ok := p.Target("Cat")
	assert.True(t, ok)
}

func TestCompileOutputNeedsOneSource(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.sl": "", "b.sl": ""})
	r := slc(t, "compile", "-o", "x.sb3", filepath.Join(dir, "a.sl"), filepath.Join(dir, "b.sl"))
	assert.Error(t, r.err)

	r = slc(t, "compile")
	assert.Error(t, r.err)
}

func TestCompileProblems(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": "当绿旗被点击\n  啊啊啊 啊\n  移动 10 步\n"})

	r := slc(t, "compile", filepath.Join(dir, "main.sl"))
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr.String(), "main.sl:2")
	assert.Contains(t, r.stderr.String(), "|  啊啊啊 啊")
	assert.FileExists(t, filepath.Join(dir, "main.sb3"))
}

func TestCompileOutsideRoot(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": "# Cat\n造型: ../outside.png\n"})

	r := slc(t, "compile", filepath.Join(dir, "main.sl"))
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "main.sl")
	assert.NoFileExists(t, filepath.Join(dir, "main.sb3"))
}

func TestCompileCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": catSVG})
	conf := filepath.Join(dir, "slc.conf")
	require.NoError(t, ioutil.WriteFile(conf, []byte(`
[cache]
  enabled = true
  path = "`+filepath.Join(dir, "cache", "cache.db")+`"
`), 0600))
	source := filepath.Join(dir, "main.sl")

	r := slc(t, "--config", conf, "compile", source)
	require.NoError(t, r.err, r.stderr.String())
	assert.NotContains(t, r.stderr.String(), "(cached)")
	first, err := ioutil.ReadFile(filepath.Join(dir, "main.sb3"))
	require.NoError(t, err)

	r = slc(t, "--config", conf, "compile", source)
	require.NoError(t, r.err, r.stderr.String())
	assert.Contains(t, r.stderr.String(), "(cached)")
	second, err := ioutil.ReadFile(filepath.Join(dir, "main.sb3"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	r = slc(t, "--config", conf, "compile", "--no-cache", source)
	require.NoError(t, r.err, r.stderr.String())
	assert.NotContains(t, r.stderr.String(), "(cached)")

	// a changed costume invalidates the build
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "cat.svg"), []byte(strings.Replace(catSVG, "40", "80", 1)), 0600))
	r = slc(t, "--config", conf, "compile", source)
	require.NoError(t, r.err, r.stderr.String())
	assert.NotContains(t, r.stderr.String(), "(cached)")
}

func cacheConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	conf := filepath.Join(dir, "slc.conf")
	require.NoError(t, ioutil.WriteFile(conf, []byte(`
[cache]
  enabled = true
  path = "`+filepath.Join(dir, "cache.db")+`"
`), 0600))
	return conf
}

func TestCompileCacheExtension(t *testing.T) {
	src := "导入扩展: ext.js\n# Cat\n当绿旗被点击\n  移动 10 步\n"
	dir := writeFiles(t, map[string]string{"main.sl": src, "ext.js": `const info = {id: "first"}`})
	conf := cacheConfig(t)
	source := filepath.Join(dir, "main.sl")

	require.NoError(t, slc(t, "--config", conf, "compile", source).err)
	r := slc(t, "--config", conf, "compile", source)
	require.NoError(t, r.err, r.stderr.String())
	assert.Contains(t, r.stderr.String(), "(cached)")

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "ext.js"), []byte(`const info = {id: "second"}`), 0600))
	r = slc(t, "--config", conf, "compile", source)
	require.NoError(t, r.err, r.stderr.String())
	assert.NotContains(t, r.stderr.String(), "(cached)")

	p, err := project.ReadFile(filepath.Join(dir, "main.sb3"))
	require.NoError(t, err)
	assert.Contains(t, p.Extensions, "second")
	assert.NotContains(t, p.Extensions, "first")
}

func TestCompileCacheDirectories(t *testing.T) {
	conf := cacheConfig(t)
	small := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": catSVG})
	large := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": strings.Replace(catSVG, "40", "90", 1)})

	require.NoError(t, slc(t, "--config", conf, "compile", filepath.Join(small, "main.sl")).err)
	r := slc(t, "--config", conf, "compile", filepath.Join(large, "main.sl"))
	require.NoError(t, r.err, r.stderr.String())
	assert.NotContains(t, r.stderr.String(), "(cached)")

	p, err := project.ReadFile(filepath.Join(large, "main.sb3"))
	require.NoError(t, err)
	cat, ok := p.Target("Cat")
	require.True(t, ok)
	require.Len(t, cat.Costumes, 1)
	assert.Equal(t, 45.0, cat.Costumes[0].RotationCenterX)
}

func TestDecompile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": catSVG})
	require.NoError(t, slc(t, "compile", filepath.Join(dir, "main.sl")).err)

	r := slc(t, "decompile", filepath.Join(dir, "main.sb3"))
	require.NoError(t, r.err, r.stderr.String())
	assert.Contains(t, r.stdout.String(), "# Cat\n")
	assert.Contains(t, r.stdout.String(), "当绿旗被点击\n  移动 10 步\n")

	out := filepath.Join(dir, "back.sl")
	r = slc(t, "decompile", "-o", out, filepath.Join(dir, "main.sb3"))
	require.NoError(t, r.err)
	data, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "移动 10 步")

	assert.Error(t, slc(t, "decompile").err)
}

func TestInspect(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.sl": catSource, "cat.svg": catSVG})
	require.NoError(t, slc(t, "compile", filepath.Join(dir, "main.sl")).err)
	archive := filepath.Join(dir, "main.sb3")

	r := slc(t, "inspect", archive)
	require.NoError(t, r.err, r.stderr.String())
	assert.Contains(t, r.stdout.String(), "name: Cat")
	assert.Contains(t, r.stdout.String(), "agent: slc")

	r = slc(t, "inspect", "--format", "json", archive)
	require.NoError(t, r.err, r.stderr.String())
	var s summary
	require.NoError(t, json.Unmarshal(r.stdout.Bytes(), &s))
	require.Len(t, s.Targets, 2)
	assert.True(t, s.Targets[0].Stage)
	assert.Equal(t, "Cat", s.Targets[1].Name)
	assert.Equal(t, 1, s.Targets[1].Scripts)
	assert.Equal(t, []string{"cat"}, s.Targets[1].Costumes)
	// the stage gets the blank backdrop
	assert.Equal(t, 2, s.Resources)

	assert.Error(t, slc(t, "inspect", "--format", "xml", archive).err)
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("SLC_COMPILE_AGENT", "custom")
	t.Setenv("SLC_CACHE_MAX_ENTRIES", "9")

	r := slc(t, "config")
	require.NoError(t, r.err, r.stderr.String())
	out := r.stdout.String()
	for _, section := range []string{"[compile]", "[decompile]", "[logging]", "[cache]"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, `agent = "custom"`)
	assert.Contains(t, out, "max-entries = 9")
}

func TestInvalidConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.conf":    "[decompile]\n  indent = \"xx\"\n",
		"broken.conf": "[compile\n",
	})
	assert.Error(t, slc(t, "--config", filepath.Join(dir, "bad.conf"), "config").err)
	assert.Error(t, slc(t, "--config", filepath.Join(dir, "broken.conf"), "config").err)
	assert.Error(t, slc(t, "--log-level", "loud", "config").err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SLC_COMPILE_AUTO_SCALE_COSTUMES", "true")
	t.Setenv("SLC_COMPILE_MAX_COSTUME_SIZE", "240")
	t.Setenv("SLC_LOGGING_LEVEL", "debug")

	c := NewConfig()
	require.NoError(t, c.ApplyEnvOverrides())
	assert.True(t, c.Compile.AutoScale)
	assert.Equal(t, 240, c.Compile.MaxCostumeSize)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.NoError(t, c.Validate())

	t.Setenv("SLC_COMPILE_MAX_COSTUME_SIZE", "big")
	assert.Error(t, NewConfig().ApplyEnvOverrides())
}

func TestFindConfigPath(t *testing.T) {
	assert.Equal(t, "a.conf", FindConfigPath("a.conf"))
	assert.Equal(t, "", FindConfigPath(os.DevNull))
	t.Setenv("SLC_CONFIG_PATH", "env.conf")
	assert.Equal(t, "env.conf", FindConfigPath(""))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "dir/main.sb3", outputPath("dir/main.sl", false))
	assert.Equal(t, "dir/main.json", outputPath("dir/main.sl", true))
	assert.Equal(t, "noext.sb3", outputPath("noext", false))
}
