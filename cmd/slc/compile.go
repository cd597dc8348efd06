package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/assets"
	"github.com/scratchlang/slc/bufpool"
	"github.com/scratchlang/slc/project"
	"github.com/scratchlang/slc/script"
	"github.com/scratchlang/slc/services/buildcache"
	"github.com/scratchlang/slc/services/storage"
	"github.com/urfave/cli/v2"
)

func (m *Main) compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile sources into sb3 archives",
		ArgsUsage: "file.sl [file.sl...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output path, only with a single source",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "write a bare project.json instead of an archive",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "directory every referenced file must resolve into",
			},
			&cli.BoolFlag{
				Name:  "auto-scale",
				Usage: "scale bitmap costumes down to the configured size",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "neither read nor store the build cache",
			},
		},
		Action: m.compile,
	}
}

type compileOptions struct {
	CompileConfig
	json bool
}

// key digests everything besides the source that changes a build. Relative
// paths in the source resolve against dir.
func (o compileOptions) key(src []byte, dir string) string {
	return buildcache.Key(src,
		"dir="+dir,
		"root="+o.Root,
		"agent="+o.Agent,
		fmt.Sprintf("scale=%t/%d", o.AutoScale, o.MaxCostumeSize),
		fmt.Sprintf("limits=%d/%d", o.MaxImageBytes, o.MaxSoundBytes),
	)
}

func (m *Main) compile(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("compile needs at least one source file")
	}
	output := ctx.String("output")
	if output != "" && ctx.NArg() > 1 {
		return errors.New("--output needs a single source file")
	}

	o := compileOptions{CompileConfig: m.config.Compile, json: ctx.Bool("json")}
	if ctx.IsSet("root") {
		o.Root = ctx.String("root")
	}
	if ctx.Bool("auto-scale") {
		o.AutoScale = true
	}

	m.buffers = bufpool.New(0)
	cache, closeCache, err := m.openCache(!ctx.Bool("no-cache"))
	if err != nil {
		return err
	}
	defer closeCache()

	for _, source := range ctx.Args().Slice() {
		out := output
		if out == "" {
			out = outputPath(source, o.json)
		}
		if err := m.compileFile(ctx.Context, source, out, o, cache); err != nil {
			return err
		}
	}
	return nil
}

func (m *Main) compileFile(ctx context.Context, source, out string, o compileOptions, cache *buildcache.Cache) error {
	src, err := ioutil.ReadFile(source)
	if err != nil {
		return errors.Wrap(err, "reading source")
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return errors.Wrap(err, "resolving source")
	}
	key := o.key(src, filepath.Dir(abs))

	if cache != nil {
		if e, ok := cache.Get(key); ok {
			if err := m.writeBuild(out, e.Archive, o.json); err != nil {
				return err
			}
			printSummary(m.Stderr, source, out, nil, true)
			return nil
		}
	}

	tracker := buildcache.NewTracker(assets.NewManager(o.Assets(), m.logs.NewAssetHandler()))
	opts := []script.Option{
		script.WithDir(filepath.Dir(source)),
		script.WithSource(source),
		script.WithAssets(tracker),
		script.WithDiagnostic(m.logs.NewCompilerHandler()),
		script.WithBuilderOptions(project.WithAgent(o.Agent)),
	}
	if o.Root != "" {
		opts = append(opts, script.WithRoot(o.Root))
	}
	res, err := script.Compile(ctx, src, opts...)
	if err != nil {
		return errors.Wrapf(err, "compiling %s", source)
	}
	printProblems(m.Stderr, source, strings.Split(string(src), "\n"), res.Problems)

	archive := m.buffers.Get()
	defer archive.Close()
	if err := project.WriteArchive(archive, res.Program); err != nil {
		return errors.Wrap(err, "packaging project")
	}
	if err := m.writeBuild(out, archive.Bytes(), o.json); err != nil {
		return err
	}
	printSummary(m.Stderr, source, out, res.Problems, false)

	// builds with problems are compiled again so the problems are shown again
	if cache != nil && len(res.Problems) == 0 {
		err := cache.Put(&buildcache.Entry{
			Key:     key,
			Source:  abs,
			Files:   tracker.Files(),
			Archive: archive.Bytes(),
		})
		if err != nil {
			m.diag.Error("failed to cache build", err)
		}
	}
	return nil
}

// writeBuild writes an archive, or the project.json inside it.
func (m *Main) writeBuild(out string, archive []byte, asJSON bool) error {
	data := archive
	if asJSON {
		p, err := project.Read(archive)
		if err != nil {
			return err
		}
		if data, err = project.Marshal(p); err != nil {
			return err
		}
	}
	if err := ioutil.WriteFile(out, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	m.diag.Wrote(out, int64(len(data)))
	return nil
}

// openCache opens the build cache when it is enabled. The returned func
// closes it.
func (m *Main) openCache(use bool) (*buildcache.Cache, func(), error) {
	if !use || !m.config.Cache.Enabled {
		return nil, func() {}, nil
	}
	s := storage.NewService(m.config.Cache.StorageConfig(), m.logs.NewStorageHandler())
	if err := s.Open(); err != nil {
		return nil, nil, errors.Wrap(err, "open build cache")
	}
	c := buildcache.New(m.config.Cache, m.logs.NewCacheHandler())
	c.StorageService = s
	if err := c.Open(); err != nil {
		s.Close()
		return nil, nil, errors.Wrap(err, "open build cache")
	}
	return c, func() {
		if err := s.Close(); err != nil {
			m.diag.Error("failed to close build cache", err)
		}
	}, nil
}

func outputPath(source string, asJSON bool) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	if asJSON {
		return base + ".json"
	}
	return base + ".sb3"
}
