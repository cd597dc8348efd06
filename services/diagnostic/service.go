package diagnostic

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service owns the root logger and hands out the handlers of each
// component.
type Service struct {
	c      Config
	stdout io.Writer
	stderr io.Writer

	closer io.Closer
	root   Logger
	server *ServerLogger
	zap    *ZapLogger
	level  zap.AtomicLevel
}

func NewService(c Config, stdout, stderr io.Writer) *Service {
	return &Service{
		c:      c,
		stdout: stdout,
		stderr: stderr,
		root:   nopLogger{},
		level:  zap.NewAtomicLevel(),
	}
}

// Open opens the configured output and creates the root logger.
func (s *Service) Open() error {
	if err := s.c.Validate(); err != nil {
		return errors.Wrap(err, "invalid logging configuration")
	}
	var output io.Writer
	switch s.c.File {
	case "STDERR":
		output = s.stderr
	case "STDOUT":
		output = s.stdout
	default:
		dir := filepath.Dir(s.c.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrap(err, "creating log directory")
			}
		}
		f, err := os.OpenFile(s.c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		output = f
		s.closer = f
	}

	switch s.c.Encoding {
	case EncodingZap:
		core := newZapCore(zapcore.AddSync(output), s.level)
		s.zap = NewZapLogger(zap.New(core))
		s.root = s.zap
	case EncodingJSON:
		s.server = NewJSONLogger(output)
		s.root = s.server
	default:
		s.server = NewServerLogger(output)
		s.root = s.server
	}
	return s.SetLevel(s.c.Level)
}

func (s *Service) Close() error {
	if s.zap != nil {
		// syncing a terminal fails on some platforms
		_ = s.zap.Sync()
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// SetLevel changes the minimum level of the root logger and every handler.
func (s *Service) SetLevel(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if s.server != nil {
		s.server.SetLevel(l)
	}
	s.level.SetLevel(zapLevel(l))
	return nil
}

func (s *Service) Logger() Logger {
	return s.root
}

func (s *Service) NewCompilerHandler() *CompilerHandler {
	return &CompilerHandler{l: s.root.With(String("service", "compiler"))}
}

func (s *Service) NewAssetHandler() *AssetHandler {
	return &AssetHandler{l: s.root.With(String("service", "assets"))}
}

func (s *Service) NewDecompileHandler() *DecompileHandler {
	return &DecompileHandler{l: s.root.With(String("service", "decompile"))}
}

func (s *Service) NewStorageHandler() *StorageHandler {
	return &StorageHandler{l: s.root.With(String("service", "storage"))}
}

func (s *Service) NewCacheHandler() *CacheHandler {
	return &CacheHandler{l: s.root.With(String("service", "buildcache"))}
}

func (s *Service) NewCmdHandler() *CmdHandler {
	return &CmdHandler{l: s.root.With(String("service", "run"))}
}
