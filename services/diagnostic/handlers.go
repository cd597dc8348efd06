package diagnostic

import (
	"runtime"
	"time"

	humanize "github.com/dustin/go-humanize"
)

// Compiler handler

type CompilerHandler struct {
	l Logger
}

func (h *CompilerHandler) CompileStarted(session, source string) {
	h.l.Debug("compile started", String("session", session), String("source", source))
}

func (h *CompilerHandler) CompileFinished(session, source string, targets, blocks, problems int, elapsed time.Duration) {
	h.l.Info("compile finished",
		String("session", session),
		String("source", source),
		Int("targets", targets),
		Int("blocks", blocks),
		Int("problems", problems),
		Duration("elapsed", elapsed),
	)
}

func (h *CompilerHandler) ProblemReported(session string, line int, severity string, err error) {
	if severity == "warning" {
		h.l.Warn("compile problem", String("session", session), Int("line", line), Error(err))
		return
	}
	h.l.Error("compile problem", String("session", session), Int("line", line), Error(err))
}

// Asset handler

type AssetHandler struct {
	l Logger
}

func (h *AssetHandler) AssetLoaded(kind, path, format string, size int) {
	h.l.Debug("loaded asset",
		String("kind", kind),
		String("path", path),
		String("format", format),
		String("size", humanize.Bytes(uint64(size))),
	)
}

func (h *AssetHandler) CostumeScaled(path string, width, height, scaledWidth, scaledHeight int) {
	h.l.Info("scaled costume",
		String("path", path),
		Int("width", width),
		Int("height", height),
		Int("scaled_width", scaledWidth),
		Int("scaled_height", scaledHeight),
	)
}

// Decompile handler

type DecompileHandler struct {
	l Logger
}

func (h *DecompileHandler) TargetDecompiled(target string, scripts, lines int) {
	h.l.Debug("decompiled target", String("target", target), Int("scripts", scripts), Int("lines", lines))
}

func (h *DecompileHandler) BlockUnsupported(target, opcode string) {
	h.l.Warn("block has no source form", String("target", target), String("opcode", opcode))
}

// Storage handler

type StorageHandler struct {
	l Logger
}

func (h *StorageHandler) Error(msg string, err error) {
	h.l.Error(msg, Error(err))
}

func (h *StorageHandler) StoreOpened(path string, elapsed time.Duration) {
	h.l.Debug("opened store", String("path", path), Duration("elapsed", elapsed))
}

// Build cache handler

type CacheHandler struct {
	l Logger
}

func (h *CacheHandler) Error(msg string, err error) {
	h.l.Error(msg, Error(err))
}

func (h *CacheHandler) CacheHit(key string, size int) {
	h.l.Debug("build cache hit", String("key", key), String("size", humanize.Bytes(uint64(size))))
}

func (h *CacheHandler) CacheMiss(key string) {
	h.l.Debug("build cache miss", String("key", key))
}

func (h *CacheHandler) CacheStored(key string, size int) {
	h.l.Debug("stored build", String("key", key), String("size", humanize.Bytes(uint64(size))))
}

// Cmd handler

type CmdHandler struct {
	l Logger
}

func (h *CmdHandler) Error(msg string, err error) {
	h.l.Error(msg, Error(err))
}

func (h *CmdHandler) Starting(command, version, commit string) {
	h.l.Debug("slc starting", String("command", command), String("version", version), String("commit", commit))
}

func (h *CmdHandler) GoVersion() {
	h.l.Debug("go version", String("version", runtime.Version()))
}

func (h *CmdHandler) Info(msg string) {
	h.l.Info(msg)
}

func (h *CmdHandler) Wrote(path string, size int64) {
	h.l.Info("wrote file", String("path", path), String("size", humanize.Bytes(uint64(size))))
}
