package liblog

import (
	"io"
	"log"

	"github.com/hashicorp/go-hclog"
)

const fieldHCLogName = "hclog.name"

// _hclog adapts a Logger to the hashicorp/go-hclog.Logger interface, so a
// host program already standardized on hclog (common across the corpus)
// can mount the engine's logger without a second logging stack.
type _hclog struct {
	l Logger
}

// NewHashicorpHCLog wraps l as an hclog.Logger.
func NewHashicorpHCLog(l Logger) hclog.Logger {
	return &_hclog{l: l}
}

func (h *_hclog) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Off, hclog.NoLevel:
		return
	case hclog.Trace, hclog.Debug:
		h.Debug(msg, args...)
	case hclog.Info:
		h.Info(msg, args...)
	case hclog.Warn:
		h.Warn(msg, args...)
	case hclog.Error:
		h.Error(msg, args...)
	}
}

func argsToFields(args []interface{}) Fields {
	f := make(Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			f[k] = args[i+1]
		}
	}
	return f
}

func (h *_hclog) Trace(msg string, args ...interface{}) { h.l.Debug(msg, argsToFields(args)) }
func (h *_hclog) Debug(msg string, args ...interface{}) { h.l.Debug(msg, argsToFields(args)) }
func (h *_hclog) Info(msg string, args ...interface{})  { h.l.Info(msg, argsToFields(args)) }
func (h *_hclog) Warn(msg string, args ...interface{})  { h.l.Warn(msg, argsToFields(args)) }
func (h *_hclog) Error(msg string, args ...interface{}) { h.l.Error(msg, argsToFields(args)) }

func (h *_hclog) IsTrace() bool { return h.l.GetLevel() >= DebugLevel }
func (h *_hclog) IsDebug() bool { return h.l.GetLevel() >= DebugLevel }
func (h *_hclog) IsInfo() bool  { return h.l.GetLevel() >= InfoLevel }
func (h *_hclog) IsWarn() bool  { return h.l.GetLevel() >= WarnLevel }
func (h *_hclog) IsError() bool { return h.l.GetLevel() >= ErrorLevel }

func (h *_hclog) ImpliedArgs() []interface{} { return nil }

func (h *_hclog) With(args ...interface{}) hclog.Logger {
	return &_hclog{l: h.l.WithFields(argsToFields(args))}
}

func (h *_hclog) Name() string {
	if v, ok := h.l.GetFields()[fieldHCLogName]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (h *_hclog) Named(name string) hclog.Logger {
	return &_hclog{l: h.l.WithFields(Fields{fieldHCLogName: name})}
}

func (h *_hclog) ResetNamed(name string) hclog.Logger { return h.Named(name) }

func (h *_hclog) SetLevel(level hclog.Level) {
	switch level {
	case hclog.Off, hclog.NoLevel:
		h.l.SetLevel(NilLevel)
	case hclog.Trace, hclog.Debug:
		h.l.SetLevel(DebugLevel)
	case hclog.Info:
		h.l.SetLevel(InfoLevel)
	case hclog.Warn:
		h.l.SetLevel(WarnLevel)
	case hclog.Error:
		h.l.SetLevel(ErrorLevel)
	}
}

func (h *_hclog) GetLevel() hclog.Level {
	switch h.l.GetLevel() {
	case NilLevel:
		return hclog.Off
	case DebugLevel:
		return hclog.Debug
	case InfoLevel:
		return hclog.Info
	case WarnLevel:
		return hclog.Warn
	case ErrorLevel, FatalLevel, PanicLevel:
		return hclog.Error
	default:
		return hclog.Info
	}
}

func (h *_hclog) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(h, "", 0)
}

func (h *_hclog) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return h
}

// Write satisfies io.Writer so this logger can back a standard *log.Logger
// via StandardLogger/StandardWriter.
func (h *_hclog) Write(p []byte) (int, error) {
	h.l.Info(string(p), nil)
	return len(p), nil
}
