package liblog

import (
	"github.com/sirupsen/logrus"
)

// FuncLog returns a Logger instance; components and the engine accept this
// for lazy / injected logger resolution, mirroring nabbar-golib/logger's
// FuncLog type.
type FuncLog func() Logger

// Logger is the logging contract used throughout the engine: level
// filtering plus default fields merged into every entry.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	GetFields() Fields

	WithFields(f Fields) Logger

	Log(lvl Level, msg string, f Fields)

	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type logger struct {
	l      *logrus.Logger
	lvl    Level
	fields Fields
}

// New returns a Logger backed by a fresh logrus.Logger at InfoLevel.
func New() Logger {
	l := logrus.New()
	return &logger{l: l, lvl: InfoLevel, fields: Fields{}}
}

func toLogrusLevel(l Level) logrus.Level {
	switch l {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case DebugLevel:
		return logrus.DebugLevel
	case NilLevel:
		return logrus.PanicLevel // most restrictive logrus level; Log drops every entry at NilLevel
	default:
		return logrus.InfoLevel
	}
}

func (o *logger) SetLevel(lvl Level) {
	o.lvl = lvl
	o.l.SetLevel(toLogrusLevel(lvl))
}

func (o *logger) GetLevel() Level { return o.lvl }

func (o *logger) SetFields(f Fields) { o.fields = f.Clone() }
func (o *logger) GetFields() Fields  { return o.fields.Clone() }

func (o *logger) WithFields(f Fields) Logger {
	return &logger{l: o.l, lvl: o.lvl, fields: o.fields.Merge(f)}
}

func (o *logger) Log(lvl Level, msg string, f Fields) {
	if lvl == NilLevel || o.lvl == NilLevel {
		return
	}
	entry := o.l.WithFields(logrus.Fields(o.fields.Merge(f)))
	entry.Log(toLogrusLevel(lvl), msg)
}

func (o *logger) Debug(msg string, f Fields) { o.Log(DebugLevel, msg, f) }
func (o *logger) Info(msg string, f Fields)  { o.Log(InfoLevel, msg, f) }
func (o *logger) Warn(msg string, f Fields)  { o.Log(WarnLevel, msg, f) }
func (o *logger) Error(msg string, f Fields) { o.Log(ErrorLevel, msg, f) }
