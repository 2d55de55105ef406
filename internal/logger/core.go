package logger

import (
	"go.uber.org/zap/zapcore"
)

// RecentCore is a zap Core that copies entries at or above minLevel into
// a RecentLog before handing them to the wrapped core.
type RecentCore struct {
	zapcore.Core
	recent   *RecentLog
	minLevel zapcore.Level
	context  []zapcore.Field
}

func NewRecentCore(baseCore zapcore.Core, recent *RecentLog, minLevel zapcore.Level) zapcore.Core {
	return &RecentCore{
		Core:     baseCore,
		recent:   recent,
		minLevel: minLevel,
	}
}

// With keeps the tee when fields are attached to a child logger.
func (c *RecentCore) With(fields []zapcore.Field) zapcore.Core {
	return &RecentCore{
		Core:     c.Core.With(fields),
		recent:   c.recent,
		minLevel: c.minLevel,
		context:  append(append([]zapcore.Field(nil), c.context...), fields...),
	}
}

func (c *RecentCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= c.minLevel {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range c.context {
			f.AddTo(enc)
		}
		for _, f := range fields {
			f.AddTo(enc)
		}

		c.recent.Add(Entry{
			Time:    entry.Time,
			Level:   entry.Level.String(),
			Message: entry.Message,
			Caller:  entry.Caller.Function,
			Fields:  enc.Fields,
		})
	}

	return c.Core.Write(entry, fields)
}

func (c *RecentCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
