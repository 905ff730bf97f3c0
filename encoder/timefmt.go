package encoder

import (
	"time"

	"cloud.google.com/go/civil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	isoDateTime       = "2006-01-02T15:04:05-07:00"
	isoDateTimeMicros = "2006-01-02T15:04:05.000000-07:00"
	isoNaive          = "2006-01-02T15:04:05"
	isoNaiveMicros    = "2006-01-02T15:04:05.000000"
	isoDate           = "2006-01-02"
	isoTime           = "15:04:05"
	isoTimeMicros     = "15:04:05.000000"
)

// formatTime renders date and time values and non-nil pointers to them. The
// boolean is false for any other type.
func (e *Encoder) formatTime(v any) (string, bool) {
	switch t := v.(type) {
	case *time.Time:
		return e.formatTime(*t)
	case *primitive.DateTime:
		return e.formatTime(*t)
	case *primitive.Timestamp:
		return e.formatTime(*t)
	case *civil.DateTime:
		return e.formatTime(*t)
	case *civil.Date:
		return e.formatTime(*t)
	case *civil.Time:
		return e.formatTime(*t)
	case time.Time:
		return formatDateTime(t, e.opts.DateTimeFormat), true
	case primitive.DateTime:
		return formatDateTime(t.Time().UTC(), e.opts.DateTimeFormat), true
	case primitive.Timestamp:
		return formatDateTime(time.Unix(int64(t.T), 0).UTC(), e.opts.DateTimeFormat), true
	case civil.DateTime:
		if e.opts.DateTimeFormat != "" {
			return t.In(time.UTC).Format(e.opts.DateTimeFormat), true
		}
		return t.In(time.UTC).Format(pickLayout(t.Time.Nanosecond, isoNaive, isoNaiveMicros)), true
	case civil.Date:
		layout := e.opts.DateFormat
		if layout == "" {
			layout = isoDate
		}
		return t.In(time.UTC).Format(layout), true
	case civil.Time:
		layout := e.opts.TimeFormat
		if layout == "" {
			layout = pickLayout(t.Nanosecond, isoTime, isoTimeMicros)
		}
		return clockTime(t).Format(layout), true
	}
	return "", false
}

func formatDateTime(t time.Time, layout string) string {
	if layout == "" {
		layout = pickLayout(t.Nanosecond(), isoDateTime, isoDateTimeMicros)
	}
	return t.Format(layout)
}

// pickLayout adds microseconds only when they are non-zero; sub-microsecond
// precision is dropped.
func pickLayout(nanos int, plain, micros string) string {
	if nanos/int(time.Microsecond) == 0 {
		return plain
	}
	return micros
}

func clockTime(t civil.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC)
}
