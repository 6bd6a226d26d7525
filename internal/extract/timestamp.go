package extract

import (
	"context"
	"math"
	"time"

	"github.com/tOgg1/threadcopy/internal/models"
	"github.com/tOgg1/threadcopy/internal/page"
)

// Largest instant a JavaScript Date can hold, in milliseconds.
const maxDateMillis = 8.64e15

// Timestamp returns the ISO-8601 send time of el, or nil.
//
// Sources, in order: the timestamp link, any element carrying data-ts, and
// the container's own message key. Values are epoch seconds.
func Timestamp(ctx context.Context, el page.Element) (*string, error) {
	for _, selector := range []string{SelTimestampLink, SelAnyTimestamp} {
		tsEl, err := el.QuerySelector(ctx, selector)
		if err != nil {
			return nil, err
		}
		if tsEl == nil {
			continue
		}
		raw, _, err := tsEl.Attribute(ctx, AttrTimestamp)
		if err != nil {
			return nil, err
		}
		if iso, ok := EpochSecondsToISO(raw); ok {
			return &iso, nil
		}
	}

	raw, ok, err := el.Attribute(ctx, AttrMessageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		if iso, ok := EpochSecondsToISO(raw); ok {
			return &iso, nil
		}
	}
	return nil, nil
}

// EpochSecondsToISO converts a fractional epoch-seconds string such as
// "1712345678.000200" to ISO-8601 with millisecond precision.
func EpochSecondsToISO(raw string) (string, bool) {
	seconds, ok := ParseFloat(raw)
	if !ok {
		return "", false
	}
	millis := math.Trunc(seconds * 1000)
	if math.Abs(millis) > maxDateMillis {
		return "", false
	}
	t := time.UnixMilli(int64(millis)).UTC()
	if t.Year() < 0 || t.Year() > 9999 {
		return "", false
	}
	return models.FormatTimestamp(t), true
}
