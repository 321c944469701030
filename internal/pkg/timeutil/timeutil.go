package timeutil

import "time"

// All persisted timestamps in this service are unix milliseconds.

func NowMilli() int64 {
	return time.Now().UnixMilli()
}

func FromMilli(ms int64) time.Time {
	return time.UnixMilli(ms)
}
