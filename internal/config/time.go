package config

import (
	"sync/atomic"
	"time"
)

// Timer expresses an interval in the settings file without forcing users to
// write Go duration strings.
type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

var extractInterval atomic.Value

func init() {
	extractInterval.Store(10 * time.Second)
}

// SetBetweenTime recomputes the extraction interval from the current config.
func SetBetweenTime() {
	cfg := GetConfig()
	extractInterval.Store(CalculateBetweenTime(cfg.Extractor.ExtractTimer))
}

// CalculateBetweenTime converts a Timer to a duration, enforcing a one
// second floor so a zeroed timer cannot spin the run loop.
func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := CalculateMilliseconds(timer)

	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func CalculateMilliseconds(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

func GetExtractInterval() time.Duration {
	return extractInterval.Load().(time.Duration)
}
