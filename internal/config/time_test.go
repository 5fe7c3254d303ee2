package config

import (
	"testing"
	"time"
)

func TestCalculateMilliseconds(t *testing.T) {
	timer := Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}
	want := uint64((24*60*60 + 2*60*60 + 3*60 + 4) * 1000)

	if got := CalculateMilliseconds(timer); got != want {
		t.Fatalf("CalculateMilliseconds returned %d, want %d", got, want)
	}
}

func TestCalculateBetweenTime(t *testing.T) {
	t.Run("enforces minimum interval", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{}); got != time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1s", got)
		}
	})

	t.Run("returns configured duration", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{Minutes: 1, Seconds: 30}); got != 90*time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1m30s", got)
		}
	})
}

func TestSetBetweenTime(t *testing.T) {
	t.Cleanup(resetConfig(t))

	testCfg := Config{}
	testCfg.Extractor.ExtractTimer = Timer{Seconds: 25}
	configValue.Store(testCfg)

	SetBetweenTime()

	if got := GetExtractInterval(); got != 25*time.Second {
		t.Fatalf("GetExtractInterval returned %s, want 25s", got)
	}
}
