package service

import (
	"testing"
)

func TestExpiryFromPreset(t *testing.T) {
	now := int64(1_700_000_000_000)
	tests := []struct {
		name  string
		hours int
		want  int64
	}{
		{name: "1 hour", hours: 1, want: now + 3_600_000},
		{name: "24 hours", hours: 24, want: now + 86_400_000},
		{name: "7 days", hours: 168, want: now + 7*86_400_000},
		{name: "30 days", hours: 720, want: now + 30*86_400_000},
		{name: "never", hours: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpiryFromPreset(tt.hours, now); got != tt.want {
				t.Errorf("ExpiryFromPreset(%d) = %d, want %d", tt.hours, got, tt.want)
			}
		})
	}
}

func TestValidExpiryHours(t *testing.T) {
	for _, hours := range []int{0, 1, 24, 168, 720} {
		if !ValidExpiryHours(hours) {
			t.Errorf("ValidExpiryHours(%d) = false, want true", hours)
		}
	}
	for _, hours := range []int{-1, 2, 12, 48, 100} {
		if ValidExpiryHours(hours) {
			t.Errorf("ValidExpiryHours(%d) = true, want false", hours)
		}
	}
}

func TestPresetFromExpiry(t *testing.T) {
	now := int64(1_700_000_000_000)
	tests := []struct {
		name     string
		expireAt int64
		want     int
		ok       bool
	}{
		{name: "exactly 24h", expireAt: now + 24*millisPerHour, want: 24, ok: true},
		{name: "slightly under rounds up", expireAt: now + 24*millisPerHour - 20*60*1000, want: 24, ok: true},
		{name: "slightly over rounds down", expireAt: now + 24*millisPerHour + 20*60*1000, want: 24, ok: true},
		{name: "off the table", expireAt: now + 12*millisPerHour, ok: false},
		{name: "no expiry", expireAt: 0, ok: false},
		{name: "exactly 7 days", expireAt: now + 168*millisPerHour, want: 168, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, ok := PresetFromExpiry(tt.expireAt, now)
			if ok != tt.ok {
				t.Fatalf("PresetFromExpiry() ok = %v, want %v", ok, tt.ok)
			}
			if ok && preset.Hours != tt.want {
				t.Errorf("PresetFromExpiry() hours = %d, want %d", preset.Hours, tt.want)
			}
		})
	}
}

func TestPresetFromExpiryNeverMatchesZeroPreset(t *testing.T) {
	now := int64(1_700_000_000_000)
	// Remaining time under half an hour rounds to 0 hours; that must not
	// re-select the "Never" preset.
	if _, ok := PresetFromExpiry(now+10*60*1000, now); ok {
		t.Error("near-expired link must not resolve to the never preset")
	}
}
