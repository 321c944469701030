package service

// Link and share expiry is chosen from a closed preset table rather than a
// free-form date. A preset of 0 hours means "never": the stored expiry is
// absent (0).

type ExpiryPreset struct {
	Label string `json:"label"`
	Hours int    `json:"hours"`
}

var expiryPresets = []ExpiryPreset{
	{Label: "1 hour", Hours: 1},
	{Label: "24 hours", Hours: 24},
	{Label: "7 days", Hours: 24 * 7},
	{Label: "30 days", Hours: 24 * 30},
	{Label: "Never", Hours: 0},
}

const millisPerHour = int64(3600 * 1000)

func ExpiryPresets() []ExpiryPreset {
	presets := make([]ExpiryPreset, len(expiryPresets))
	copy(presets, expiryPresets)
	return presets
}

func ValidExpiryHours(hours int) bool {
	for _, preset := range expiryPresets {
		if preset.Hours == hours {
			return true
		}
	}
	return false
}

// ExpiryFromPreset computes the absolute expiry (unix ms) for a preset
// selected at instant now. Zero hours yields no expiry.
func ExpiryFromPreset(hours int, now int64) int64 {
	if hours <= 0 {
		return 0
	}
	return now + int64(hours)*millisPerHour
}

// PresetFromExpiry reconstructs the selected preset from a stored expiry by
// rounding the remaining time to the nearest whole hour and matching it
// against the table exactly. A stored expiry that does not land on a preset
// resolves to none. The rounding rule is deliberate: changing it would
// silently change which stored expiries re-select an option.
func PresetFromExpiry(expireAt, now int64) (ExpiryPreset, bool) {
	if expireAt <= 0 {
		return ExpiryPreset{}, false
	}
	remaining := expireAt - now
	hours := int((remaining + millisPerHour/2) / millisPerHour)
	for _, preset := range expiryPresets {
		if preset.Hours != 0 && preset.Hours == hours {
			return preset, true
		}
	}
	return ExpiryPreset{}, false
}
