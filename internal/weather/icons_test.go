package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIconKnownCodes(t *testing.T) {
	testCases := []struct {
		code     IconCode
		expected Icon
	}{
		{"01d", IconClear},
		{"01n", IconClear},
		{"02d", IconCloud},
		{"02n", IconCloud},
		{"03d", IconCloud},
		{"03n", IconCloud},
		{"04d", IconDrizzle},
		{"04n", IconDrizzle},
		{"09d", IconRain},
		{"09n", IconRain},
		{"10d", IconRain},
		{"10n", IconRain},
		{"13d", IconSnow},
		{"13n", IconSnow},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ResolveIcon(tc.code), "code %s", tc.code)
	}
}

// Thunderstorm and mist have no artwork and degrade to clear.
func TestResolveIconFallsBackToClear(t *testing.T) {
	for _, code := range []IconCode{"11d", "11n", "50d", "50n", "", "01", "xyz"} {
		assert.Equal(t, IconClear, ResolveIcon(code), "code %q", code)
	}
}

func TestIconsCoverTable(t *testing.T) {
	known := make(map[Icon]bool)
	for _, icon := range Icons() {
		known[icon] = true
	}
	for code, icon := range iconTable {
		assert.True(t, known[icon], "icon for %s missing from Icons()", code)
	}
	assert.Equal(t, "/assets/drizzle.svg", IconDrizzle.Asset)
}
