package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadStr(t *testing.T) {
	p := Payload{
		"empty":   "   ",
		"second":  "value",
		"numeric": 42,
	}

	assert.Equal(t, "value", p.str("missing", "empty", "second"))
	assert.Equal(t, "", p.str("missing", "numeric"), "non-string values are skipped")
	assert.Equal(t, "", p.str())
}

func TestPayloadNestedStr(t *testing.T) {
	p := Payload{
		"company": map[string]any{
			"name": "  Acme  ",
			"address": map[string]any{
				"city": "Jakarta",
			},
		},
		"flat": "top",
	}

	assert.Equal(t, "Acme", p.nestedStr("company.name"))
	assert.Equal(t, "Jakarta", p.nestedStr("company.address.city"))
	assert.Equal(t, "top", p.nestedStr("flat"))
	assert.Equal(t, "", p.nestedStr("company.missing"))
	assert.Equal(t, "", p.nestedStr("flat.deeper"), "cannot descend into a string")
}

func TestPayloadDate(t *testing.T) {
	p := Payload{
		"rfc":     "2026-03-01T10:30:00Z",
		"plain":   "2026-03-01",
		"garbage": "next tuesday",
	}

	got := p.date("rfc")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), *got)

	got = p.date("plain")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, p.date("garbage"))
	assert.Nil(t, p.date("missing"))

	// First parseable key wins even when an earlier key holds garbage.
	got = p.date("garbage", "plain")
	require.NotNil(t, got)
}

func TestPayloadYearMonth(t *testing.T) {
	p := Payload{
		"start":     map[string]any{"year": float64(2025), "month": float64(7)},
		"yearOnly":  map[string]any{"year": float64(2025)},
		"badMonth":  map[string]any{"year": float64(2025), "month": float64(13)},
		"noYear":    map[string]any{"month": float64(7)},
		"notObject": "2025-07",
	}

	got := p.yearMonth("start")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), *got)

	// Missing or out-of-range month falls back to January.
	for _, key := range []string{"yearOnly", "badMonth"} {
		got = p.yearMonth(key)
		require.NotNil(t, got, key)
		assert.Equal(t, time.January, got.Month(), key)
	}

	assert.Nil(t, p.yearMonth("noYear"))
	assert.Nil(t, p.yearMonth("notObject"))
	assert.Nil(t, p.yearMonth("missing"))
}
