package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04", value)
	require.NoError(t, err)
	return &parsed
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		code    Code
		message string
	}{
		{"both missing", "", "", MissingBound, MsgBoundRequired},
		{"end before start", "2024-01-02T00:00", "2024-01-01T00:00", EndBeforeStart, MsgEndBeforeStart},
		{"only end", "", "2024-01-01T00:00", OK, ""},
		{"only start", "2024-01-01T00:00", "", OK, ""},
		{"ordered", "2024-01-01T00:00", "2024-01-02T00:00", OK, ""},
		{"instant", "2024-01-01T00:00", "2024-01-01T00:00", OK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var start, end *time.Time
			if tt.start != "" {
				start = ts(t, tt.start)
			}
			if tt.end != "" {
				end = ts(t, tt.end)
			}

			result := Check(start, end)

			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, tt.code == OK, result.Valid())
			assert.Equal(t, tt.message, result.Message())
			if tt.code == OK {
				assert.Empty(t, result.Field())
			} else {
				assert.Equal(t, "start_dttm", result.Field())
			}
		})
	}
}

func TestCheck_Messages(t *testing.T) {
	assert.Contains(t, Check(nil, nil).Message(), "start time or end time is required")
	assert.Contains(t,
		Check(ts(t, "2024-01-02T00:00"), ts(t, "2024-01-01T00:00")).Message(),
		"end time must be no earlier than start time")
}

func TestFill_OnlyEnd(t *testing.T) {
	end := ts(t, "2024-01-01T00:00")

	start, filledEnd := Fill(nil, end)

	require.NotNil(t, start)
	assert.True(t, start.Equal(*end))
	assert.Same(t, end, filledEnd)
}

func TestFill_OnlyStart(t *testing.T) {
	start := ts(t, "2024-03-05T10:30")

	filledStart, end := Fill(start, nil)

	require.NotNil(t, end)
	assert.True(t, end.Equal(*start))
	assert.Same(t, start, filledStart)
}

func TestFill_BothSetIsNoop(t *testing.T) {
	start := ts(t, "2024-01-01T00:00")
	end := ts(t, "2024-01-02T00:00")

	gotStart, gotEnd := Fill(start, end)

	assert.Same(t, start, gotStart)
	assert.Same(t, end, gotEnd)
	assert.True(t, Check(gotStart, gotEnd).Valid())
}

func TestFill_Idempotent(t *testing.T) {
	inputs := [][2]*time.Time{
		{nil, ts(t, "2024-01-01T00:00")},
		{ts(t, "2024-01-01T00:00"), nil},
		{ts(t, "2024-01-01T00:00"), ts(t, "2024-01-02T00:00")},
	}

	for _, in := range inputs {
		s1, e1 := Fill(in[0], in[1])
		s2, e2 := Fill(s1, e1)

		assert.Equal(t, s1, s2)
		assert.Equal(t, e1, e2)
		assert.False(t, e2.Before(*s2))
	}
}

func TestFill_BothMissing(t *testing.T) {
	start, end := Fill(nil, nil)

	assert.Nil(t, start)
	assert.Nil(t, end)
}
