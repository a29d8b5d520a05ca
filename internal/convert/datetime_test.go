package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestampKnownLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-09-04 12:30:45.123456", time.Date(2021, 9, 4, 12, 30, 45, 123456000, time.UTC)},
		{"2021-09-04 12:30:45", time.Date(2021, 9, 4, 12, 30, 45, 0, time.UTC)},
		{"2021-09-04 12:30", time.Date(2021, 9, 4, 12, 30, 0, 0, time.UTC)},
		{"2021-09-04", time.Date(2021, 9, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.True(t, tt.want.Equal(got), "input %q: got %v", tt.input, got)
	}
}

func TestParseTimestampRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := ParseTimestamp("04/09/2021 12:30")
	require.Error(t, err)
	require.Contains(t, err.Error(), "04/09/2021 12:30")
}
