package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in       string
		expected Level
		wantErr  bool
	}{
		{in: "debug", expected: DebugLevel},
		{in: "INFO", expected: InfoLevel},
		{in: "", expected: InfoLevel},
		{in: "warning", expected: WarnLevel},
		{in: "error", expected: ErrorLevel},
		{in: "off", expected: OffLevel},
		{in: "verbose", expected: InfoLevel, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			lvl, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(WarnLevel)
	t.Cleanup(func() { SetLevel(InfoLevel) })

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "[WARN] shown 2")
}
