package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		options     Options
		expectDebug bool
	}{
		{description: "console", options: Options{}},
		{description: "console verbose", options: Options{Verbose: true}, expectDebug: true},
		{description: "json", options: Options{JSON: true}},
		{description: "json verbose", options: Options{JSON: true, Verbose: true}, expectDebug: true},
	}

	for _, testCase := range testCases {
		logger, err := New(testCase.options)
		require.NoError(t, err, testCase.description)
		require.NotNil(t, logger, testCase.description)
		assert.Equal(t, testCase.expectDebug, logger.Desugar().Core().Enabled(zap.DebugLevel), testCase.description)
		assert.True(t, logger.Desugar().Core().Enabled(zap.InfoLevel), testCase.description)
	}
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Desugar().Core().Enabled(zap.ErrorLevel))
}
