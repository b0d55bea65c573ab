package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

const (
	levelLow  level = "low"
	levelHigh level = "high"
)

func newLevels() *Normalizer[level] {
	return NewNormalizer("level", map[string]level{
		"low":     levelLow,
		"high":    levelHigh,
		"HIGHEST": levelHigh,
	}, levelLow)
}

func TestNormalize(t *testing.T) {
	n := newLevels()
	tests := []struct {
		in   string
		want level
	}{
		{"low", levelLow},
		{"  HIGH ", levelHigh},
		{"highest", levelHigh},
		{"unknown", levelLow},
		{"", levelLow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	n := newLevels()

	v, err := n.Parse("High")
	require.NoError(t, err)
	assert.Equal(t, levelHigh, v)

	v, err = n.Parse("medium")
	require.Error(t, err)
	assert.Equal(t, levelLow, v)
	assert.Equal(t, `invalid level "medium", valid options: high, highest, low`, err.Error())
}

func TestKeysSorted(t *testing.T) {
	assert.Equal(t, []string{"high", "highest", "low"}, newLevels().Keys())
}
