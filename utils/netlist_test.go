package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparationPrick(t *testing.T) {
	cases := []struct {
		in   string
		name string
		id   int
	}{
		{"buck2", "BUCK", 2},
		{"BuckBoost12", "BUCKBOOST", 12},
		{"buck", "BUCK", 0},
	}
	for _, c := range cases {
		name, id := NetList{c.in}.SeparationPrick(0)
		assert.Equal(t, c.name, name, c.in)
		assert.Equal(t, c.id, id, c.in)
	}
}

func TestParseEng(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"50e3", 50e3},
		{"50k", 50e3},
		{"1meg", 1e6},
		{"1MEG", 1e6},
		{"100u", 100e-6},
		{"2.2n", 2.2e-9},
		{"3m", 3e-3},
		{"-4", -4},
	}
	for _, c := range cases {
		got, err := ParseEng(c.in)
		require.NoError(t, err, c.in)
		assert.InDelta(t, c.want, got, 1e-12*abs(c.want)+1e-24, c.in)
	}
	for _, in := range []string{"", "k", "1x", "ten"} {
		_, err := ParseEng(in)
		assert.Error(t, err, in)
	}
}

func TestFromFloats(t *testing.T) {
	assert.Equal(t, NetList{"50000", "0.1", "1e-06"}, FromFloats(50e3, 0.1, 1e-6))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
