package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"ccm": CCM, "CCM": CCM, "Dcm": DCM} {
		got, err := ParseMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseMode("bcm")
	assert.True(t, errors.Is(err, ErrInvalidSpecification), "未知模式应返回 ErrInvalidSpecification")
}

func TestParseFamily(t *testing.T) {
	cases := []struct {
		name string
		want Family
	}{
		{"buck", Buck},
		{"BUCK", Buck},
		{"buckboost", BuckBoost},
		{"buck-boost", BuckBoost},
	}
	for _, c := range cases {
		got, err := ParseFamily(c.name)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
		assert.NotEqual(t, "Unknown", got.String())
	}
	_, err := ParseFamily("boost")
	assert.True(t, errors.Is(err, ErrInvalidSpecification))
}

func TestParseQuantity(t *testing.T) {
	for _, q := range Quantities {
		got, err := ParseQuantity(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, got)
		got, err = ParseQuantity(q.Symbol())
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
	got, err := ParseQuantity("MOSFET")
	require.NoError(t, err)
	assert.Equal(t, Switch, got)

	_, err = ParseQuantity("transformer")
	assert.True(t, errors.Is(err, ErrUnknownQuantity))
	_, err = ParseSignal("power")
	assert.True(t, errors.Is(err, ErrUnknownQuantity))
}

func TestModeJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Mode   Mode   `json:"mode"`
		Family Family `json:"family"`
	}{DCM, BuckBoost})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"DCM","family":"BUCKBOOST"}`, string(data))

	var back struct {
		Mode   Mode   `json:"mode"`
		Family Family `json:"family"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, DCM, back.Mode)
	assert.Equal(t, BuckBoost, back.Family)
}

func validSpec() Spec {
	return Spec{Vi: 50, Vo: 10, Po: 100, Freq: 50e3, DeltaIlFraction: 0.1, DeltaVoFraction: 0.1, Mode: CCM}
}

func TestSpecValidate(t *testing.T) {
	require.NoError(t, validSpec().Validate())

	cases := []struct {
		name   string
		mutate func(s *Spec)
	}{
		{"vi 为零", func(s *Spec) { s.Vi = 0 }},
		{"vo 为负", func(s *Spec) { s.Vo = -10 }},
		{"po 为 NaN", func(s *Spec) { s.Po = math.NaN() }},
		{"freq 为无穷", func(s *Spec) { s.Freq = math.Inf(1) }},
		{"deltaIl 为零", func(s *Spec) { s.DeltaIlFraction = 0 }},
		{"deltaVo 为负", func(s *Spec) { s.DeltaVoFraction = -0.1 }},
		{"未知模式", func(s *Spec) { s.Mode = Mode(7) }},
		{"占空比比例大于 1", func(s *Spec) { s.DutyFraction = 1.5 }},
		{"降额系数为负", func(s *Spec) { s.DCMDerating = -0.1 }},
	}
	for _, c := range cases {
		s := validSpec()
		c.mutate(&s)
		err := s.Validate()
		assert.True(t, errors.Is(err, ErrInvalidSpecification), "%s: %v", c.name, err)
	}
}

func TestSpecDefaults(t *testing.T) {
	s := validSpec()
	assert.Equal(t, DefaultDutyFraction, s.DutyFractionOrDefault())
	assert.Equal(t, DefaultDCMDerating, s.DCMDeratingOrDefault())
	s.DutyFraction, s.DCMDerating = 0.5, 0.7
	assert.Equal(t, 0.5, s.DutyFractionOrDefault())
	assert.Equal(t, 0.7, s.DCMDeratingOrDefault())
}

func TestFiniteAndPositive(t *testing.T) {
	assert.NoError(t, Finite("x", 1))
	assert.True(t, errors.Is(Finite("x", math.Inf(-1)), ErrArithmeticFault))
	assert.True(t, errors.Is(Positive("L", 0), ErrArithmeticFault))
	assert.True(t, errors.Is(Positive("L", math.NaN()), ErrArithmeticFault))
	assert.NoError(t, Positive("L", 1e-6))
}

func TestStateCheck(t *testing.T) {
	s := State{Period: 2e-5, OnTime: 4e-6, Io: 10, Ii: 2, Il: 10, Res: 1, DeltaIl: 1, DeltaVo: 1}
	assert.NoError(t, s.Check())

	s.Res = math.Inf(1)
	assert.True(t, errors.Is(s.Check(), ErrArithmeticFault), "res 溢出")
	s.Res = 1
	s.DeltaIl = 0
	assert.True(t, errors.Is(s.Check(), ErrArithmeticFault), "纹波下溢为零")
}

func TestWaveformAt(t *testing.T) {
	// 0..1 从 0 升到 2, 在 1 处跳变到 5, 1..2 保持 5
	w := Waveform{Points: []Point{{0, 0}, {1, 2}, {1, 5}, {2, 5}}}
	cases := []struct {
		t, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 1},
		{1, 5},
		{1.5, 5},
		{2, 5},
		{3, 5},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, w.At(c.t), 1e-12, "t=%v", c.t)
	}
	assert.Equal(t, 0.0, Waveform{}.At(1))
	assert.Equal(t, 0.0, w.Start())
	assert.Equal(t, 2.0, w.End())

	xs, ys := w.XY()
	assert.Equal(t, []float64{0, 1, 1, 2}, xs)
	assert.Equal(t, []float64{0, 2, 5, 5}, ys)
}

func TestWaveformLabels(t *testing.T) {
	w := Waveform{Quantity: Inductor, Signal: Current, Label: "BUCK CCM"}
	assert.Equal(t, "I_L [A]", w.YLabel())
	assert.Equal(t, "电感电流 - CCM", w.Title(CCM))
	w = Waveform{Quantity: Switch, Signal: Voltage}
	assert.Equal(t, "V_S [V]", w.YLabel())
}
