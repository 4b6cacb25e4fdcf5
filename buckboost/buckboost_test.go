package buckboost

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dcdc/types"
	"dcdc/waveform"
)

func spec(mode types.Mode) types.Spec {
	return types.Spec{Vi: 25, Vo: 200, Po: 100, Freq: 10e3, DeltaIlFraction: 0.1, DeltaVoFraction: 0.1, Mode: mode}
}

func models(t *testing.T) []*Model {
	t.Helper()
	var ms []*Model
	for _, mode := range []types.Mode{types.CCM, types.DCM} {
		m, err := New(spec(mode))
		require.NoError(t, err)
		ms = append(ms, m)
	}
	return ms
}

func TestCCMExample(t *testing.T) {
	m, err := New(spec(types.CCM))
	require.NoError(t, err)
	st := m.State()
	assert.Equal(t, "BUCKBOOST CCM", m.Name())
	assert.InDelta(t, 200.0/225, st.Duty, 1e-12)
	assert.InDelta(t, 0.8889, st.Duty, 1e-4)
	assert.InDelta(t, 0.5, st.Io, 1e-12)
	assert.InDelta(t, 4.0, st.Ii, 1e-12)
	assert.InDelta(t, 4.5, st.Il, 1e-9)
	assert.InDelta(t, 0.45, st.DeltaIl, 1e-9)
	assert.InDelta(t, st.Il, (st.IlMax+st.IlMin)/2, 1e-12)
	assert.InDelta(t, 4.725, st.IlMax, 1e-9)
	assert.InDelta(t, 4.275, st.IlMin, 1e-9)
	// L = vi D T / deltaIl, C = io D T / deltaVo
	assert.InDelta(t, 25*st.Duty*1e-4/0.45, st.Inductance, 1e-12)
	assert.InDelta(t, 0.5*st.Duty*1e-4/20, st.Capacitance, 1e-15)
	assert.InDelta(t, 1.0, m.Efficiency(), 1e-12)
}

func TestDCMExample(t *testing.T) {
	m, err := New(spec(types.DCM))
	require.NoError(t, err)
	st := m.State()
	assert.InDelta(t, 0.85*200.0/225, st.Duty, 1e-12)
	assert.Equal(t, 0.0, st.IlMin)
	assert.InDelta(t, 25*st.Duty*st.Duty*1e-4/(2*4), st.Inductance, 1e-12)
	assert.InDelta(t, 25*st.OnTime/st.Inductance, st.IlMax, 1e-9)
	// 归零时刻 tx = DT + vi*DT/vo = 0.85 T
	assert.InDelta(t, 0.85*st.Period, st.Tx, 1e-15)
	assert.Less(t, st.Tx, st.Period)

	custom := spec(types.DCM)
	custom.DCMDerating = 0.5
	c, err := New(custom)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*200.0/225, c.State().Duty, 1e-12)
}

func TestSizingOrder(t *testing.T) {
	// 电容公式不依赖电感, 两种顺序结果一致
	for _, mode := range []types.Mode{types.CCM, types.DCM} {
		a, err := NewUnsized(spec(mode))
		require.NoError(t, err)
		require.NoError(t, a.SizeCapacitor())
		require.NoError(t, a.SizeInductor())

		b, err := New(spec(mode))
		require.NoError(t, err)
		assert.Equal(t, b.State(), a.State())
	}
}

func TestUnsized(t *testing.T) {
	m, err := NewUnsized(spec(types.DCM))
	require.NoError(t, err)
	_, err = m.Waveform(types.Diode, types.Voltage)
	assert.True(t, errors.Is(err, types.ErrUnsizedComponent))
	_, err = m.Stress()
	assert.True(t, errors.Is(err, types.ErrUnsizedComponent))
}

func TestInvalidSpec(t *testing.T) {
	sp := spec(types.CCM)
	sp.Po = 0
	_, err := New(sp)
	assert.True(t, errors.Is(err, types.ErrInvalidSpecification))

	sp = spec(types.CCM)
	sp.DeltaIlFraction = 3
	_, err = New(sp)
	assert.True(t, errors.Is(err, types.ErrArithmeticFault))

	sp = spec(types.DCM)
	sp.DCMDerating = 1.2
	_, err = New(sp)
	assert.True(t, errors.Is(err, types.ErrInvalidSpecification))

	// 负载电阻溢出为 +Inf
	for _, mode := range []types.Mode{types.CCM, types.DCM} {
		sp = spec(mode)
		sp.Po = 1e-300
		m, err := NewUnsized(sp)
		assert.True(t, errors.Is(err, types.ErrArithmeticFault), "%s: %v", mode, err)
		assert.Nil(t, m)
	}
}

func TestWaveformPeriodic(t *testing.T) {
	for _, m := range models(t) {
		period := m.State().Period
		for _, q := range types.Quantities {
			for _, s := range types.Signals {
				w, err := m.Waveform(q, s)
				require.NoError(t, err)
				require.NotZero(t, w.Len())
				assert.InDelta(t, w.At(0), w.At(period), 1e-9, "%s %s %s", m.Name(), q, s)
				assert.True(t, waveform.Periodic(w, period, 1e-9), "%s %s %s", m.Name(), q, s)
				for _, f := range []float64{0.05, 0.33, 0.8, 0.97} {
					assert.InDelta(t, w.At(f*period), w.At((f+1)*period), 1e-6, "%s %s %s t=%vT", m.Name(), q, s, f)
				}
			}
		}
	}
}

func TestCurrents(t *testing.T) {
	for _, m := range models(t) {
		st := m.State()
		assert.GreaterOrEqual(t, st.IlMax, st.IlMin)
		assert.GreaterOrEqual(t, st.IlMin, 0.0)

		il, err := m.Waveform(types.Inductor, types.Current)
		require.NoError(t, err)
		is, err := m.Waveform(types.Switch, types.Current)
		require.NoError(t, err)
		id, err := m.Waveform(types.Diode, types.Current)
		require.NoError(t, err)
		ic, err := m.Waveform(types.Capacitor, types.Current)
		require.NoError(t, err)

		for _, f := range []float64{0.1, 0.5, 0.83, 0.9} {
			tt := f * st.Period
			assert.InDelta(t, il.At(tt), is.At(tt)+id.At(tt), 1e-9, "%s t=%vT", m.Name(), f)
		}
		require.Equal(t, id.Len(), ic.Len())
		for i := range id.Points {
			assert.InDelta(t, id.Points[i].V-st.Io, ic.Points[i].V, 1e-12)
		}
		// 二极管平均电流等于输出电流, 电容平均电流为零
		assert.InDelta(t, st.Io, waveform.Average(id), 1e-9, m.Name())
		assert.InDelta(t, 0, waveform.Average(ic), 1e-9, m.Name())
	}
}

func TestVoltages(t *testing.T) {
	for _, m := range models(t) {
		sp, st := m.Spec(), m.State()
		vd, err := m.Waveform(types.Diode, types.Voltage)
		require.NoError(t, err)
		assert.InDelta(t, -(sp.Vi + sp.Vo), waveform.Valley(vd), 1e-12, "二极管反向电压取负值")
		vs, err := m.Waveform(types.Switch, types.Voltage)
		require.NoError(t, err)
		assert.InDelta(t, sp.Vi+sp.Vo, waveform.Peak(vs), 1e-12)

		for _, q := range []types.Quantity{types.Capacitor, types.Resistor} {
			v, err := m.Waveform(q, types.Voltage)
			require.NoError(t, err)
			assert.InDelta(t, sp.Vo+st.DeltaVo/2, waveform.Peak(v), 1e-9)
			assert.InDelta(t, sp.Vo-st.DeltaVo/2, waveform.Valley(v), 1e-9)
			assert.InDelta(t, sp.Vo, waveform.Average(v), 1e-9)
		}
		vl, err := m.Waveform(types.Inductor, types.Voltage)
		require.NoError(t, err)
		assert.InDelta(t, 0, waveform.Average(vl), 1e-6, "电感伏秒平衡")
	}
}

func TestStress(t *testing.T) {
	for _, m := range models(t) {
		sp, st := m.Spec(), m.State()
		stress, err := m.Stress()
		require.NoError(t, err)
		assert.Equal(t, sp.Vi+sp.Vo, stress.DiodeVoltageMax)
		assert.Equal(t, sp.Vi+sp.Vo, stress.SwitchVoltageMax)
		assert.Equal(t, stress.DiodeCurrentMax, stress.SwitchCurrentMax)
		assert.InDelta(t, st.Io, stress.DiodeCurrentAvg, 1e-9)

		is, err := m.Waveform(types.Switch, types.Current)
		require.NoError(t, err)
		assert.InDelta(t, waveform.RMS(is), stress.SwitchCurrentRms, 1e-9, m.Name())
		assert.InDelta(t, waveform.Peak(is), stress.SwitchCurrentMax, 1e-9, m.Name())
	}
}

func TestSwitchRmsRipple(t *testing.T) {
	m, err := New(spec(types.CCM))
	require.NoError(t, err)
	st := m.State()
	stress, err := m.Stress()
	require.NoError(t, err)

	// 斜坡电流 il±d 的有效值为 il*sqrt(D)*sqrt(1+d^2/(3*il^2))
	flat := st.Il * math.Sqrt(st.Duty)
	d := st.DeltaIl / 2
	assert.Greater(t, stress.SwitchCurrentRms, flat)
	assert.InDelta(t, flat*math.Sqrt(1+d*d/(3*st.Il*st.Il)), stress.SwitchCurrentRms, 1e-9)
	assert.InDelta(t, 1.0004, stress.SwitchCurrentRms/flat, 1e-4, "10% 纹波下约大 0.04%")
}

func TestReport(t *testing.T) {
	for _, m := range models(t) {
		var buf bytes.Buffer
		require.NoError(t, m.Report(&buf))
		out := buf.String()
		assert.Contains(t, out, m.Name())
		assert.Contains(t, out, "eta")
		assert.Contains(t, out, "ISrms")
	}
}
