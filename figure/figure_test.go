package figure

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"dcdc"
	"dcdc/buck"
	"dcdc/types"
)

func panels(t *testing.T, q types.Quantity) *dcdc.Panels {
	t.Helper()
	ccm, err := buck.New(types.Spec{Vi: 50, Vo: 10, Po: 100, Freq: 50e3, DeltaIlFraction: 0.1, DeltaVoFraction: 0.1, Mode: types.CCM})
	require.NoError(t, err)
	dcm, err := buck.New(types.Spec{Vi: 500, Vo: 10, Po: 100, Freq: 50e3, DeltaIlFraction: 0.1, DeltaVoFraction: 1, Mode: types.DCM})
	require.NoError(t, err)
	r, err := dcdc.NewReport(ccm, dcm)
	require.NoError(t, err)
	p, err := r.Plot(q)
	require.NoError(t, err)
	return p
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestRenderPNG(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 6*vg.Inch, 4*vg.Inch
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, panels(t, types.Inductor), cfg))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Greater(t, img.Bounds().Dy(), 0)
}

func TestRenderSVG(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = SVG
	var buf bytes.Buffer
	// 电阻电流为水平线, 纵轴范围需要留出余量
	require.NoError(t, Render(&buf, panels(t, types.Resistor), cfg))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	assert.Error(t, Render(&bytes.Buffer{}, panels(t, types.Switch), cfg))

	cfg = DefaultConfig()
	cfg.Format = "gif"
	assert.Error(t, Render(&bytes.Buffer{}, panels(t, types.Switch), cfg))

	p := panels(t, types.Switch)
	p.Grid[0][0].Points = nil
	assert.Error(t, Render(&bytes.Buffer{}, p, DefaultConfig()))
}
