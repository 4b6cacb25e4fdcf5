package load

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dcdc/types"
)

const deckText = `# 降压与升降压对比
.value f 50e3
.value vin 500

buck1 ccm 50 10 100 %f 0.1 0.1
buck2 DCM %vin 10 100 50k 0.1 1 0.5   // 占空比取一半
buckboost1 ccm 25 200 100 10k 0.1 0.1
BuckBoost2 dcm 25 200 100 10k 0.1 0.1 0.8
.end
`

func TestLoadString(t *testing.T) {
	deck, err := LoadString(deckText)
	require.NoError(t, err)
	require.Len(t, deck.Entries, 4)
	assert.Equal(t, map[string]string{"f": "50e3", "vin": "500"}, deck.Values)

	b1 := deck.Entries[0]
	assert.Equal(t, "buck1", b1.Name)
	assert.Equal(t, types.Buck, b1.Family)
	assert.Equal(t, 1, b1.ID)
	assert.Equal(t, 5, b1.Line)
	assert.Equal(t, types.Spec{Vi: 50, Vo: 10, Po: 100, Freq: 50e3, DeltaIlFraction: 0.1, DeltaVoFraction: 0.1, Mode: types.CCM}, b1.Spec)

	b2 := deck.Entries[1]
	assert.Equal(t, types.DCM, b2.Spec.Mode)
	assert.Equal(t, 500.0, b2.Spec.Vi)
	assert.Equal(t, 50e3, b2.Spec.Freq)
	assert.Equal(t, 0.5, b2.Spec.DutyFraction)
	assert.Zero(t, b2.Spec.DCMDerating)

	bb2 := deck.Entries[3]
	assert.Equal(t, "buckboost2", bb2.Name)
	assert.Equal(t, types.BuckBoost, bb2.Family)
	assert.Equal(t, 2, bb2.ID)
	assert.Equal(t, 10e3, bb2.Spec.Freq)
	assert.Equal(t, 0.8, bb2.Spec.DCMDerating)
	assert.Zero(t, bb2.Spec.DutyFraction)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"字段不足", "buck1 ccm 50 10 100", types.ErrInvalidSpecification},
		{"未知拓扑", "boost1 ccm 50 10 100 50k 0.1 0.1", types.ErrInvalidSpecification},
		{"未知模式", "buck1 bcm 50 10 100 50k 0.1 0.1", types.ErrInvalidSpecification},
		{"数值错误", "buck1 ccm 50 ten 100 50k 0.1 0.1", types.ErrInvalidSpecification},
		{"未定义变量", "buck1 ccm 50 10 100 %f 0.1 0.1", types.ErrInvalidSpecification},
		{"变量缺少值", ".value f", types.ErrInvalidSpecification},
		{"名称重复", "buck1 ccm 50 10 100 50k 0.1 0.1\nbuck1 dcm 50 10 100 50k 0.1 0.1", types.ErrInvalidSpecification},
	}
	for _, c := range cases {
		_, err := LoadString(c.text)
		assert.True(t, errors.Is(err, c.want), "%s: %v", c.name, err)
	}

	_, err := LoadString("buck1 ccm 50 10 100 50k 0.1 0.1\n\nbuck1 dcm 50 10 100 50k 0.1 0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "第 3 行")
}

func TestLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "converters.net")
	require.NoError(t, os.WriteFile(name, []byte(deckText), 0o644))
	deck, err := LoadFile(name)
	require.NoError(t, err)
	assert.Len(t, deck.Entries, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.net"))
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	deck, err := LoadString(deckText)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, deck.Export(&buf))
	out := buf.String()
	assert.Contains(t, out, ".value f 50e3\n")
	assert.Contains(t, out, "buck2 dcm 500 10 100 50000 0.1 1 0.5\n")
	assert.Contains(t, out, "buckboost2 dcm 25 200 100 10000 0.1 0.1 0.8\n")

	again, err := LoadString(out)
	require.NoError(t, err)
	require.Len(t, again.Entries, len(deck.Entries))
	for i := range deck.Entries {
		assert.Equal(t, deck.Entries[i].Name, again.Entries[i].Name)
		assert.Equal(t, deck.Entries[i].Spec, again.Entries[i].Spec)
	}
}
