// Package dcdc 降压与升降压直流变换器的稳态参数计算与波形生成.
package dcdc

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dcdc/buck"
	"dcdc/buckboost"
	"dcdc/load"
	"dcdc/report"
	"dcdc/types"
)

// New 按拓扑构造并计算电感电容
func New(family types.Family, spec types.Spec) (types.Converter, error) {
	switch family {
	case types.Buck:
		return buck.New(spec)
	case types.BuckBoost:
		return buckboost.New(spec)
	}
	return nil, errors.Wrapf(types.ErrInvalidSpecification, "未知变换器类型: %d", family)
}

// Named 带名称的变换器
type Named struct {
	types.Converter
	Label string // 描述文件中的名称
	ID    int    // 名称中的编号, 同一拓扑内按编号配对
}

// Build 构造描述文件中的全部变换器
func Build(deck *load.Deck) ([]Named, error) {
	convs := make([]Named, 0, len(deck.Entries))
	for _, e := range deck.Entries {
		c, err := New(e.Family, e.Spec)
		if err != nil {
			return nil, errors.WithMessagef(err, "第 %d 行 %s", e.Line, e.Name)
		}
		logrus.WithFields(logrus.Fields{"name": e.Name, "converter": c.Name()}).Debug("变换器构造完成")
		convs = append(convs, Named{Converter: c, Label: e.Name, ID: e.ID})
	}
	return convs, nil
}

// LoadFile 加载描述文件并构造变换器
func LoadFile(filename string) ([]Named, error) {
	deck, err := load.LoadFile(filename)
	if err != nil {
		return nil, err
	}
	return Build(deck)
}

// Report 一个 CCM 与一个 DCM 变换器的对比
type Report struct {
	CCM types.Converter
	DCM types.Converter
}

// NewReport 检查两个变换器属于同一拓扑且模式分别为 CCM 与 DCM
func NewReport(ccm, dcm types.Converter) (*Report, error) {
	if ccm == nil || dcm == nil {
		return nil, errors.Wrap(types.ErrModeMismatch, "变换器不能为空")
	}
	if ccm.Mode() != types.CCM || dcm.Mode() != types.DCM {
		return nil, errors.Wrapf(types.ErrModeMismatch, "需要 CCM 与 DCM, 得到 %s 与 %s", ccm.Mode(), dcm.Mode())
	}
	if ccm.Family() != dcm.Family() {
		return nil, errors.Wrapf(types.ErrModeMismatch, "拓扑不同: %s 与 %s", ccm.Family(), dcm.Family())
	}
	return &Report{CCM: ccm, DCM: dcm}, nil
}

// Family 拓扑
func (r *Report) Family() types.Family { return r.CCM.Family() }

// Tabulate 并列输出两个变换器的参数
func (r *Report) Tabulate(w io.Writer) error {
	return report.Tabulate(w, r.CCM, r.DCM)
}

// Panels 四个子图: CCM 电流, CCM 电压, DCM 电流, DCM 电压
type Panels struct {
	Quantity types.Quantity
	Grid     [2][2]types.Waveform // [模式][信号]
	Modes    [2]types.Mode
}

// Plot 生成指定元件的四个子图数据
func (r *Report) Plot(q types.Quantity) (*Panels, error) {
	p := &Panels{Quantity: q, Modes: [2]types.Mode{types.CCM, types.DCM}}
	for i, c := range []types.Converter{r.CCM, r.DCM} {
		for j, s := range types.Signals {
			w, err := c.Waveform(q, s)
			if err != nil {
				return nil, err
			}
			p.Grid[i][j] = w
		}
	}
	return p, nil
}

// Pair 将变换器按拓扑分组, 组内按编号排序后第 i 个 CCM 与第 i 个 DCM 组成一组
func Pair(convs []Named) ([]*Report, error) {
	type queue struct{ ccm, dcm []Named }
	groups := map[types.Family]*queue{}
	var order []types.Family
	for _, c := range convs {
		g, ok := groups[c.Family()]
		if !ok {
			g = &queue{}
			groups[c.Family()] = g
			order = append(order, c.Family())
		}
		if c.Mode() == types.CCM {
			g.ccm = append(g.ccm, c)
		} else {
			g.dcm = append(g.dcm, c)
		}
	}
	var reports []*Report
	for _, f := range order {
		g := groups[f]
		byID(g.ccm)
		byID(g.dcm)
		n := min(len(g.ccm), len(g.dcm))
		if len(g.ccm) != len(g.dcm) {
			logrus.WithFields(logrus.Fields{"family": f, "ccm": len(g.ccm), "dcm": len(g.dcm)}).Warn("CCM 与 DCM 数量不一致, 多余的变换器不参与对比")
		}
		for i := 0; i < n; i++ {
			r, err := NewReport(g.ccm[i].Converter, g.dcm[i].Converter)
			if err != nil {
				return nil, err
			}
			reports = append(reports, r)
		}
	}
	return reports, nil
}

// byID 按编号排序, 编号相同时保持描述文件中的顺序
func byID(convs []Named) {
	sort.SliceStable(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
}
