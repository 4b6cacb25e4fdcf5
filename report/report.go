// Package report 变换器参数的文本报告与并列表格.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"dcdc/types"
)

// Format 按字段格式输出数值: 线性量三位小数, R/L/C/频率用两位有效数字的科学计数法
func Format(f types.Field) string {
	switch f.Format {
	case types.Scientific:
		return fmt.Sprintf("%.1e", f.Value)
	case types.Percent:
		return fmt.Sprintf("%.3f", f.Value*100)
	}
	return fmt.Sprintf("%.3f", f.Value)
}

// StressFields 器件应力报告字段
func StressFields(s types.Stress) []types.Field {
	return []types.Field{
		{Key: "VDmax", Value: s.DiodeVoltageMax, Unit: "V"},
		{Key: "IDavg", Value: s.DiodeCurrentAvg, Unit: "A"},
		{Key: "IDmax", Value: s.DiodeCurrentMax, Unit: "A"},
		{Key: "VSmax", Value: s.SwitchVoltageMax, Unit: "V"},
		{Key: "ISrms", Value: s.SwitchCurrentRms, Unit: "A"},
		{Key: "ISmax", Value: s.SwitchCurrentMax, Unit: "A"},
	}
}

// Write 输出变换器的全部参数与器件应力, 电感电容未计算时返回错误
func Write(w io.Writer, c types.Converter) error {
	if !c.State().Sized() {
		return errors.Wrapf(types.ErrUnsizedComponent, "%s 报告需要先计算电感与电容", c.Name())
	}
	stress, err := c.Stress()
	if err != nil {
		return err
	}
	header := color.New(color.Bold).Sprintf("===============\t\t%s\t===============", c.Name())
	if _, err := fmt.Fprintf(w, "\n%s\n", header); err != nil {
		return err
	}
	if err := writeFields(w, c.Info()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, color.New(color.Faint).Sprint("\t--- 器件应力 ---")); err != nil {
		return err
	}
	return writeFields(w, StressFields(stress))
}

func writeFields(w io.Writer, fields []types.Field) error {
	for _, f := range fields {
		value := Format(f)
		pad := "\t\t"
		if len(value) >= 8 {
			pad = "\t"
		}
		if _, err := fmt.Fprintf(w, "\t%s\t\t=\t%s%s[%s]\n", f.Key, value, pad, f.Unit); err != nil {
			return err
		}
	}
	return nil
}

// Tabulate 以表格并列输出多个变换器的参数, 缺失字段显示为 "-"
func Tabulate(w io.Writer, convs ...types.Converter) error {
	if len(convs) == 0 {
		return nil
	}
	headers := []string{"参数", "单位"}
	var keys []string
	units := map[string]string{}
	values := make([]map[string]string, len(convs))
	for i, c := range convs {
		headers = append(headers, c.Name())
		values[i] = map[string]string{}
		fields := c.Info()
		if stress, err := c.Stress(); err == nil {
			fields = append(fields, StressFields(stress)...)
		}
		for _, f := range fields {
			if _, ok := units[f.Key]; !ok {
				keys = append(keys, f.Key)
				units[f.Key] = f.Unit
			}
			values[i][f.Key] = Format(f)
		}
	}
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		row := []string{k, units[k]}
		for i := range convs {
			v, ok := values[i][k]
			if !ok {
				v = "-"
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if col >= 2 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	_, err := fmt.Fprintln(w, strings.TrimRight(t.Render(), "\n"))
	return err
}
