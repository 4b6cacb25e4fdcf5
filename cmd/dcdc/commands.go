package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dcdc"
	"dcdc/charts"
	"dcdc/export"
	"dcdc/figure"
	"dcdc/load"
	"dcdc/server"
	"dcdc/types"
	"dcdc/waveform"
)

// NewReportCommand 输出每个变换器的文本报告
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <deck>",
		Short: "输出每个变换器的参数报告",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convs, err := dcdc.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, c := range convs {
				if err := c.Report(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewTableCommand 并列输出 CCM 与 DCM 参数
func NewTableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "table <deck>",
		Short: "以表格并列输出同一拓扑的 CCM 与 DCM 参数",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := loadReports(args[0])
			if err != nil {
				return err
			}
			for _, r := range reports {
				if err := r.Tabulate(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewPlotCommand 绘制波形图片
func NewPlotCommand() *cobra.Command {
	var (
		quantity string
		format   string
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "plot <deck>",
		Short: "绘制 CCM 与 DCM 的元件电流电压波形 (PNG/SVG)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantities, err := parseQuantities(quantity)
			if err != nil {
				return err
			}
			figCfg := cfg.Figure()
			if format != "" {
				if figCfg.Format, err = figure.ParseFormat(format); err != nil {
					return err
				}
			}
			reports, err := loadReports(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrapf(err, "创建目录 %s 失败", outDir)
			}
			for _, r := range reports {
				for _, q := range quantities {
					name := filepath.Join(outDir, fmt.Sprintf("%s_%s.%s", strings.ToLower(r.Family().String()), q, figCfg.Format))
					if err := writePlot(name, r, q, figCfg); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "all", "元件 (switch, diode, inductor, capacitor, resistor, all)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "图片格式 (png, svg), 默认读取 DCDC_FIGURE_FORMAT")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "输出目录")
	return cmd
}

func writePlot(name string, r *dcdc.Report, q types.Quantity, figCfg figure.Config) error {
	panels, err := r.Plot(q)
	if err != nil {
		return err
	}
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "创建文件 %s 失败", name)
	}
	defer file.Close()
	return figure.Render(file, panels, figCfg)
}

// NewChartCommand 生成波形网页
func NewChartCommand() *cobra.Command {
	var (
		quantity string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "chart <deck>",
		Short: "生成可交互的波形网页 (HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantities, err := parseQuantities(quantity)
			if err != nil {
				return err
			}
			reports, err := loadReports(args[0])
			if err != nil {
				return err
			}
			page := &charts.Charts{Reports: reports, Quantities: quantities}
			return withOutput(cmd, output, page.Render)
		},
	}
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "all", "元件 (switch, diode, inductor, capacitor, resistor, all)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "输出文件, 默认标准输出")
	return cmd
}

// NewWaveformCommand 输出波形断点与统计量
func NewWaveformCommand() *cobra.Command {
	var (
		name       string
		quantity   string
		signalName string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "waveform <deck>",
		Short: "输出元件电流或电压波形的断点 (制表符分隔) 与统计量",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := types.ParseQuantity(quantity)
			if err != nil {
				return err
			}
			sig, err := types.ParseSignal(signalName)
			if err != nil {
				return err
			}
			convs, err := dcdc.LoadFile(args[0])
			if err != nil {
				return err
			}
			var selected []dcdc.Named
			for _, c := range convs {
				if name == "" || strings.EqualFold(c.Label, name) || strings.EqualFold(c.Name(), name) {
					selected = append(selected, c)
				}
			}
			if len(selected) == 0 {
				return errors.Errorf("未找到变换器: %s", name)
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				for _, c := range selected {
					wave, err := c.Waveform(q, sig)
					if err != nil {
						return errors.WithMessage(err, c.Label)
					}
					if _, err := wave.WriteTo(w); err != nil {
						return err
					}
					if _, err := waveform.Summarize(wave, c.State().Period).WriteTo(w); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "变换器名称 (如 buck1), 默认全部")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "inductor", "元件 (switch, diode, inductor, capacitor, resistor)")
	cmd.Flags().StringVarP(&signalName, "signal", "s", "current", "信号 (current, voltage)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "输出文件, 默认标准输出")
	return cmd
}

// NewExportCommand 导出参数与波形
func NewExportCommand() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <deck>",
		Short: "以 JSON 或 MessagePack 导出参数, 应力与波形",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := export.ParseEncoding(format)
			if err != nil {
				return err
			}
			convs, err := dcdc.LoadFile(args[0])
			if err != nil {
				return err
			}
			list := make([]types.Converter, len(convs))
			for i, c := range convs {
				list[i] = c.Converter
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				return export.Encode(w, enc, list...)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.JSON), "导出格式 (json, msgpack)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "输出文件, 默认标准输出")
	return cmd
}

// NewDeckCommand 检查描述文件并输出规范化后的内容
func NewDeckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deck <deck>",
		Short: "检查描述文件并输出展开变量后的内容",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := load.LoadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := dcdc.Build(deck); err != nil {
				return err
			}
			return deck.Export(cmd.OutOrStdout())
		},
	}
}

// NewServeCommand 启动网页服务
func NewServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <deck>",
		Short: "启动网页服务, 发布报告, 表格与波形",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			convs, err := dcdc.LoadFile(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}
			srv, err := server.New(server.Config{
				Addr:       addr,
				Converters: convs,
				Figure:     cfg.Figure(),
				Log:        logrus.StandardLogger(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "监听地址, 默认读取 DCDC_ADDR")
	return cmd
}

func loadReports(filename string) ([]*dcdc.Report, error) {
	convs, err := dcdc.LoadFile(filename)
	if err != nil {
		return nil, err
	}
	reports, err := dcdc.Pair(convs)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, errors.Wrap(types.ErrModeMismatch, "描述文件中没有同一拓扑的 CCM 与 DCM 变换器")
	}
	return reports, nil
}

func parseQuantities(name string) ([]types.Quantity, error) {
	if strings.EqualFold(name, "all") {
		return types.Quantities, nil
	}
	var quantities []types.Quantity
	for _, n := range strings.Split(name, ",") {
		q, err := types.ParseQuantity(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		quantities = append(quantities, q)
	}
	return quantities, nil
}

func withOutput(cmd *cobra.Command, output string, fn func(w io.Writer) error) error {
	if output == "" {
		return fn(cmd.OutOrStdout())
	}
	file, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "创建文件 %s 失败", output)
	}
	defer file.Close()
	return fn(file)
}
