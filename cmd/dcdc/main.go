package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dcdc/config"
	"dcdc/types"
)

var (
	logLevel = ""
	cfg      *config.Config
)

func setupLogger() error {
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(lv)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}
	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, types.ErrInvalidSpecification):
		fmt.Fprintln(os.Stderr, "\n设计指标无效, 请检查描述文件中的数值与模式")
	case errors.Is(err, types.ErrArithmeticFault):
		fmt.Fprintln(os.Stderr, "\n计算结果无效, 指标组合在该拓扑下无法实现")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

// NewCommand 根命令
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dcdc",
		Short: "dcdc 计算降压与升降压变换器的稳态参数并绘制理想波形",
		Long: `dcdc 计算降压与升降压变换器在 CCM 与 DCM 下的稳态参数,
包括占空比, 电感, 电容, 电感电流范围与器件应力, 并绘制两个开关周期的理想波形.

变换器由描述文件给出, 每行一个:
  buck1 ccm 50 10 100 50k 0.1 0.1`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error, fatal, panic), 默认读取 DCDC_LOG_LEVEL")

	cmd.AddCommand(
		NewReportCommand(),
		NewTableCommand(),
		NewPlotCommand(),
		NewChartCommand(),
		NewWaveformCommand(),
		NewExportCommand(),
		NewDeckCommand(),
		NewServeCommand(),
	)
	return cmd
}
