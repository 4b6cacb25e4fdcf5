// Package config 从环境变量与 .env 文件读取运行参数.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	"dcdc/figure"
)

// Config 运行参数
type Config struct {
	LogLevel     string  // 日志级别
	Addr         string  // 网页服务监听地址
	FigureWidth  float64 // 图片宽度 [inch]
	FigureHeight float64 // 图片高度 [inch]
	FontSize     float64 // 标题字号 [pt]
	FigureFormat string  // 图片格式 png/svg
}

// Load 读取环境变量, 当前目录存在 .env 时先加载
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:     getEnv("DCDC_LOG_LEVEL", "info"),
		Addr:         getEnv("DCDC_ADDR", "127.0.0.1:8080"),
		FigureWidth:  getEnvAsFloat("DCDC_FIGURE_WIDTH", 12),
		FigureHeight: getEnvAsFloat("DCDC_FIGURE_HEIGHT", 8),
		FontSize:     getEnvAsFloat("DCDC_FONT_SIZE", 12),
		FigureFormat: getEnv("DCDC_FIGURE_FORMAT", string(figure.PNG)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查参数
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "DCDC_LOG_LEVEL")
	}
	if c.Addr == "" {
		return errors.New("DCDC_ADDR 不能为空")
	}
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 || c.FontSize <= 0 {
		return errors.Errorf("图片尺寸与字号必须为正数: %v x %v, %v", c.FigureWidth, c.FigureHeight, c.FontSize)
	}
	if _, err := figure.ParseFormat(c.FigureFormat); err != nil {
		return errors.WithMessage(err, "DCDC_FIGURE_FORMAT")
	}
	return nil
}

// Figure 绘图参数
func (c *Config) Figure() figure.Config {
	format, _ := figure.ParseFormat(c.FigureFormat)
	return figure.Config{
		Width:    vg.Length(c.FigureWidth) * vg.Inch,
		Height:   vg.Length(c.FigureHeight) * vg.Inch,
		FontSize: vg.Points(c.FontSize),
		Format:   format,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		logrus.WithFields(logrus.Fields{"key": key, "value": value}).Warn("环境变量不是有效数值, 使用默认值")
	}
	return defaultValue
}
