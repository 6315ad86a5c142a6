// Package config 读取 YAML 格式的水印与页面提取配置文件。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novvoo/go-pdf-utils/internal/logging"
	"github.com/novvoo/go-pdf-utils/pkg/extract"
	"github.com/novvoo/go-pdf-utils/pkg/watermark"
)

// ConfigError 配置文件中某个字段有问题
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError 创建 ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// Config 配置文件的顶层结构
type Config struct {
	// LogLevel debug、info、warn、error 或 none，空值表示不修改
	LogLevel  string          `yaml:"log-level"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Extract   ExtractConfig   `yaml:"extract"`
}

// WatermarkConfig 水印参数。零值字段使用默认值。
type WatermarkConfig struct {
	Text         string  `yaml:"text"`
	FontFamily   string  `yaml:"font-family"`
	FontSize     float64 `yaml:"font-size"`
	TextRotation int     `yaml:"text-rotation"`
	Color        string  `yaml:"color"`
	Alpha        float64 `yaml:"alpha"`
	XPosition    float64 `yaml:"x-position"`
	YPosition    float64 `yaml:"y-position"`
	InvertY      bool    `yaml:"invert-y"`

	// Properties 按平台属性名（如 hex255Color、alphaColor）设置，最后应用
	Properties map[string]string `yaml:"properties"`
}

// Builder 返回按配置初始化的 watermark.Builder，调用方可以继续覆盖
func (c *WatermarkConfig) Builder() *watermark.Builder {
	b := watermark.NewBuilder().
		Text(c.Text).
		FontFamily(c.FontFamily).
		FontSize(c.FontSize).
		TextRotation(c.TextRotation).
		HexColor(c.Color).
		Alpha(c.Alpha).
		XPosition(c.XPosition).
		YPosition(c.YPosition).
		InvertY(c.InvertY)
	if len(c.Properties) > 0 {
		b.ApplyProperties(c.Properties)
	}
	return b
}

// ExtractConfig 页面提取的默认元数据
type ExtractConfig struct {
	FileName string `yaml:"file-name"`
	Title    string `yaml:"title"`
	Subject  string `yaml:"subject"`
	Author   string `yaml:"author"`
}

// Apply 只填充 req 中为空的字段
func (c *ExtractConfig) Apply(req *extract.Request) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&req.FileName, c.FileName)
	fill(&req.Title, c.Title)
	fill(&req.Subject, c.Subject)
	fill(&req.Author, c.Author)
}

// Load 从文件读取配置
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置。未知字段视为错误。
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Message: "failed to parse config", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查日志级别和水印参数
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return &ConfigError{Field: "log-level", Message: err.Error(), Err: err}
		}
	}
	if _, err := c.Watermark.Builder().Build(); err != nil {
		return &ConfigError{Field: "watermark", Message: "invalid watermark settings", Err: err}
	}
	return nil
}

// ApplyLogging 按配置设置全局日志级别
func (c *Config) ApplyLogging() {
	if c.LogLevel == "" {
		return
	}
	if level, err := logging.ParseLevel(c.LogLevel); err == nil {
		logging.SetLogLevel(level)
	}
}
