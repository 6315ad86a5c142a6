package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelNone:  "NONE",
}

// String 返回级别名称
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel 解析配置文件或命令行中的级别名称（大小写不敏感）
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "none", "off", "silent":
		return LevelNone, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger 分级日志记录器
type Logger struct {
	mu      sync.RWMutex
	level   Level
	logger  *log.Logger
	enabled bool
}

var (
	defaultLogger *Logger
	loggerOnce    sync.Once
)

// GetLogger 获取默认日志记录器（单例）
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		defaultLogger = New(LevelWarn, os.Stderr, "[pdfutils] ")
	})
	return defaultLogger
}

// New 创建新的日志记录器
func New(level Level, output io.Writer, prefix string) *Logger {
	return &Logger{
		level:   level,
		logger:  log.New(output, prefix, log.LstdFlags),
		enabled: true,
	}
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level 返回当前级别
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetOutput 重定向输出
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// SetEnabled 启用或禁用日志
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.enabled || level < l.level {
		return
	}

	l.logger.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}

// 全局便捷函数
func Debug(format string, v ...interface{}) {
	GetLogger().Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	GetLogger().Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	GetLogger().Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	GetLogger().Error(format, v...)
}

// SetLogLevel 设置全局日志级别
func SetLogLevel(level Level) {
	GetLogger().SetLevel(level)
}

// SetOutput 设置全局日志输出
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// EnableLogging 启用或禁用全局日志
func EnableLogging(enabled bool) {
	GetLogger().SetEnabled(enabled)
}
