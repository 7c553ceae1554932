package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ===============================
// 日志模块
// ===============================

// Logger 日志记录器，支持同时输出到控制台和文件
// Printf/Println 输出报告文本，Info/Warn/Error/Debug 经 logrus 输出带级别的日志
type Logger struct {
	file      *os.File
	multiOut  io.Writer
	log       *logrus.Logger
	startTime time.Time
	logPath   string
}

// NewLogger 创建新的日志记录器
// enabled 为 true 时会自动创建输出目录和日志文件
func NewLogger(outputDir string, enabled bool, level logrus.Level) (*Logger, error) {
	logger := &Logger{
		startTime: time.Now(),
	}

	if !enabled {
		logger.multiOut = os.Stdout
		logger.log = newLogrus(os.Stdout, level)
		return logger, nil
	}

	logDir := filepath.Join(outputDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	// 日志文件名基于时间戳
	timestamp := logger.startTime.Format("2006-01-02_15-04-05")
	logger.logPath = filepath.Join(logDir, fmt.Sprintf("%s.log", timestamp))

	file, err := os.Create(logger.logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	logger.file = file

	logger.multiOut = io.MultiWriter(os.Stdout, file)
	logger.log = newLogrus(logger.multiOut, level)

	return logger, nil
}

// NewWriterLogger 输出到指定 writer（用于测试）
func NewWriterLogger(w io.Writer, level logrus.Level) *Logger {
	return &Logger{
		multiOut:  w,
		log:       newLogrus(w, level),
		startTime: time.Now(),
	}
}

func newLogrus(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return l
}

// parseLogLevel 解析日志级别，verbose 优先
func parseLogLevel(s string, verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	if s == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Writer 报告输出目标
func (l *Logger) Writer() io.Writer {
	return l.multiOut
}

// GetLogPath 获取日志文件路径
func (l *Logger) GetLogPath() string {
	return l.logPath
}

// GetStartTime 获取开始时间
func (l *Logger) GetStartTime() time.Time {
	return l.startTime
}

// Printf 格式化输出
func (l *Logger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.multiOut, format, args...)
}

// Println 输出一行
func (l *Logger) Println(args ...interface{}) {
	fmt.Fprintln(l.multiOut, args...)
}

// Info 输出信息日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warn 输出警告日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error 输出错误日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Debug 输出调试日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Section 输出分隔区域
func (l *Logger) Section(title string) {
	l.Println()
	l.Printf("%s\n%s\n%s\n", strings.Repeat("=", 60), title, strings.Repeat("=", 60))
}

// LogConfig 记录配置信息
func (l *Logger) LogConfig(cfg Config) {
	l.Printf("📊 Each endpoint will be called %d times\n", cfg.Calls)
	l.Info("timeout=%s protocol=%s fresh_connections=%t", cfg.Timeout, cfg.Protocol, cfg.FreshConnections)
	l.Info("%s: %s", cfg.Sides.A, cfg.BaseURLA)
	l.Info("%s: %s", cfg.Sides.B, cfg.BaseURLB)
	for _, p := range cfg.Pairs {
		l.Debug("pair %s: %s %s", p.Name, p.SideA.Method, p.SideA.URL)
	}
	for _, name := range cfg.Disabled {
		l.Debug("pair %s disabled", name)
	}
}
