package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String 返回日志级别的字符串表示
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析配置中的日志级别字符串
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	case FATAL:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	level Level
	file  *os.File
}

// Config 日志配置
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
	Output string `yaml:"output"` // stdout | stderr | <file path>

	// Writer overrides Output, used by tests.
	Writer io.Writer `yaml:"-"`
}

// NewLogger 创建新的日志记录器
func NewLogger(config Config) (*Logger, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	l := &Logger{level: level}

	w := config.Writer
	if w == nil {
		if w, err = l.openOutput(config.Output); err != nil {
			return nil, err
		}
	}
	if config.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}

	l.Logger = zerolog.New(w).Level(level.zerologLevel()).With().Timestamp().Logger()
	return l, nil
}

// isTerminal 仅当输出为终端时才启用彩色输出
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openOutput 设置日志输出
func (l *Logger) openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = file
	return file, nil
}

// Named 返回带 component 字段的子记录器
func (l *Logger) Named(component string) *Logger {
	if component == "" {
		return l
	}
	return &Logger{
		Logger: l.With().Str("component", component).Logger(),
		level:  l.level,
	}
}

// GetLevel 获取日志级别
func (l *Logger) GetLevel() Level {
	return l.level
}

// IsDebug 检查是否为调试级别
func (l *Logger) IsDebug() bool {
	return l.level <= DEBUG
}

// Close 关闭日志记录器
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Nop 返回丢弃所有输出的记录器
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop(), level: FATAL}
}
