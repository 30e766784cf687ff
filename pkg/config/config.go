package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/winspan/boomrules/internal/rules"
	"github.com/winspan/boomrules/pkg/logger"
	"github.com/winspan/boomrules/pkg/utils"
)

const (
	DefaultSourceURL = "https://raw.githubusercontent.com/celenityy/BadBlock/main/wildcards-star/brave.txt"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "boomrules/1.0"
	DefaultOutputDir = "dist"
)

// Config 应用配置结构
type Config struct {
	// 上游规则源
	Source struct {
		URL       string        `yaml:"url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"source"`

	// 输出配置
	Output struct {
		Dir      string `yaml:"dir"`
		TextFile string `yaml:"text_file"`
		YAMLFile string `yaml:"yaml_file"`
	} `yaml:"output"`

	// 通配符处理策略: apex-derive | marker-rewrite
	WildcardPolicy string `yaml:"wildcard_policy"`

	Logging logger.Config `yaml:"logging"`

	// 监控配置
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// Default 返回全部使用默认值的配置
func Default() *Config {
	var config Config
	setDefaults(&config)
	return &config
}

// LoadConfig 加载配置文件
//
// An empty path falls back to the well-known locations; if none exists the
// built-in defaults are returned. An explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
		if configPath == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	setDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", configPath, err)
	}

	return &config, nil
}

// getDefaultConfigPath 获取默认配置文件路径
func getDefaultConfigPath() string {
	paths := []string{
		"configs/config.yaml",
		"config.yaml",
	}

	for _, path := range paths {
		if utils.FileExists(path) {
			return path
		}
	}

	return ""
}

// setDefaults 设置默认配置值
func setDefaults(config *Config) {
	if config.Source.URL == "" {
		config.Source.URL = DefaultSourceURL
	}
	if config.Source.Timeout == 0 {
		config.Source.Timeout = DefaultTimeout
	}
	if config.Source.UserAgent == "" {
		config.Source.UserAgent = DefaultUserAgent
	}

	if config.Output.Dir == "" {
		config.Output.Dir = DefaultOutputDir
	}
	if config.Output.TextFile == "" {
		config.Output.TextFile = rules.DefaultTextFile
	}
	if config.Output.YAMLFile == "" {
		config.Output.YAMLFile = rules.DefaultYAMLFile
	}

	if config.WildcardPolicy == "" {
		config.WildcardPolicy = string(rules.MarkerRewrite)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
	if config.Logging.Output == "" {
		config.Logging.Output = "stderr"
	}
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Source.URL) == "" {
		return fmt.Errorf("source.url must not be empty")
	}
	if config.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", config.Source.Timeout)
	}
	if strings.TrimSpace(config.Output.Dir) == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if config.Output.TextFile == config.Output.YAMLFile {
		return fmt.Errorf("output.text_file and output.yaml_file must differ")
	}
	if _, err := rules.ParseWildcardPolicy(config.WildcardPolicy); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(config.Logging.Level); err != nil {
		return err
	}
	if f := config.Logging.Format; f != "console" && f != "json" {
		return fmt.Errorf("logging.format must be console or json, got %q", f)
	}
	return nil
}

// Policy 返回已校验的通配符策略
func (c *Config) Policy() rules.WildcardPolicy {
	p, _ := rules.ParseWildcardPolicy(c.WildcardPolicy)
	return p
}
