package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/winspan/boomrules/pkg/utils"
)

const (
	DefaultTextFile = "brave_domain.txt"
	DefaultYAMLFile = "brave_domain.yaml"

	payloadKey = "payload"
)

// Writer 把排序后的 token 写成纯文本与 rule-provider YAML 两种格式
type Writer struct {
	Dir      string
	TextFile string
	YAMLFile string
}

// NewWriter 创建写入器，文件名为空时使用默认值
func NewWriter(dir, textFile, yamlFile string) *Writer {
	if textFile == "" {
		textFile = DefaultTextFile
	}
	if yamlFile == "" {
		yamlFile = DefaultYAMLFile
	}
	return &Writer{Dir: dir, TextFile: textFile, YAMLFile: yamlFile}
}

// TextPath 纯文本输出路径
func (w *Writer) TextPath() string { return filepath.Join(w.Dir, w.TextFile) }

// YAMLPath YAML 输出路径
func (w *Writer) YAMLPath() string { return filepath.Join(w.Dir, w.YAMLFile) }

// Write 渲染并覆盖写入两个输出文件
//
// Both documents are rendered before the first file is touched.
func (w *Writer) Write(tokens []string) error {
	text := RenderText(tokens)
	doc := RenderYAML(tokens)

	if err := utils.EnsureDir(w.Dir); err != nil {
		return fmt.Errorf("create output dir %s: %w", w.Dir, err)
	}
	if err := utils.WriteFile(w.TextPath(), text); err != nil {
		return fmt.Errorf("write %s: %w", w.TextPath(), err)
	}
	if err := utils.WriteFile(w.YAMLPath(), doc); err != nil {
		return fmt.Errorf("write %s: %w", w.YAMLPath(), err)
	}
	return nil
}

// RenderText 一行一个 token，以换行结尾；空列表时只有一个换行
func RenderText(tokens []string) []byte {
	return []byte(strings.Join(tokens, "\n") + "\n")
}

// RenderYAML 生成 mihomo/Clash domain 规则集：payload 下的单引号字符串列表
//
// Every token is written as "  - '<token>'" regardless of its content, so the
// text and YAML outputs differ only in framing. An embedded quote is doubled.
func RenderYAML(tokens []string) []byte {
	var b strings.Builder
	b.WriteString(payloadKey + ":\n")
	for _, t := range tokens {
		b.WriteString("  - '")
		b.WriteString(strings.ReplaceAll(t, "'", "''"))
		b.WriteString("'\n")
	}
	return []byte(b.String())
}
