package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/winspan/boomrules/pkg/logger"
)

// Stats 单次运行的统计
type Stats struct {
	Lines       int `json:"lines"`
	Blank       int `json:"blank"`
	Comment     int `json:"comment"`
	InlineEmpty int `json:"inline_empty"`
	Accepted    int `json:"accepted"`  // 规范化后得到 token 的行
	Derived     int `json:"derived"`   // apex-derive 新增的 apex 条目
	Rewritten   int `json:"rewritten"` // marker-rewrite 改写的条目
	Unique      int `json:"unique"`    // 最终去重后的数量
}

// Recorder 接收运行指标
type Recorder interface {
	ObserveFetch(elapsed time.Duration, size int)
	ObserveRun(stats Stats)
	Flush() error
}

// Build 对原文做规范化与通配符展开，不涉及任何 I/O
func Build(raw string, policy WildcardPolicy) (*TokenSet, Stats) {
	set := NewTokenSet()
	var st Stats

	for _, line := range SplitLines(raw) {
		st.Lines++

		token, kind := Classify(line)
		switch kind {
		case LineBlank:
			st.Blank++
			continue
		case LineComment:
			st.Comment++
			continue
		case LineInlineEmpty:
			st.InlineEmpty++
			continue
		}
		st.Accepted++

		expanded := policy.Expand(token)
		switch {
		case len(expanded) > 1:
			st.Derived += len(expanded) - 1
		case expanded[0] != token:
			st.Rewritten++
		}
		for _, t := range expanded {
			set.Add(t)
		}
	}

	st.Unique = set.Len()
	return set, st
}

// Result 一次成功运行的结果
type Result struct {
	Stats    Stats
	Tokens   []string
	TextPath string
	YAMLPath string
}

// Pipeline 下载 → 规范化/展开 → 写出
type Pipeline struct {
	Fetcher  Fetcher
	Policy   WildcardPolicy
	Writer   *Writer
	Recorder Recorder // optional
	Log      *logger.Logger
}

// Run 执行一次完整同步。任何错误都发生在写出之前或写出过程中，不做重试。
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := p.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("pipeline")

	start := time.Now()
	raw, err := p.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if p.Recorder != nil {
		p.Recorder.ObserveFetch(time.Since(start), len(raw))
	}

	set, stats := Build(raw, p.Policy)
	tokens := set.Sorted()

	log.Debug().
		Int("lines", stats.Lines).
		Int("blank", stats.Blank).
		Int("comment", stats.Comment).
		Int("inline_empty", stats.InlineEmpty).
		Int("derived", stats.Derived).
		Int("rewritten", stats.Rewritten).
		Str("policy", string(p.Policy)).
		Msg("tokens built")

	if err := p.Writer.Write(tokens); err != nil {
		return nil, err
	}

	if p.Recorder != nil {
		p.Recorder.ObserveRun(stats)
		if err := p.Recorder.Flush(); err != nil {
			return nil, fmt.Errorf("flush metrics: %w", err)
		}
	}

	log.Info().
		Int("domains", stats.Unique).
		Str("text", p.Writer.TextPath()).
		Str("yaml", p.Writer.YAMLPath()).
		Dur("elapsed", time.Since(start)).
		Msg("rule lists updated")

	return &Result{
		Stats:    stats,
		Tokens:   tokens,
		TextPath: p.Writer.TextPath(),
		YAMLPath: p.Writer.YAMLPath(),
	}, nil
}
