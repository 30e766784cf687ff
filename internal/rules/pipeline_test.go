package rules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	body string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

type fakeRecorder struct {
	fetchSize int
	runs      []Stats
	flushes   int
	flushErr  error
}

func (r *fakeRecorder) ObserveFetch(_ time.Duration, size int) { r.fetchSize = size }
func (r *fakeRecorder) ObserveRun(st Stats) { r.runs = append(r.runs, st) }
func (r *fakeRecorder) Flush() error {
	r.flushes++
	return r.flushErr
}

const upstream = `# Title: Brave
// generated
; legacy comment

example.com # trailing note
 foo . bar
*.ads.example.com
*.*.example.com
*
example.com
   #   
`

func TestBuild_ApexDerive(t *testing.T) {
	set, st := Build(upstream, ApexDerive)

	assert.Equal(t, []string{
		"*",
		"*.*.example.com",
		"*.ads.example.com",
		"ads.example.com",
		"example.com",
		"foo.bar",
	}, set.Sorted())

	assert.Equal(t, Stats{
		Lines:    11,
		Blank:    1,
		Comment:  4,
		Accepted: 6,
		Derived:  1,
		Unique:   6,
	}, st)
}

func TestBuild_MarkerRewrite(t *testing.T) {
	set, st := Build(upstream, MarkerRewrite)

	assert.Equal(t, []string{
		"*",
		"*.*.example.com",
		"+.ads.example.com",
		"example.com",
		"foo.bar",
	}, set.Sorted())
	assert.False(t, set.Contains("*.ads.example.com"))
	assert.Equal(t, 1, st.Rewritten)
	assert.Equal(t, 0, st.Derived)
	assert.Equal(t, 5, st.Unique)
}

func TestBuild_InlineComments(t *testing.T) {
	_, st := Build("  x#\n", ApexDerive)
	assert.Equal(t, 1, st.Accepted)

	set, st := Build("\t  #note\nfoo # bar\n", ApexDerive)
	assert.Equal(t, 1, st.Comment)
	assert.Equal(t, []string{"foo"}, set.Sorted())
}

func TestBuild_PermutationInvariant(t *testing.T) {
	lines := SplitLines(upstream)
	reversed := make([]string, len(lines))
	for i, l := range lines {
		reversed[len(lines)-1-i] = l
	}

	for _, policy := range []WildcardPolicy{ApexDerive, MarkerRewrite} {
		a, _ := Build(upstream, policy)
		b, _ := Build(strings.Join(reversed, "\r\n"), policy)
		assert.Equal(t, a.Sorted(), b.Sorted(), "policy %s", policy)
	}
}

func TestBuild_Empty(t *testing.T) {
	for _, raw := range []string{"", "# only\n\n   \n// x\n"} {
		set, st := Build(raw, MarkerRewrite)
		assert.Zero(t, set.Len())
		assert.Zero(t, st.Unique)
	}
}

func TestPipeline_RunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	p := &Pipeline{
		Fetcher:  &fakeFetcher{body: upstream},
		Policy:   ApexDerive,
		Writer:   NewWriter(dir, "", ""),
		Recorder: rec,
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Stats.Unique)
	assert.Equal(t, filepath.Join(dir, DefaultTextFile), res.TextPath)

	first := readOutputs(t, p.Writer)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, readOutputs(t, p.Writer))

	assert.Equal(t, len(upstream), rec.fetchSize)
	assert.Len(t, rec.runs, 2)
	assert.Equal(t, 2, rec.flushes)

	assert.Equal(t, "*\n*.*.example.com\n*.ads.example.com\nads.example.com\nexample.com\nfoo.bar\n", first[0])
	assert.Equal(t, "payload:\n"+
		"  - '*'\n"+
		"  - '*.*.example.com'\n"+
		"  - '*.ads.example.com'\n"+
		"  - 'ads.example.com'\n"+
		"  - 'example.com'\n"+
		"  - 'foo.bar'\n", first[1])
}

func TestPipeline_EmptyUpstream(t *testing.T) {
	p := &Pipeline{
		Fetcher: &fakeFetcher{body: "# nothing here\n\n"},
		Policy:  MarkerRewrite,
		Writer:  NewWriter(t.TempDir(), "", ""),
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Tokens)
	assert.Equal(t, [2]string{"\n", "payload:\n"}, readOutputs(t, p.Writer))
}

func TestPipeline_FetchErrorWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	rec := &fakeRecorder{}
	p := &Pipeline{
		Fetcher:  &fakeFetcher{err: errors.New("connection refused")},
		Policy:   MarkerRewrite,
		Writer:   NewWriter(dir, "", ""),
		Recorder: rec,
	}

	_, err := p.Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, rec.runs)
	assert.Zero(t, rec.flushes)
}

func TestPipeline_FlushError(t *testing.T) {
	p := &Pipeline{
		Fetcher:  &fakeFetcher{body: "a.com\n"},
		Policy:   MarkerRewrite,
		Writer:   NewWriter(t.TempDir(), "", ""),
		Recorder: &fakeRecorder{flushErr: errors.New("disk full")},
	}

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush metrics")
}

func readOutputs(t *testing.T, w *Writer) [2]string {
	t.Helper()
	text, err := os.ReadFile(w.TextPath())
	require.NoError(t, err)
	doc, err := os.ReadFile(w.YAMLPath())
	require.NoError(t, err)
	return [2]string{string(text), string(doc)}
}
