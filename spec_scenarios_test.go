package mustache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/mustache"
	"github.com/oarkflow/mustache/internal/jsonvalue"
)

func renderJSON(t *testing.T, tmplSrc string, data any) string {
	t.Helper()
	tmpl, err := mustache.ParseString(tmplSrc)
	require.NoError(t, err)
	out, err := tmpl.RenderString(jsonvalue.Of(data))
	require.NoError(t, err)
	return out
}

func TestScenario1PlainInterpolation(t *testing.T) {
	got := renderJSON(t, "Hello {{name}}!", map[string]any{"name": "World"})
	require.Equal(t, "Hello World!", got)
}

func TestScenario2FalsySectionRendersEmpty(t *testing.T) {
	got := renderJSON(t, "{{#a}}x{{/a}}", map[string]any{"a": false})
	require.Equal(t, "", got)
}

func TestScenario3InvertedEmptySequenceRenders(t *testing.T) {
	got := renderJSON(t, "{{^a}}x{{/a}}", map[string]any{"a": []any{}})
	require.Equal(t, "x", got)
}

func TestScenario4UnescapedInterpolation(t *testing.T) {
	got := renderJSON(t, "<{{&html}}>", map[string]any{"html": "<b>"})
	require.Equal(t, "<<b>>", got)
}

func TestScenario5EscapedInterpolation(t *testing.T) {
	got := renderJSON(t, "<{{html}}>", map[string]any{"html": "<b>"})
	require.Equal(t, "<&lt;b&gt;>", got)
}

func TestScenario6SetDelimiters(t *testing.T) {
	got := renderJSON(t, "{{=<% %>=}}<%n%>", map[string]any{"n": float64(1)})
	require.Equal(t, "1", got)
}

func TestScenario7StandaloneCommentLineRemoved(t *testing.T) {
	got := renderJSON(t, "  {{! c }}\nX\n", nil)
	require.Equal(t, "X\n", got)
}

func TestScenario8PartialIndentation(t *testing.T) {
	partial, err := mustache.ParseString("  {{x}}\n")
	require.NoError(t, err)
	tmpl, err := mustache.ParseString(">\n{{>p}}<")
	require.NoError(t, err)
	out, err := tmpl.RenderString(jsonvalue.Of(map[string]any{"x": "Y"}), mustache.WithPartials(mustache.PartialsMap{"p": partial}))
	require.NoError(t, err)
	require.Equal(t, ">\n  Y\n<", out)
}

func TestRoundTripOfStaticTextOnlyTemplate(t *testing.T) {
	src := "no tags here, just plain\ntext across\nmultiple lines."
	got := renderJSON(t, src, nil)
	require.Equal(t, src, got)
}

func TestIdempotenceOfDelimiterRestore(t *testing.T) {
	got := renderJSON(t, "{{=<< >>=}}<<=[[ ]]=>>[[n]]", map[string]any{"n": float64(7)})
	require.Equal(t, "7", got)
}

func TestNonStandaloneInterpolationNeverStripsWhitespace(t *testing.T) {
	got := renderJSON(t, "a {{x}} b", map[string]any{"x": "Y"})
	require.Equal(t, "a Y b", got)
}

func TestConcurrentRenderSafety(t *testing.T) {
	tmpl, err := mustache.ParseString("{{#items}}{{.}},{{/items}}")
	require.NoError(t, err)
	data := jsonvalue.Of(map[string]any{"items": []any{"a", "b", "c"}})

	const n = 16
	results := make([]string, n)
	errs := make([]error, n)
	done := make(chan int, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			results[i], errs[i] = tmpl.RenderString(data)
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "a,b,c,", results[i])
	}
}

func TestMemoryBoundAllowsOversizedStaticOutput(t *testing.T) {
	big := make([]byte, 0, 10*1024*1024)
	for len(big) < 10*1024*1024 {
		big = append(big, "0123456789"...)
	}
	tmpl, err := mustache.ParseString(string(big))
	require.NoError(t, err)
	out, err := tmpl.RenderString(jsonvalue.Of(nil), mustache.WithBudget(mustache.NewBudget(32*1024)))
	require.NoError(t, err)
	require.Equal(t, string(big), out)
}

func TestMemoryBoundRejectsOversizedStagingBuffer(t *testing.T) {
	big := make([]byte, 0, 64*1024)
	for len(big) < 64*1024 {
		big = append(big, "0123456789"...)
	}
	tmpl, err := mustache.ParseString("{{field}}")
	require.NoError(t, err)
	_, err = tmpl.RenderString(jsonvalue.Of(map[string]any{"field": string(big)}), mustache.WithBudget(mustache.NewBudget(32*1024)))
	require.Error(t, err)
	re, ok := err.(*mustache.RenderError)
	require.True(t, ok)
	require.Equal(t, mustache.OutOfBudget, re.Kind)
}
