package mustache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBool bool

func (testBool) Kind() Kind                 { return KindBool }
func (b testBool) Bool() bool               { return bool(b) }
func (testBool) Integer() int64             { return 0 }
func (testBool) Float() float64             { return 0 }
func (testBool) String() string             { return "" }
func (testBool) Len() int                   { return 0 }
func (testBool) Index(int) Value            { return invalidValue{} }
func (testBool) Field(string) (Value, bool) { return invalidValue{}, false }
func (testBool) Unwrap() (Value, bool)      { return invalidValue{}, false }
func (testBool) Lambda() (Lambda, bool)     { return nil, false }
func (b testBool) Truthy() bool             { return bool(b) }

type testSequence []Value

func (testSequence) Kind() Kind                 { return KindSequence }
func (testSequence) Bool() bool                 { return false }
func (testSequence) Integer() int64             { return 0 }
func (testSequence) Float() float64             { return 0 }
func (testSequence) String() string             { return "" }
func (s testSequence) Len() int                 { return len(s) }
func (s testSequence) Index(i int) Value        { return s[i] }
func (testSequence) Field(string) (Value, bool) { return invalidValue{}, false }
func (testSequence) Unwrap() (Value, bool)      { return invalidValue{}, false }
func (testSequence) Lambda() (Lambda, bool)     { return nil, false }
func (s testSequence) Truthy() bool             { return len(s) > 0 }

type testOptional struct {
	v  Value
	ok bool
}

func (testOptional) Kind() Kind                 { return KindOptional }
func (testOptional) Bool() bool                 { return false }
func (testOptional) Integer() int64             { return 0 }
func (testOptional) Float() float64             { return 0 }
func (testOptional) String() string             { return "" }
func (testOptional) Len() int                   { return 0 }
func (testOptional) Index(int) Value            { return invalidValue{} }
func (testOptional) Field(string) (Value, bool) { return invalidValue{}, false }
func (o testOptional) Unwrap() (Value, bool)    { return o.v, o.ok }
func (testOptional) Lambda() (Lambda, bool)     { return nil, false }
func (o testOptional) Truthy() bool             { return o.ok }

type testLambda struct{ fn Lambda }

func (testLambda) Kind() Kind                 { return KindLambda }
func (testLambda) Bool() bool                 { return false }
func (testLambda) Integer() int64             { return 0 }
func (testLambda) Float() float64             { return 0 }
func (testLambda) String() string             { return "" }
func (testLambda) Len() int                   { return 0 }
func (testLambda) Index(int) Value            { return invalidValue{} }
func (testLambda) Field(string) (Value, bool) { return invalidValue{}, false }
func (testLambda) Unwrap() (Value, bool)      { return invalidValue{}, false }
func (l testLambda) Lambda() (Lambda, bool)   { return l.fn, true }
func (testLambda) Truthy() bool               { return true }

func render(t *testing.T, src string, data Value, opts ...RenderOption) string {
	t.Helper()
	tmpl, err := ParseString(src)
	require.NoError(t, err)
	out, err := tmpl.RenderString(data, opts...)
	require.NoError(t, err)
	return out
}

func TestRenderStaticText(t *testing.T) {
	require.Equal(t, "hello", render(t, "hello", testStruct{}))
}

func TestRenderInterpolationEscapesByDefault(t *testing.T) {
	got := render(t, "{{x}}", testStruct{"x": testString("<b>")})
	require.Equal(t, "&lt;b&gt;", got)
}

func TestRenderTripleMustacheDoesNotEscape(t *testing.T) {
	got := render(t, "{{{x}}}", testStruct{"x": testString("<b>")})
	require.Equal(t, "<b>", got)
}

func TestRenderMissingInterpolationIsEmpty(t *testing.T) {
	require.Equal(t, "[]", render(t, "[{{missing}}]", testStruct{}))
}

func TestRenderSectionOverSequence(t *testing.T) {
	data := testStruct{"items": testSequence{testStruct{"n": testString("a")}, testStruct{"n": testString("b")}}}
	require.Equal(t, "ab", render(t, "{{#items}}{{n}}{{/items}}", data))
}

func TestRenderSectionFalsySkipped(t *testing.T) {
	require.Equal(t, "", render(t, "{{#flag}}x{{/flag}}", testStruct{"flag": testBool(false)}))
}

func TestRenderInvertedSectionRendersWhenFalsy(t *testing.T) {
	require.Equal(t, "x", render(t, "{{^flag}}x{{/flag}}", testStruct{"flag": testBool(false)}))
	require.Equal(t, "", render(t, "{{^flag}}x{{/flag}}", testStruct{"flag": testBool(true)}))
}

func TestRenderSectionOverStructPushesContext(t *testing.T) {
	data := testStruct{"person": testStruct{"name": testString("Ada")}}
	require.Equal(t, "Ada", render(t, "{{#person}}{{name}}{{/person}}", data))
}

func TestRenderPartialResolvesFromResolver(t *testing.T) {
	header, err := ParseString("<{{title}}>")
	require.NoError(t, err)
	tmpl, err := ParseString("{{>header}}")
	require.NoError(t, err)
	out, err := tmpl.RenderString(testStruct{"title": testString("hi")}, WithPartials(PartialsMap{"header": header}))
	require.NoError(t, err)
	require.Equal(t, "<hi>", out)
}

func TestRenderPartialMissingIsEmpty(t *testing.T) {
	tmpl, err := ParseString("[{{>missing}}]")
	require.NoError(t, err)
	out, err := tmpl.RenderString(testStruct{})
	require.NoError(t, err)
	require.Equal(t, "[]", out)
}

func TestRenderPartialIndentAppliedToEveryLine(t *testing.T) {
	partial, err := ParseString("one\ntwo\n")
	require.NoError(t, err)
	tmpl, err := ParseString("  {{>p}}\n")
	require.NoError(t, err)
	out, err := tmpl.RenderString(testStruct{}, WithPartials(PartialsMap{"p": partial}))
	require.NoError(t, err)
	require.Equal(t, "  one\n  two\n", out)
}

func TestRenderLambdaInterpolation(t *testing.T) {
	data := testStruct{"greet": testLambda{fn: func([]byte) ([]byte, error) {
		return []byte("hi {{name}}"), nil
	}}, "name": testString("Ada")}
	require.Equal(t, "hi Ada", render(t, "{{greet}}", data))
}

func TestRenderLambdaSectionReceivesRawInnerSource(t *testing.T) {
	var seen string
	data := testStruct{"wrap": testLambda{fn: func(section []byte) ([]byte, error) {
		seen = string(section)
		return []byte(strings.ToUpper(string(section))), nil
	}}}
	got := render(t, "{{#wrap}}hello{{/wrap}}", data)
	require.Equal(t, "hello", seen)
	require.Equal(t, "HELLO", got)
}

func TestRenderLambdaErrorSwallowedAsEmpty(t *testing.T) {
	data := testStruct{"boom": testLambda{fn: func([]byte) ([]byte, error) {
		return nil, assert.AnError
	}}}
	require.Equal(t, "[]", render(t, "[{{boom}}]", data))
}

func TestRenderBudgetExceededOnStagedInterpolation(t *testing.T) {
	tmpl, err := ParseString("{{x}}")
	require.NoError(t, err)
	_, err = tmpl.RenderString(testStruct{"x": testString("0123456789")}, WithBudget(NewBudget(5)))
	require.Error(t, err)
	re, ok := err.(*RenderError)
	require.True(t, ok)
	require.Equal(t, OutOfBudget, re.Kind)
}

func TestRenderBudgetNeverChargedForStaticText(t *testing.T) {
	tmpl, err := ParseString("0123456789")
	require.NoError(t, err)
	out, err := tmpl.RenderString(testStruct{}, WithBudget(NewBudget(1)))
	require.NoError(t, err)
	require.Equal(t, "0123456789", out)
}

func TestRenderInheritanceUnsupported(t *testing.T) {
	tmpl, err := ParseString("{{<layout}}{{$c}}x{{/c}}{{/layout}}")
	require.NoError(t, err)
	_, err = tmpl.RenderString(testStruct{})
	require.Error(t, err)
	re, ok := err.(*RenderError)
	require.True(t, ok)
	require.Equal(t, FeatureUnsupported, re.Kind)
}

func TestRenderSetDelimitersInBodyIsNoOp(t *testing.T) {
	got := render(t, "{{=<% %>=}}<%x%>", testStruct{"x": testString("y")})
	require.Equal(t, "y", got)
}

func TestRenderSectionOverPresentOptionalPushesInnerValue(t *testing.T) {
	data := testStruct{"maybe": testOptional{v: testStruct{"name": testString("Ada")}, ok: true}}
	require.Equal(t, "Ada", render(t, "{{#maybe}}{{name}}{{/maybe}}", data))
}

func TestRenderSectionOverAbsentOptionalSkipped(t *testing.T) {
	data := testStruct{"maybe": testOptional{ok: false}}
	require.Equal(t, "", render(t, "{{#maybe}}x{{/maybe}}", data))
}

func TestRenderInterpolationOfPresentOptionalUnwraps(t *testing.T) {
	data := testStruct{"maybe": testOptional{v: testString("hi"), ok: true}}
	require.Equal(t, "hi", render(t, "{{maybe}}", data))
}

func TestRenderInterpolationOfAbsentOptionalIsEmpty(t *testing.T) {
	data := testStruct{"maybe": testOptional{ok: false}}
	require.Equal(t, "[]", render(t, "[{{maybe}}]", data))
}
