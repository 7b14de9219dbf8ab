package mustache

import (
	"bytes"
	"io"
	"strconv"
)

// RenderOption configures a Template.Render / RenderString call.
type RenderOption func(*renderOptions)

type renderOptions struct {
	partials PartialsResolver
	budget   *Budget
	maxDepth int
}

func defaultRenderOptions() *renderOptions {
	return &renderOptions{maxDepth: 100}
}

// WithPartials supplies the resolver used for {{> name}} tags. Without
// one, every partial renders as empty.
func WithPartials(r PartialsResolver) RenderOption {
	return func(ro *renderOptions) { ro.partials = r }
}

// WithBudget bounds the transient staging buffers a render allocates
// (escaped fragments, lambda expansions, partial indent prefixes), not
// the total bytes written to the sink.
func WithBudget(b *Budget) RenderOption {
	return func(ro *renderOptions) { ro.budget = b }
}

// WithMaxDepth caps partial/lambda re-entrancy depth, guarding against
// a partial or lambda that (directly or indirectly) includes itself.
func WithMaxDepth(n int) RenderOption {
	return func(ro *renderOptions) { ro.maxDepth = n }
}

// Render is a stack-based walk of the parsed element sequence that
// streams output to w against the given root context Value.
func (t *Template) Render(w io.Writer, data Value, opts ...RenderOption) error {
	ro := defaultRenderOptions()
	for _, o := range opts {
		o(ro)
	}
	rs := &renderState{opts: ro, stack: getContextStack(data)}
	defer putContextStack(rs.stack)
	return rs.renderElements(w, t.elements, t.srcDelims)
}

// RenderString renders to a pooled strings.Builder and returns the
// result.
func (t *Template) RenderString(data Value, opts ...RenderOption) (string, error) {
	sb := getStringBuilder()
	defer putStringBuilder(sb)
	if err := t.Render(sb, data, opts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// renderState is the mutable state threaded through one Render call:
// the live context stack, the render options, the current re-entrancy
// depth (partials and lambda expansions) and the index of the element
// currently being rendered, used to annotate RenderError.
type renderState struct {
	opts    *renderOptions
	stack   *contextStack
	depth   int
	elemIdx int
}

// write flushes p straight to w. It never charges the budget: p is
// handed to the caller's sink and is not memory this renderer holds
// onto, whether that sink streams out immediately or accumulates the
// bytes itself (as RenderString's builder does) is the caller's
// business, not this package's to bound.
func (rs *renderState) write(w io.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := w.Write(p); err != nil {
		return newRenderError(SinkWriteFailed, rs.elemIdx, err, "sink write failed")
	}
	return nil
}

// stageBudget reserves n bytes for a transient buffer the renderer
// builds and holds before flushing it (an escaped fragment, a lambda's
// expansion, a partial's indent prefix). Call unstageBudget once that
// buffer has been written or discarded.
func (rs *renderState) stageBudget(n int) error {
	if rs.opts.budget != nil && !rs.opts.budget.reserve(n) {
		return newRenderError(OutOfBudget, rs.elemIdx, nil, "budget exceeded staging %d bytes", n)
	}
	return nil
}

func (rs *renderState) unstageBudget(n int) {
	if rs.opts.budget != nil {
		rs.opts.budget.release(n)
	}
}

func (rs *renderState) renderElements(w io.Writer, elems []Element, delims Delimiters) error {
	for i, el := range elems {
		rs.elemIdx = i
		if err := rs.renderElement(w, el, delims); err != nil {
			return err
		}
	}
	return nil
}

func (rs *renderState) renderElement(w io.Writer, el Element, delims Delimiters) error {
	switch e := el.(type) {
	case StaticText:
		return rs.write(w, e.Bytes)
	case Interpolation:
		return rs.renderInterpolation(w, e, delims)
	case Section:
		return rs.renderSection(w, e, delims)
	case Partial:
		return rs.renderPartial(w, e)
	case ParentBlock:
		return newRenderError(FeatureUnsupported, rs.elemIdx, nil, "template inheritance (<%s>) is not supported", e.Name)
	case InheritanceBlock:
		return newRenderError(FeatureUnsupported, rs.elemIdx, nil, "template inheritance ($%s) is not supported", e.Name)
	case SetDelimiters:
		return nil
	default:
		return newRenderError(FeatureUnsupported, rs.elemIdx, nil, "unrecognized element %T", el)
	}
}

func (rs *renderState) renderInterpolation(w io.Writer, e Interpolation, delims Delimiters) error {
	v, ok := resolvePath(rs.stack, e.Path)
	if !ok {
		return nil
	}
	if lam, isLambda := lambdaOf(v); isLambda {
		out, err := rs.expandLambda(lam, nil, delims)
		if err != nil {
			return nil
		}
		rs.unstageBudget(len(out))
		if e.Escape == Escaped {
			out = []byte(escapeHTML(string(out)))
		}
		if err := rs.stageBudget(len(out)); err != nil {
			return err
		}
		defer rs.unstageBudget(len(out))
		return rs.write(w, out)
	}
	s := valueToString(v)
	if e.Escape == Escaped {
		s = escapeHTML(s)
	}
	buf := []byte(s)
	if err := rs.stageBudget(len(buf)); err != nil {
		return err
	}
	defer rs.unstageBudget(len(buf))
	return rs.write(w, buf)
}

func (rs *renderState) renderSection(w io.Writer, e Section, delims Delimiters) error {
	v, ok := resolvePath(rs.stack, e.Path)
	if !ok {
		v = invalidValue{}
	}

	if !e.Inverted {
		if lam, isLambda := lambdaOf(v); isLambda {
			out, err := rs.expandLambda(lam, e.InnerSource, e.Delims)
			if err != nil {
				return nil
			}
			defer rs.unstageBudget(len(out))
			return rs.write(w, out)
		}
	}

	truthy := v.Truthy()
	if e.Inverted {
		if truthy {
			return nil
		}
		return rs.renderElements(w, e.Children, e.Delims)
	}
	if !truthy {
		return nil
	}

	switch v.Kind() {
	case KindSequence, KindTuple:
		n := v.Len()
		for i := 0; i < n; i++ {
			rs.stack.push(v.Index(i))
			err := rs.renderElements(w, e.Children, e.Delims)
			rs.stack.pop()
			if err != nil {
				return err
			}
		}
		return nil
	case KindOptional:
		inner, ok := v.Unwrap()
		if !ok {
			return nil
		}
		rs.stack.push(inner)
		err := rs.renderElements(w, e.Children, e.Delims)
		rs.stack.pop()
		return err
	default:
		rs.stack.push(v)
		err := rs.renderElements(w, e.Children, e.Delims)
		rs.stack.pop()
		return err
	}
}

func (rs *renderState) renderPartial(w io.Writer, e Partial) error {
	if rs.opts.partials == nil {
		return nil
	}
	t, ok := rs.opts.partials.Partial(e.Name)
	if !ok {
		return nil
	}
	if rs.depth >= rs.opts.maxDepth {
		return newRenderError(FeatureUnsupported, rs.elemIdx, nil, "partial %q recursion exceeds max depth", e.Name)
	}

	dst := w
	if len(e.Indent) > 0 {
		if err := rs.stageBudget(len(e.Indent)); err != nil {
			return err
		}
		defer rs.unstageBudget(len(e.Indent))
		dst = &indentWriter{w: w, indent: e.Indent, atStart: true}
	}
	rs.depth++
	err := rs.renderElements(dst, t.elements, t.srcDelims)
	rs.depth--
	return err
}

// expandLambda calls the lambda, re-parses its returned bytes against
// the delimiters active where the tag was written, and renders the
// result against the live context stack. Errors from the lambda
// itself or from the re-parse propagate to the caller, which swallows
// them into empty output. The returned fragment is already reserved
// against the budget; the caller releases it once written.
func (rs *renderState) expandLambda(lam Lambda, section []byte, delims Delimiters) ([]byte, error) {
	if rs.depth >= rs.opts.maxDepth {
		return nil, newRenderError(FeatureUnsupported, rs.elemIdx, nil, "lambda expansion exceeds max depth")
	}
	out, err := lam(section)
	if err != nil {
		return nil, err
	}
	tmpl, err := Parse(out, WithDelimiters(string(delims.Open), string(delims.Close)))
	if err != nil {
		return nil, err
	}
	buf := getStringBuilder()
	defer putStringBuilder(buf)
	rs.depth++
	err = rs.renderElements(buf, tmpl.elements, delims)
	rs.depth--
	if err != nil {
		return nil, err
	}
	fragment := []byte(buf.String())
	if err := rs.stageBudget(len(fragment)); err != nil {
		return nil, err
	}
	return fragment, nil
}

func lambdaOf(v Value) (Lambda, bool) {
	if v.Kind() != KindLambda {
		return nil, false
	}
	return v.Lambda()
}

func valueToString(v Value) string {
	switch v.Kind() {
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.Integer(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KindString, KindEnum:
		return v.String()
	case KindOptional:
		inner, ok := v.Unwrap()
		if !ok {
			return ""
		}
		return valueToString(inner)
	default:
		return ""
	}
}

// indentWriter prefixes every output line with indent, used to lay out
// a standalone partial tag's indentation over every line the included
// template produces.
type indentWriter struct {
	w       io.Writer
	indent  []byte
	atStart bool
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if iw.atStart {
			if _, err := iw.w.Write(iw.indent); err != nil {
				return total, err
			}
			iw.atStart = false
		}
		nl := bytes.IndexByte(p, '\n')
		if nl == -1 {
			n, err := iw.w.Write(p)
			total += n
			return total, err
		}
		n, err := iw.w.Write(p[:nl+1])
		total += n
		if err != nil {
			return total, err
		}
		iw.atStart = true
		p = p[nl+1:]
	}
	return total, nil
}
