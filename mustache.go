package mustache

import (
	"os"
)

// compileOptions collects the Option values passed to Parse/ParseFile.
type compileOptions struct {
	delims Delimiters
	name   string
}

// Option configures a Parse call.
type Option func(*compileOptions)

func defaultOptions() *compileOptions {
	return &compileOptions{delims: DefaultDelimiters()}
}

// WithDelimiters sets the delimiter pair the template starts scanning
// with, before any {{=...=}} tag changes it.
func WithDelimiters(open, close string) Option {
	return func(co *compileOptions) {
		co.delims = Delimiters{Open: []byte(open), Close: []byte(close)}
	}
}

// WithName attaches a name to the compiled Template, retrievable via
// Template.Name. ParseFile sets it to the source path when the caller
// hasn't already supplied one.
func WithName(name string) Option {
	return func(co *compileOptions) { co.name = name }
}

// PartialsResolver looks up a named partial template at render time.
// A missing partial is not an error: Partial elements render as empty
// when the resolver returns false.
type PartialsResolver interface {
	Partial(name string) (*Template, bool)
}

// PartialsMap is the simplest PartialsResolver: a fixed name-to-template
// table built ahead of time.
type PartialsMap map[string]*Template

func (m PartialsMap) Partial(name string) (*Template, bool) {
	t, ok := m[name]
	return t, ok
}

// ParseFile reads and parses the template at path.
func ParseFile(path string, opts ...Option) (*Template, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, ok := hasName(opts); !ok {
		opts = append(opts, WithName(path))
	}
	return Parse(src, opts...)
}

func hasName(opts []Option) (string, bool) {
	co := &compileOptions{}
	for _, o := range opts {
		o(co)
	}
	return co.name, co.name != ""
}
