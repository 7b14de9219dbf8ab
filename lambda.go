package mustache

// StaticLambda wraps a fixed replacement string as a Lambda that
// ignores its section argument, useful for interpolation-only lambdas
// registered directly on a hand-built Value.
func StaticLambda(replacement string) Lambda {
	return func([]byte) ([]byte, error) {
		return []byte(replacement), nil
	}
}

// TextLambda adapts a function that takes the section's raw source as
// a string and returns replacement template text as a string, the
// shape most callers reach for instead of dealing in []byte directly.
func TextLambda(fn func(section string) (string, error)) Lambda {
	return func(section []byte) ([]byte, error) {
		out, err := fn(string(section))
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
}
