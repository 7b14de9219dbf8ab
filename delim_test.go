package mustache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDelimiters(t *testing.T) {
	d := DefaultDelimiters()
	assert.Equal(t, "{{", string(d.Open))
	assert.Equal(t, "}}", string(d.Close))
	assert.True(t, d.valid())
}

func TestDelimitersValid(t *testing.T) {
	cases := []struct {
		name string
		d    Delimiters
		want bool
	}{
		{"default", Delimiters{Open: []byte("{{"), Close: []byte("}}")}, true},
		{"custom", Delimiters{Open: []byte("<%"), Close: []byte("%>")}, true},
		{"empty open", Delimiters{Open: nil, Close: []byte("}}")}, false},
		{"whitespace", Delimiters{Open: []byte("{ {"), Close: []byte("}}")}, false},
		{"equals sign", Delimiters{Open: []byte("{="), Close: []byte("}}")}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.d.valid())
		})
	}
}

func TestDelimitersEqualAndClone(t *testing.T) {
	a := Delimiters{Open: []byte("{{"), Close: []byte("}}")}
	b := a.clone()
	require.True(t, a.equal(b))
	b.Open[0] = '['
	assert.False(t, a.equal(b), "clone must not alias the original's backing array")
}
