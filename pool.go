package mustache

import (
	"strings"
	"sync"
)

// Scratch buffer pools backing the renderer's hot path. The
// bounded-memory contract leans on reuse, not on avoiding allocation
// altogether.

var stringBuilderPool = sync.Pool{
	New: func() any { return new(strings.Builder) },
}

func getStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

func putStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

var contextStackPool = sync.Pool{
	New: func() any { return &contextStack{frames: make([]Value, 0, 8)} },
}

func getContextStack(root Value) *contextStack {
	cs := contextStackPool.Get().(*contextStack)
	cs.frames = append(cs.frames[:0], root)
	return cs
}

func putContextStack(cs *contextStack) {
	contextStackPool.Put(cs)
}
