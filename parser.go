package mustache

import "bytes"

// closeMatch carries what the parser needs from a matched {{/name}}
// tag back up to the frame that opened the section/block.
type closeMatch struct {
	path     []string
	tagStart int // raw offset of the close tag's opening delimiter
}

// parseUntil consumes the scanner/classifier's output starting at pos
// and builds an element sequence, recursing into itself for sections,
// inverted sections and inheritance blocks. When inSection is true it
// returns as soon as it finds a matching closing tag rather than
// erroring at EOF.
func parseUntil(src []byte, pos int, delims Delimiters, inSection bool) (elems []Element, endPos int, outDelims Delimiters, close *closeMatch, err error) {
	for pos < len(src) {
		idx := bytes.Index(src[pos:], delims.Open)
		if idx == -1 {
			if inSection {
				return nil, 0, delims, nil, newParseError(UnclosedSection, pos, "template ends before a matching closing tag")
			}
			if pos < len(src) {
				elems = append(elems, StaticText{Bytes: append([]byte(nil), src[pos:]...)})
			}
			return elems, len(src), delims, nil, nil
		}

		tagStart := pos + idx
		tb, terr := readTagBody(src, tagStart, delims)
		if terr != nil {
			return nil, 0, delims, nil, terr
		}

		ls := lineStart(src, tagStart)
		le := lineEnd(src, tb.end)
		prefix := src[ls:tagStart]
		suffix := src[tb.end:le]
		standalone := standaloneCapable(tb.sigil) && isBlankRun(prefix) && isBlankRun(suffix)

		var textBefore, indent []byte
		var nextPos int
		if standalone {
			if ls > pos {
				textBefore = src[pos:ls]
			}
			indent = append([]byte(nil), prefix...)
			nextPos = le
			if nextPos < len(src) {
				nextPos++ // consume the line's terminating newline
			}
		} else {
			textBefore = src[pos:tagStart]
			nextPos = tb.end
		}
		if len(textBefore) > 0 {
			elems = append(elems, StaticText{Bytes: append([]byte(nil), textBefore...)})
		}

		if tb.sigil == '=' {
			delims = tb.newDelims
			pos = nextPos
			continue
		}

		tag, cerr := classify(tb)
		if cerr != nil {
			return nil, 0, delims, nil, cerr
		}

		switch tag.kind {
		case kindComment:
			pos = nextPos

		case kindInterpolation:
			elems = append(elems, Interpolation{Path: tag.path, Escape: tag.escape})
			pos = nextPos

		case kindPartial:
			elems = append(elems, Partial{Name: tag.name, Indent: indent})
			pos = nextPos

		case kindSectionOpen, kindInvertedOpen:
			openRawEnd := tb.end
			children, afterPos, delimsAfter, cm, serr := parseUntil(src, nextPos, delims, true)
			if serr != nil {
				return nil, 0, delims, nil, serr
			}
			if cm == nil {
				return nil, 0, delims, nil, newParseError(UnclosedSection, tagStart, "section %q is never closed", pathString(tag.path))
			}
			if pathString(cm.path) != pathString(tag.path) {
				return nil, 0, delims, nil, newParseError(MismatchedSection, cm.tagStart, "expected {{/%s}}, got {{/%s}}", pathString(tag.path), pathString(cm.path))
			}
			sec := Section{
				Path:        tag.path,
				Inverted:    tag.kind == kindInvertedOpen,
				InnerSource: append([]byte(nil), src[openRawEnd:cm.tagStart]...),
				Children:    children,
				Delims:      delims.clone(),
			}
			elems = append(elems, sec)
			pos = afterPos
			delims = delimsAfter

		case kindSectionClose:
			if !inSection {
				return nil, 0, delims, nil, newParseError(MismatchedSection, tagStart, "unexpected closing tag {{/%s}}", pathString(tag.path))
			}
			return elems, nextPos, delims, &closeMatch{path: tag.path, tagStart: tagStart}, nil

		case kindParentOpen, kindBlockOpen:
			openName := []string{tag.name}
			children, afterPos, delimsAfter, cm, serr := parseUntil(src, nextPos, delims, true)
			if serr != nil {
				return nil, 0, delims, nil, serr
			}
			if cm == nil {
				return nil, 0, delims, nil, newParseError(UnclosedSection, tagStart, "block %q is never closed", tag.name)
			}
			if pathString(cm.path) != pathString(openName) {
				return nil, 0, delims, nil, newParseError(MismatchedSection, cm.tagStart, "expected {{/%s}}, got {{/%s}}", tag.name, pathString(cm.path))
			}
			if tag.kind == kindParentOpen {
				elems = append(elems, ParentBlock{Name: tag.name, Indent: indent, Children: children, Delims: delims.clone()})
			} else {
				elems = append(elems, InheritanceBlock{Name: tag.name, Children: children, Delims: delims.clone()})
			}
			pos = afterPos
			delims = delimsAfter
		}
	}

	if inSection {
		return nil, 0, delims, nil, newParseError(UnclosedSection, pos, "template ends before a matching closing tag")
	}
	return elems, pos, delims, nil, nil
}

// Parse compiles template source bytes into an immutable Template
// using the given starting delimiters.
func Parse(src []byte, opts ...Option) (*Template, error) {
	co := defaultOptions()
	for _, o := range opts {
		o(co)
	}
	elems, _, _, _, err := parseUntil(src, 0, co.delims, false)
	if err != nil {
		return nil, err
	}
	return &Template{elements: elems, name: co.name, srcDelims: co.delims}, nil
}

// ParseString is a convenience wrapper over Parse for string sources.
func ParseString(src string, opts ...Option) (*Template, error) {
	return Parse([]byte(src), opts...)
}
