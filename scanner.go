package mustache

import "bytes"

// tagBody is what the scanner hands to the classifier: the
// sigil byte that introduced the tag (0 for a plain interpolation),
// the trimmed bytes between the sigil and the closing delimiter, and
// the raw byte offsets of the tag's opening and closing markers in the
// source.
type tagBody struct {
	sigil      byte
	inner      []byte
	start      int // offset of the tag's opening delimiter
	end        int // offset just past the tag's closing delimiter
	newDelims  Delimiters
	hasNewDelims bool
}

const standaloneSigils = "#^/!><=$"

func standaloneCapable(sigil byte) bool {
	return sigil != 0 && bytes.IndexByte([]byte(standaloneSigils), sigil) >= 0
}

// readTagBody scans a single tag starting at tagStart (the offset of
// the active open delimiter) and returns its sigil, inner bytes and
// end offset. It resolves triple-mustache ({{{ ... }}}, only
// recognized while the active delimiters are still the default {{ / }}
// pair, per the public Mustache spec) and set-delimiter bodies
// ({{= open close =}}).
func readTagBody(src []byte, tagStart int, delims Delimiters) (tagBody, error) {
	p := tagStart + len(delims.Open)
	if p > len(src) {
		return tagBody{}, newParseError(UnclosedTag, tagStart, "template ends inside a tag")
	}

	if delims.equal(DefaultDelimiters()) && p < len(src) && src[p] == '{' {
		contentStart := p + 1
		rel := bytes.Index(src[contentStart:], []byte("}}}"))
		if rel == -1 {
			return tagBody{}, newParseError(UnclosedTag, tagStart, "unterminated triple-mustache tag")
		}
		inner := bytes.TrimSpace(src[contentStart : contentStart+rel])
		return tagBody{sigil: '{', inner: inner, start: tagStart, end: contentStart + rel + 3}, nil
	}

	var sigil byte
	contentStart := p
	if p < len(src) && bytes.IndexByte([]byte("&#^/>$<!="), src[p]) >= 0 {
		sigil = src[p]
		contentStart = p + 1
	}

	if sigil == '=' {
		needle := append([]byte{'='}, delims.Close...)
		rel := bytes.Index(src[contentStart:], needle)
		if rel == -1 {
			return tagBody{}, newParseError(UnclosedTag, tagStart, "unterminated set-delimiter tag")
		}
		body := bytes.TrimSpace(src[contentStart : contentStart+rel])
		end := contentStart + rel + len(needle)
		fields := bytes.Fields(body)
		if len(fields) != 2 {
			return tagBody{}, newParseError(InvalidDelimiters, tagStart, "expected 'open close', got %q", body)
		}
		nd := Delimiters{Open: append([]byte(nil), fields[0]...), Close: append([]byte(nil), fields[1]...)}
		if !nd.valid() {
			return tagBody{}, newParseError(InvalidDelimiters, tagStart, "invalid delimiter pair %q", body)
		}
		return tagBody{sigil: '=', inner: body, start: tagStart, end: end, newDelims: nd, hasNewDelims: true}, nil
	}

	rel := bytes.Index(src[contentStart:], delims.Close)
	if rel == -1 {
		return tagBody{}, newParseError(UnclosedTag, tagStart, "unterminated tag")
	}
	inner := bytes.TrimSpace(src[contentStart : contentStart+rel])
	return tagBody{sigil: sigil, inner: inner, start: tagStart, end: contentStart + rel + len(delims.Close)}, nil
}

// lineStart returns the offset just past the last newline before pos,
// or 0 if pos is on the template's first line.
func lineStart(src []byte, pos int) int {
	idx := bytes.LastIndexByte(src[:pos], '\n')
	if idx == -1 {
		return 0
	}
	return idx + 1
}

// lineEnd returns the offset of the next newline at or after pos, or
// len(src) if the template ends before one is found.
func lineEnd(src []byte, pos int) int {
	idx := bytes.IndexByte(src[pos:], '\n')
	if idx == -1 {
		return len(src)
	}
	return pos + idx
}

func isBlankRun(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
