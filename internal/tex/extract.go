package tex

import (
	"errors"
	"strings"
)

// Document markers. Extraction is first-match and not brace-aware: nested
// or repeated markers beyond the first pair are not specially handled.
const (
	markerPreamble  = `\documentclass`
	markerBodyOpen  = `\begin{document}`
	markerBodyClose = `\end{document}`
)

// ErrMalformedDocument is returned when the model output does not contain
// a complete \documentclass ... \begin{document} ... \end{document} span.
var ErrMalformedDocument = errors.New("malformed document: missing LaTeX delimiters")

// Extract isolates the LaTeX document embedded in raw model output.
//
// It locates the first \documentclass, the first \begin{document} after it
// and the first \end{document} after that, and returns the exact span from
// preamble marker through close marker inclusive. Everything between the
// markers (package declarations, body content) is preserved verbatim.
// Surrounding prose, code fences and other noise are discarded.
//
// Extract never returns partial content: if any marker is absent the
// result is ErrMalformedDocument.
func Extract(raw string) (string, error) {
	start := strings.Index(raw, markerPreamble)
	if start < 0 {
		return "", ErrMalformedDocument
	}

	bodyOpen := strings.Index(raw[start:], markerBodyOpen)
	if bodyOpen < 0 {
		return "", ErrMalformedDocument
	}
	bodyOpen += start

	bodyClose := strings.Index(raw[bodyOpen:], markerBodyClose)
	if bodyClose < 0 {
		return "", ErrMalformedDocument
	}
	bodyClose += bodyOpen

	return raw[start : bodyClose+len(markerBodyClose)], nil
}
