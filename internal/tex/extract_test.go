package tex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `\documentclass{article}
\usepackage[utf8]{inputenc}
\begin{document}
\section{Step 1}
Do the thing.
\end{document}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "surrounded by prose and fences",
			raw:  "Sure! Here is your document:\n```latex\n" + wellFormed + "\n```\nLet me know if you need changes.",
			want: wellFormed,
		},
		{
			name: "exact document",
			raw:  wellFormed,
			want: wellFormed,
		},
		{
			name: "preamble preserved verbatim",
			raw:  "noise \\documentclass[12pt]{report}\n\\usepackage{graphicx}\n\\begin{document}x\\end{document} trailing",
			want: "\\documentclass[12pt]{report}\n\\usepackage{graphicx}\n\\begin{document}x\\end{document}",
		},
		{
			name: "first match wins on repeated markers",
			raw:  `\documentclass{a}\begin{document}one\end{document}\documentclass{b}\begin{document}two\end{document}`,
			want: `\documentclass{a}\begin{document}one\end{document}`,
		},
		{
			name:    "missing preamble",
			raw:     `\begin{document}body\end{document}`,
			wantErr: true,
		},
		{
			name:    "missing body open",
			raw:     `\documentclass{article} body \end{document}`,
			wantErr: true,
		},
		{
			name:    "missing body close",
			raw:     `\documentclass{article}\begin{document} body`,
			wantErr: true,
		},
		{
			name:    "close before open is not matched",
			raw:     `\end{document}\documentclass{a}\begin{document}body`,
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDocument)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	first, err := Extract("prefix " + wellFormed + " suffix")
	require.NoError(t, err)

	second, err := Extract(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
