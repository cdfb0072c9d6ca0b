// Package notes normalizes the free-text notes blocks embedded in DSL
// source. Inline HTML markup inside a fenced notes region is rewritten
// into its lightweight-markup equivalent; everything outside the fences
// is left byte-for-byte unchanged. The transform is idempotent.
package notes

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/antimonylang/antimony-ls/internal/diag"
	"github.com/antimonylang/antimony-ls/internal/token"
)

const fence = "```"

// wrappers maps inline HTML tag names to the markup that replaces both
// the opening and the closing tag. The table is data: swapping it changes
// the target markup without touching the scanning logic.
var wrappers = map[string]string{
	"b":      "**",
	"strong": "**",
	"i":      "*",
	"em":     "*",
	"code":   "`",
	"tt":     "`",
	"del":    "~~",
	"s":      "~~",
	"strike": "~~",
}

// block is one notes region located in the raw text. contentStart and
// contentEnd delimit the bytes between the fences; end is the offset just
// past the closing fence.
type block struct {
	openFence    int
	contentStart int
	contentEnd   int
	end          int
	unterminated bool
}

// Normalize rewrites the markup inside every well-formed notes block of
// text and returns the result. Unterminated fences are left untouched
// and reported with a hint diagnostic; nothing here is a hard error.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) (string, []diag.Diagnostic) {
	blocks := scan(text)
	if len(blocks) == 0 {
		return text, nil
	}

	var diagnostics []diag.Diagnostic
	var index *token.LineIndex

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, blk := range blocks {
		if blk.unterminated {
			if index == nil {
				index = token.NewLineIndex(text)
			}
			start := index.PositionFor(blk.openFence)
			end := index.PositionFor(blk.openFence + len(fence))
			diagnostics = append(diagnostics, diag.New(diag.CodeMalformedNotesBlock,
				token.Range{Start: start, End: end},
				"notes block is missing its closing fence"))
			continue
		}
		b.WriteString(text[last:blk.contentStart])
		b.WriteString(normalizeMarkup(text[blk.contentStart:blk.contentEnd]))
		b.WriteString(text[blk.contentEnd:blk.end])
		last = blk.end
	}
	b.WriteString(text[last:])
	return b.String(), diagnostics
}

// scan locates notes blocks: the `notes` keyword, optional whitespace, an
// opening fence, and the matching closing fence.
func scan(text string) []block {
	var blocks []block
	offset := 0
	for {
		rel := strings.Index(text[offset:], "notes")
		if rel < 0 {
			return blocks
		}
		kw := offset + rel
		offset = kw + len("notes")
		if !isWordBoundary(text, kw, len("notes")) {
			continue
		}

		i := offset
		for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
			i++
		}
		if !strings.HasPrefix(text[i:], fence) {
			continue
		}
		open := i
		contentStart := open + len(fence)
		close := strings.Index(text[contentStart:], fence)
		if close < 0 {
			blocks = append(blocks, block{openFence: open, unterminated: true})
			offset = len(text)
			return blocks
		}
		contentEnd := contentStart + close
		blocks = append(blocks, block{
			openFence:    open,
			contentStart: contentStart,
			contentEnd:   contentEnd,
			end:          contentEnd + len(fence),
		})
		offset = contentEnd + len(fence)
	}
}

// isWordBoundary reports whether text[at:at+n] is delimited by
// non-identifier characters on both sides.
func isWordBoundary(text string, at, n int) bool {
	if at > 0 {
		prev := text[at-1]
		if prev == '_' || isAlnum(prev) {
			return false
		}
	}
	if at+n < len(text) {
		next := text[at+n]
		if next == '_' || isAlnum(next) {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// normalizeMarkup replaces mapped inline tags in one block's content.
// Unmapped tags and plain text pass through as their raw bytes, so the
// conversion never disturbs content it does not understand.
func normalizeMarkup(content string) string {
	if !strings.ContainsRune(content, '<') {
		return content
	}
	z := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	b.Grow(len(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// Tokenizer gave up; keep whatever it buffered verbatim.
				b.Write(z.Raw())
			}
			return b.String()
		}
		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if repl, ok := wrappers[string(name)]; ok {
				b.WriteString(repl)
				continue
			}
			if string(name) == "br" {
				b.WriteString("\n")
				continue
			}
			b.Write(z.Raw())
		default:
			b.Write(z.Raw())
		}
	}
}
