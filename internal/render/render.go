// Package render turns post contents into HTML with highlighted code blocks.
package render

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/blogfront/internal/cache"
	"github.com/debemdeboas/blogfront/internal/theme"
	"github.com/debemdeboas/blogfront/internal/util"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"
)

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// HighlightCode formats code with chroma classes. The input is returned
// escaped as is when the language cannot be tokenised.
func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + template.HTMLEscapeString(code) + "</pre>"
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, styles.Get(highlightTheme), iterator); err != nil {
		return "<pre>" + template.HTMLEscapeString(code) + "</pre>"
	}
	return buf.String()
}

func newParser() *parser.Parser {
	return parser.NewWithExtensions(
		parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock,
	)
}

func newRenderer(highlightTheme string) *md_html.Renderer {
	opts := md_html.RendererOptions{
		// Contents come from any registered user, so raw HTML is dropped and
		// only safe link schemes are kept.
		Flags: md_html.CommonFlags | md_html.SkipHTML | md_html.Safelink |
			md_html.NofollowLinks | md_html.NoreferrerLinks | md_html.HrefTargetBlank,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = strings.TrimSpace(string(info))
				}
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang, highlightTheme))
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}
	return md_html.NewRenderer(opts)
}

// RenderMarkdown renders without consulting the cache.
func RenderMarkdown(contents, highlightTheme string) template.HTML {
	md := markdown.NormalizeNewlines([]byte(contents))
	return template.HTML(markdown.ToHTML(md, newParser(), newRenderer(highlightTheme)))
}

// RenderContents renders post contents, cached by content hash and syntax
// theme.
func RenderContents(contents, highlightTheme string) template.HTML {
	contentHash := util.ContentHashString(contents)
	return cache.RenderedContents(contentHash, highlightTheme, func() template.HTML {
		renderLogger.Debug().Str("contentHash", contentHash).Str("highlightTheme", highlightTheme).Msg("Cache miss for rendered contents")
		return RenderMarkdown(contents, highlightTheme)
	})
}

var (
	reFence    = regexp.MustCompile("(?m)^```.*$")
	reImage    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reLeading  = regexp.MustCompile(`(?m)^\s{0,3}(#{1,6}\s+|>\s?|[-*+]\s+|\d+\.\s+)`)
	reEmphasis = regexp.MustCompile("[*_`~]+")
	reSpace    = regexp.MustCompile(`\s+`)
)

// Excerpt returns up to n characters of contents as plain text, cut on a
// word boundary.
func Excerpt(contents string, n int) string {
	s := reFence.ReplaceAllString(contents, "")
	s = reImage.ReplaceAllString(s, "$1")
	s = reLink.ReplaceAllString(s, "$1")
	s = reLeading.ReplaceAllString(s, "")
	s = reEmphasis.ReplaceAllString(s, "")
	s = strings.TrimSpace(reSpace.ReplaceAllString(s, " "))

	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:n])
	if runes[n] != ' ' {
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
