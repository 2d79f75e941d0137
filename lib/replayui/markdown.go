// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParser is initialized once and shared; goldmark parsers are
// safe for concurrent Parse calls.
var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParser
}

// renderMarkdown renders assistant message text as styled terminal
// output at the given width. Soft line breaks become spaces so
// hard-wrapped source reflows; fenced code blocks are highlighted
// with Chroma. The subset handled here is what shows up in agent
// transcripts — paragraphs, headings, lists, block quotes, code —
// with everything else degrading to its plain text.
func renderMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output is always for a
	// bubbletea screen, and auto-detection yields uncolored output
	// under tests with no TTY.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)

	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST with accumulate-then-wrap
// semantics: inline content collects in a buffer and is word-wrapped
// as a unit when its block closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder
	inline strings.Builder

	// Prefix for continuation lines inside blockquotes and list items.
	linePrefix string
	// Pending bullet replaces the prefix for the next emitted line.
	pendingBullet string

	boldCount   int
	italicCount int

	listStack []listState

	lipRenderer *lipgloss.Renderer
}

type listState struct {
	ordered bool
	counter int
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) currentWidth() int {
	width := renderer.width - len(renderer.linePrefix)
	if width < 10 {
		width = 10
	}
	return width
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.AssistantText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

// emitBlock word-wraps content, applies line prefixes, and writes it
// followed by a blank line.
func (renderer *markdownRenderer) emitBlock(content string) {
	if content == "" {
		return
	}
	wrapped := ansi.Wrap(content, renderer.currentWidth(), " ,.;-+|")
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			renderer.output.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			renderer.output.WriteString(renderer.linePrefix)
		}
		renderer.output.WriteString(line)
		renderer.output.WriteString("\n")
	}
	if len(renderer.listStack) == 0 {
		renderer.output.WriteString("\n")
	}
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.emitBlock(renderer.inline.String())
			renderer.inline.Reset()
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
		} else {
			content := ansi.Strip(renderer.inline.String())
			renderer.inline.Reset()
			if content != "" {
				style := renderer.newStyle().Bold(true).
					Foreground(renderer.theme.HeaderForeground)
				renderer.emitBlock(style.Render(content))
			}
		}

	case ast.KindFencedCodeBlock:
		if entering {
			renderer.renderFencedCode(node.(*ast.FencedCodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			renderer.renderPlainCode(node.(*ast.CodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			renderer.linePrefix += "│ "
		} else {
			renderer.linePrefix = strings.TrimSuffix(renderer.linePrefix, "│ ")
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			start := 0
			if list.IsOrdered() {
				start = list.Start
			}
			renderer.listStack = append(renderer.listStack, listState{
				ordered: list.IsOrdered(),
				counter: start,
			})
		} else {
			renderer.listStack = renderer.listStack[:len(renderer.listStack)-1]
			if len(renderer.listStack) == 0 {
				renderer.output.WriteString("\n")
			}
		}

	case ast.KindListItem:
		if entering {
			renderer.enterListItem()
		} else {
			renderer.linePrefix = strings.TrimSuffix(renderer.linePrefix, "  ")
		}

	case ast.KindThematicBreak:
		if entering {
			rule := renderer.newStyle().Foreground(renderer.theme.BorderColor).
				Render(strings.Repeat("─", renderer.currentWidth()))
			renderer.emitBlock(rule)
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			renderer.inline.WriteString(renderer.styledText(string(textNode.Segment.Value(renderer.source))))
			if textNode.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			renderer.boldCount += delta
		} else {
			renderer.italicCount += delta
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			style := renderer.newStyle().Foreground(renderer.theme.ToolText)
			renderer.inline.WriteString(style.Render(code.String()))
		}

	case ast.KindLink:
		// Link text flows through the Text children; the URL is
		// appended when the link closes.
		if !entering {
			if url := string(node.(*ast.Link).Destination); url != "" {
				faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
				renderer.inline.WriteString(" " + faint.Render("("+url+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
			renderer.inline.WriteString(faint.Render(url))
		}
	}

	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) enterListItem() {
	if len(renderer.listStack) == 0 {
		return
	}
	top := &renderer.listStack[len(renderer.listStack)-1]
	bullet := "- "
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	}
	renderer.pendingBullet = renderer.linePrefix + bullet
	renderer.linePrefix += "  "
}

// renderFencedCode highlights a fenced code block with Chroma. An
// unknown or missing language degrades to faint plain text.
func (renderer *markdownRenderer) renderFencedCode(node *ast.FencedCodeBlock) {
	language := string(node.Language(renderer.source))
	code := renderer.collectLines(node.Lines())

	var highlighted string
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err == nil {
			highlighted = buffer.String()
		}
	}
	if highlighted == "" {
		highlighted = renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}

	renderer.writeCodeLines(highlighted)
}

func (renderer *markdownRenderer) renderPlainCode(node *ast.CodeBlock) {
	code := renderer.collectLines(node.Lines())
	renderer.writeCodeLines(renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code))
}

func (renderer *markdownRenderer) collectLines(lines *text.Segments) string {
	var out strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		out.Write(segment.Value(renderer.source))
	}
	return out.String()
}

// writeCodeLines emits code verbatim, prefixed but never wrapped —
// wrapping code destroys it.
func (renderer *markdownRenderer) writeCodeLines(code string) {
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		renderer.output.WriteString(renderer.linePrefix)
		renderer.output.WriteString(line)
		renderer.output.WriteString("\n")
	}
	if len(renderer.listStack) == 0 {
		renderer.output.WriteString("\n")
	}
}
