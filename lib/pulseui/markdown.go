// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

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
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/pulse/lib/tui"
)

// wrapBreakpoints are the characters ansi.Wrap may break after in
// addition to spaces.
const wrapBreakpoints = " ,.;-+|"

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func sharedMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		))
	})
	return markdownParser
}

// renderMarkdown renders a post or comment body for the terminal at
// the given width. Soft line breaks reflow into spaces; fenced code is
// highlighted with chroma.
func renderMarkdown(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := sharedMarkdown().Parser().Parse(text.NewReader(source))

	// Force ANSI256: output always goes to the TUI, and auto-detection
	// strips color when there is no TTY (tests, pipes).
	renderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)

	walker := &bodyRenderer{
		source:   source,
		theme:    theme,
		width:    width,
		renderer: renderer,
	}
	// The walk callback never returns an error.
	_ = ast.Walk(document, walker.visit)
	return strings.TrimRight(walker.output.String(), "\n")
}

// bodyRenderer accumulates inline content per block and word-wraps it
// when the block closes. Blockquotes and list items push line
// prefixes.
type bodyRenderer struct {
	source   []byte
	theme    tui.Theme
	width    int
	renderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	prefixes []string
	// bullet replaces the prefix on the first line of a list item.
	bullet string

	bold, italic, struck int

	lists []listLevel

	// trailing counts newlines at the end of output.
	trailing int
}

type listLevel struct {
	ordered bool
	next    int
	tight   bool
}

func (walker *bodyRenderer) style() lipgloss.Style {
	return walker.renderer.NewStyle()
}

func (walker *bodyRenderer) prefix() string {
	return strings.Join(walker.prefixes, "")
}

func (walker *bodyRenderer) wrapWidth() int {
	return max(walker.width-ansi.StringWidth(walker.prefix()), 10)
}

func (walker *bodyRenderer) write(s string) {
	if s == "" {
		return
	}
	walker.output.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		walker.trailing += len(s)
	} else {
		walker.trailing = len(s) - len(trimmed)
	}
}

func (walker *bodyRenderer) newline() {
	if walker.output.Len() > 0 && walker.trailing < 1 {
		walker.write("\n")
	}
}

func (walker *bodyRenderer) blankLine() {
	if walker.output.Len() == 0 {
		return
	}
	for walker.trailing < 2 {
		walker.write("\n")
	}
}

func (walker *bodyRenderer) tight() bool {
	return len(walker.lists) > 0 && walker.lists[len(walker.lists)-1].tight
}

// emit writes content with prefixes applied: the pending bullet on the
// first line, the regular prefix on the rest.
func (walker *bodyRenderer) emit(content string) {
	prefix := walker.prefix()
	for index, line := range strings.Split(content, "\n") {
		if index > 0 {
			walker.write("\n")
		}
		if index == 0 && walker.bullet != "" {
			walker.write(walker.bullet + line)
			walker.bullet = ""
			continue
		}
		walker.write(prefix + line)
	}
}

func (walker *bodyRenderer) flush() {
	content := walker.inline.String()
	walker.inline.Reset()
	if content == "" {
		return
	}
	walker.emit(ansi.Wrap(content, walker.wrapWidth(), wrapBreakpoints))
	walker.newline()
	if !walker.tight() {
		walker.blankLine()
	}
}

func (walker *bodyRenderer) styled(content string) string {
	style := walker.style().Foreground(walker.theme.NormalText)
	if walker.bold > 0 {
		style = style.Bold(true)
	}
	if walker.italic > 0 {
		style = style.Italic(true)
	}
	if walker.struck > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (walker *bodyRenderer) faint(content string) string {
	return walker.style().Foreground(walker.theme.FaintText).Render(content)
}

func (walker *bodyRenderer) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			walker.inline.Reset()
		} else {
			walker.flush()
		}

	case ast.KindHeading:
		if entering {
			walker.inline.Reset()
			break
		}
		content := ansi.Strip(walker.inline.String())
		walker.inline.Reset()
		heading := walker.style().Bold(true).Foreground(walker.theme.HeaderForeground)
		walker.blankLine()
		walker.emit(ansi.Wrap(heading.Render(content), walker.wrapWidth(), wrapBreakpoints))
		walker.newline()
		walker.blankLine()

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			walker.code(walker.lines(node), string(block.Language(walker.source)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindCodeBlock:
		if entering {
			walker.code(walker.lines(node), "")
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			walker.prefixes = append(walker.prefixes,
				walker.style().Foreground(walker.theme.ThreadGuide).Render("│ "))
		} else {
			walker.prefixes = walker.prefixes[:len(walker.prefixes)-1]
			walker.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			walker.lists = append(walker.lists, listLevel{
				ordered: list.IsOrdered(),
				next:    list.Start,
				tight:   list.IsTight,
			})
		} else {
			walker.lists = walker.lists[:len(walker.lists)-1]
			if !walker.tight() {
				walker.blankLine()
			}
		}

	case ast.KindListItem:
		if len(walker.lists) == 0 {
			break
		}
		if entering {
			level := &walker.lists[len(walker.lists)-1]
			marker := "• "
			if level.ordered {
				marker = fmt.Sprintf("%d. ", level.next)
				level.next++
			}
			walker.bullet = walker.prefix() + walker.faint(marker)
			walker.prefixes = append(walker.prefixes, strings.Repeat(" ", ansi.StringWidth(marker)))
		} else {
			walker.prefixes = walker.prefixes[:len(walker.prefixes)-1]
			walker.newline()
		}

	case ast.KindThematicBreak:
		if entering {
			walker.blankLine()
			walker.emit(walker.style().Foreground(walker.theme.BorderColor).
				Render(strings.Repeat("─", walker.wrapWidth())))
			walker.newline()
			walker.blankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			walker.inline.WriteString(walker.styled(string(textNode.Segment.Value(walker.source))))
			switch {
			case textNode.HardLineBreak():
				walker.inline.WriteString("\n")
			case textNode.SoftLineBreak():
				walker.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			walker.inline.WriteString(walker.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &walker.italic
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &walker.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case extast.KindStrikethrough:
		if entering {
			walker.struck++
		} else {
			walker.struck--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(walker.source))
				}
			}
			walker.inline.WriteString(walker.style().Foreground(walker.theme.Accent).Render(code.String()))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				_ = ast.Walk(child, walker.visit)
			}
			walker.inline.WriteString(" " + walker.faint("("+string(link.Destination)+")"))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(walker.source))
			walker.inline.WriteString(walker.style().Foreground(walker.theme.Accent).Underline(true).Render(url))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindImage:
		if entering {
			walker.inline.WriteString(walker.faint("[image: " + string(node.(*ast.Image).Destination) + "]"))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (walker *bodyRenderer) lines(node ast.Node) string {
	var content strings.Builder
	lines := node.Lines()
	for index := range lines.Len() {
		segment := lines.At(index)
		content.Write(segment.Value(walker.source))
	}
	return content.String()
}

// code writes a code block, highlighted when the language is known to
// chroma and faint otherwise.
func (walker *bodyRenderer) code(content, language string) {
	content = strings.TrimRight(content, "\n")
	rendered := walker.faint(content)
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, content, language, "terminal256", "monokai"); err == nil {
			rendered = strings.TrimRight(highlighted.String(), "\n")
		}
	}
	walker.blankLine()
	walker.emit(rendered)
	walker.newline()
	walker.blankLine()
}
