// Package mrkdwn converts GitHub-rendered HTML bodies into Slack's mrkdwn
// dialect, extracting a leading image for attachment display.
package mrkdwn

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is a converted HTML body: mrkdwn text plus the first image found.
type Result struct {
	Text     string
	ImageURL string
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	spaceRun      = regexp.MustCompile(` {2,}`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// Convert renders an HTML fragment as Slack mrkdwn. Parsing is best-effort:
// malformed HTML yields whatever text the parser can recover.
func Convert(fragment string) Result {
	if strings.TrimSpace(fragment) == "" {
		return Result{}
	}

	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return Result{}
	}

	var c converter
	c.walk(root)

	text := blankLines.ReplaceAllString(c.out.String(), "\n\n")
	return Result{
		Text:     strings.TrimSpace(text),
		ImageURL: c.image,
	}
}

// CollapseText flattens a plain-text body for single-line display: line
// breaks become spaces and runs of two or more spaces collapse to one.
func CollapseText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

type converter struct {
	out          strings.Builder
	image        string
	preformatted bool
}

func (c *converter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if c.preformatted {
			c.out.WriteString(n.Data)
			return
		}
		text := whitespaceRun.ReplaceAllString(n.Data, " ")
		if text != "" && text != " " {
			c.out.WriteString(text)
		}
		return
	case html.ElementNode:
		c.element(n)
		return
	}
	c.children(n)
}

func (c *converter) children(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
}

func (c *converter) element(n *html.Node) {
	switch n.DataAtom {
	case atom.B, atom.Strong:
		c.wrap(n, "*")
	case atom.I, atom.Em:
		c.wrap(n, "_")
	case atom.Del, atom.S, atom.Strike:
		c.wrap(n, "~")
	case atom.Code:
		if c.preformatted {
			c.children(n)
			return
		}
		c.wrap(n, "`")
	case atom.Pre:
		c.out.WriteString("```\n")
		c.preformatted = true
		c.children(n)
		c.preformatted = false
		c.out.WriteString("```\n")
	case atom.A:
		c.link(n)
	case atom.Img:
		if c.image == "" {
			c.image = attr(n, "src")
		}
	case atom.Br:
		c.out.WriteString("\n")
	case atom.Li:
		c.out.WriteString("• ")
		c.children(n)
		c.out.WriteString("\n")
	case atom.P, atom.Div, atom.Ul, atom.Ol, atom.Blockquote, atom.Table, atom.Tr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		c.children(n)
		c.out.WriteString("\n")
	case atom.Script, atom.Style:
		// Dropped entirely.
	default:
		c.children(n)
	}
}

func (c *converter) wrap(n *html.Node, marker string) {
	c.out.WriteString(marker)
	c.children(n)
	c.out.WriteString(marker)
}

func (c *converter) link(n *html.Node) {
	href := attr(n, "href")
	if href == "" {
		c.children(n)
		return
	}
	var inner converter
	inner.children(n)
	label := strings.TrimSpace(inner.out.String())
	if inner.image != "" && c.image == "" {
		c.image = inner.image
	}
	if label == "" || label == href {
		c.out.WriteString("<" + href + ">")
		return
	}
	c.out.WriteString("<" + href + "|" + label + ">")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
