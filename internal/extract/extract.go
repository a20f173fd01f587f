// Package extract exposes CSS-selector text and attribute lookups over a
// fetched page.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Value is the outcome of a single-value selector lookup. It is either a
// non-empty string or absent.
type Value struct {
	text string
	ok   bool
}

// Some wraps a present value
func Some(s string) Value { return Value{text: s, ok: true} }

// None is the absent value
func None() Value { return Value{} }

// Get returns the text and whether it was present
func (v Value) Get() (string, bool) { return v.text, v.ok }

// Or resolves the value, substituting fallback when absent
func (v Value) Or(fallback string) string {
	if !v.ok {
		return fallback
	}
	return v.text
}

// Element is one node matched by a multi-value lookup
type Element struct {
	Text string
	Href string
}

// Document is a parsed page plus the URL it was fetched from
type Document struct {
	URL string
	doc *goquery.Document
}

// Parse reads HTML from r. pageURL is used to resolve relative links.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{URL: pageURL, doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseString is Parse for an in-memory page
func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// Text returns the whitespace-normalized text of the first node matching
// selector. goquery treats an invalid selector as matching nothing, so a
// bad selector, no match and empty text all give None.
func (d *Document) Text(selector string) Value {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return None()
	}
	text := normSpace(sel.First().Text())
	if text == "" {
		return None()
	}
	return Some(text)
}

// Attr returns an attribute of the first node matching selector
func (d *Document) Attr(selector, name string) Value {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return None()
	}
	v, ok := sel.First().Attr(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return None()
	}
	return Some(v)
}

// All returns every node matching selector with its text and absolute href.
func (d *Document) All(selector string) []Element {
	var out []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		e := Element{Text: normSpace(s.Text())}
		if href, ok := s.Attr("href"); ok {
			e.Href = d.resolve(href)
		}
		out = append(out, e)
	})
	return out
}

// Links returns the absolute href of every anchor on the page, skipping
// script, mail, phone and same-page links.
func (d *Document) Links() []string {
	var links []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "#") {
			return
		}
		links = append(links, d.resolve(href))
	})
	return links
}

// Title returns the <title> text
func (d *Document) Title() string {
	return normSpace(d.doc.Find("title").First().Text())
}

func (d *Document) resolve(href string) string {
	href = strings.TrimSpace(href)
	base, err := url.Parse(d.URL)
	if err != nil || d.URL == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
