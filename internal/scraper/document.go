package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row is one row of the results table.
type Row interface {
	// Attr returns the named attribute and whether it is present.
	Attr(name string) (string, bool)
	// AthleteLinks returns the href of every athlete link in the row, in order.
	AthleteLinks() []string
}

// Document is the subset of a page the extractor reads.
type Document interface {
	// TableRows returns the rows of the results table body; false if there is no table.
	TableRows() ([]Row, bool)
	// Heading returns the text of the page heading.
	Heading() (string, bool)
	// StatByLabel returns the value of the first summary statistic whose text contains label.
	StatByLabel(label string) (string, bool)
	// FirstLinkText returns the text of the first link whose href contains the given substring.
	FirstLinkText(hrefContains string) (string, bool)
}

const (
	resultsTableSelector = "table.Results-table"
	statSelector         = ".aStat"
)

type htmlDocument struct {
	doc *goquery.Document
}

// NewDocument parses HTML markup into a Document.
func NewDocument(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &htmlDocument{doc: doc}, nil
}

func (d *htmlDocument) TableRows() ([]Row, bool) {
	table := d.doc.Find(resultsTableSelector).First()
	if table.Length() == 0 {
		return nil, false
	}
	body := table.ChildrenFiltered("tbody").First()
	if body.Length() == 0 {
		return nil, false
	}

	rows := make([]Row, 0, body.Children().Length())
	body.ChildrenFiltered("tr").Each(func(_ int, sel *goquery.Selection) {
		rows = append(rows, htmlRow{sel: sel})
	})
	return rows, true
}

func (d *htmlDocument) Heading() (string, bool) {
	h1 := d.doc.Find("h1").First()
	if h1.Length() == 0 {
		return "", false
	}
	return h1.Text(), true
}

func (d *htmlDocument) StatByLabel(label string) (string, bool) {
	var (
		value string
		found bool
	)
	d.doc.Find(statSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), label) {
			return true
		}
		span := sel.Find("span").First()
		if span.Length() == 0 {
			return true
		}
		value, found = span.Text(), true
		return false
	})
	return value, found
}

func (d *htmlDocument) FirstLinkText(hrefContains string) (string, bool) {
	var (
		text  string
		found bool
	)
	d.doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, hrefContains) {
			return true
		}
		text, found = sel.Text(), true
		return false
	})
	return text, found
}

type htmlRow struct {
	sel *goquery.Selection
}

func (r htmlRow) Attr(name string) (string, bool) {
	return r.sel.Attr(name)
}

func (r htmlRow) AthleteLinks() []string {
	links := make([]string, 0, 2)
	r.sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.Contains(href, "athlete") {
			links = append(links, href)
		}
	})
	return links
}
