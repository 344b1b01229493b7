package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// SnapshotPage serves a static HTML document through the Page interface. It
// backs the offline scrape mode and the test suite; clicks are recorded but
// do not mutate the document.
type SnapshotPage struct {
	doc     *goquery.Document
	raw     string
	URL     string
	Clicked []string
}

// NewSnapshotPage parses the given markup into a snapshot page.
func NewSnapshotPage(html string) (*SnapshotPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot HTML: %w", err)
	}
	return &SnapshotPage{doc: doc, raw: html}, nil
}

// SnapshotFromFile loads a snapshot page from a saved HTML file.
func SnapshotFromFile(path string) (*SnapshotPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return NewSnapshotPage(string(data))
}

func (p *SnapshotPage) Navigate(_ context.Context, url string, _ time.Duration) error {
	p.URL = url
	return nil
}

func (p *SnapshotPage) WaitForElement(_ context.Context, selector string, _ time.Duration) error {
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("element %q not present in snapshot", selector)
	}
	return nil
}

func (p *SnapshotPage) Click(selector string) error {
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("element %q not present in snapshot", selector)
	}
	p.Clicked = append(p.Clicked, selector)
	return nil
}

func (p *SnapshotPage) HasClass(selector, class string) (bool, error) {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return false, nil
	}
	return sel.HasClass(class), nil
}

func (p *SnapshotPage) ClickByText(tags []string, text string) (bool, error) {
	found := false
	p.doc.Find(strings.Join(tags, ",")).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.Text()) == text {
			found = true
			p.Clicked = append(p.Clicked, "text:"+text)
			return false
		}
		return true
	})
	return found, nil
}

func (p *SnapshotPage) HTML() (string, error) {
	return p.raw, nil
}

func (p *SnapshotPage) BodyText() (string, error) {
	return p.doc.Find("body").Text(), nil
}

func (p *SnapshotPage) Close() error { return nil }
