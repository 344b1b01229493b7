package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// RodBrowser owns a headless Chromium instance driven through go-rod.
type RodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRod launches a headless browser. The caller must Close it.
func NewRod() (*RodBrowser, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true)

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &RodBrowser{launcher: l, browser: b}, nil
}

// NewPage opens a blank page with the scraper user agent set.
func (r *RodBrowser) NewPage() (Page, error) {
	p, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: defaultUserAgent}); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("setting user agent: %w", err)
	}
	return &rodPage{page: p}, nil
}

// Close shuts the browser down and cleans up the launched process.
func (r *RodBrowser) Close() error {
	err := r.browser.Close()
	r.launcher.Cleanup()
	return err
}

// NewRodPage launches a browser and opens a single page on it; closing the
// returned page shuts the whole browser down. Convenient for one-shot scrape
// sessions where the page is the only resource the caller tracks.
func NewRodPage() (Page, error) {
	b, err := NewRod()
	if err != nil {
		return nil, err
	}
	p, err := b.NewPage()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return &ownedPage{Page: p, browser: b}, nil
}

type ownedPage struct {
	Page
	browser *RodBrowser
}

func (o *ownedPage) Close() error {
	err := o.Page.Close()
	if cerr := o.browser.Close(); err == nil {
		err = cerr
	}
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	bound := p.page.Context(ctx).Timeout(timeout)
	if err := bound.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := bound.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

func (p *rodPage) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("waiting for %q: %w", selector, err)
	}
	return nil
}

func (p *rodPage) Click(selector string) error {
	el, err := p.page.Element(selector)
	if err != nil {
		return fmt.Errorf("locating %q: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %q: %w", selector, err)
	}
	return nil
}

func (p *rodPage) HasClass(selector, class string) (bool, error) {
	res, err := p.page.Eval(`(sel, cls) => {
		const el = document.querySelector(sel);
		return el ? el.classList.contains(cls) : false;
	}`, selector, class)
	if err != nil {
		return false, fmt.Errorf("inspecting %q: %w", selector, err)
	}
	return res.Value.Bool(), nil
}

func (p *rodPage) ClickByText(tags []string, text string) (bool, error) {
	res, err := p.page.Eval(`(tags, text) => {
		const els = Array.from(document.querySelectorAll(tags.join(",")));
		const target = els.find(el => el.textContent && el.textContent.trim() === text);
		if (target) {
			target.click();
			return true;
		}
		return false;
	}`, tags, text)
	if err != nil {
		return false, fmt.Errorf("clicking by text %q: %w", text, err)
	}
	return res.Value.Bool(), nil
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) BodyText() (string, error) {
	res, err := p.page.Eval(`() => document.body.textContent`)
	if err != nil {
		return "", fmt.Errorf("reading body text: %w", err)
	}
	return res.Value.Str(), nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
