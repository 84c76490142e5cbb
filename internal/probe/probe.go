// Package probe checks that a site answers over plain HTTP before a browser
// is started against it.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/sites"
	"ticketbooker/lib/htmlutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/probe")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var loginWords = []string{"login", "log in", "sign in", "signin", "เข้าสู่ระบบ"}

// Result is what a single site check found.
type Result struct {
	Site       string
	URL        string
	StatusCode int
	Elapsed    time.Duration
	Title      string
	// LoginFound is true when the page has something that looks like a login
	// control, the site's own login selector is usually xpath and cannot be
	// evaluated without a browser.
	LoginFound   bool
	ConcertLinks []htmlutil.Anchor
	Err          error
}

func (r Result) Reachable() bool {
	return r.Err == nil && r.StatusCode > 0 && r.StatusCode < 400
}

type Prober struct {
	client *resty.Client
	tel    telemetry.API
}

func NewProber(tel telemetry.API, timeout time.Duration) Prober {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(timeout)
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("probe", tel))

	return Prober{client: client, tel: tel}
}

// Check fetches the landing page of site. When concert is not empty the
// page is also searched for links mentioning it.
func (p Prober) Check(ctx context.Context, site sites.Site, concert string) Result {
	ctx, span := tracer.Start(ctx, "Check")
	defer span.End()
	span.SetAttributes(attribute.String("site", site.ID))

	result := Result{Site: site.ID, URL: site.BaseURL}

	res, err := p.client.R().
		SetContext(ctx).
		Get(site.BaseURL)
	if err != nil {
		result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return result
	}
	result.StatusCode = res.StatusCode()
	result.Elapsed = res.Time()
	if res.IsError() {
		result.Err = fmt.Errorf("unexpected status %s", res.Status())
		span.SetStatus(codes.Error, result.Err.Error())
		return result
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		result.Err = fmt.Errorf("parse page: %w", err)
		span.RecordError(err)
		return result
	}
	result.Title = htmlutil.CleanText(doc.Find("title").First().Text())
	result.LoginFound = hasLogin(doc)

	if concert != "" {
		base, err := url.Parse(site.BaseURL)
		if err != nil {
			base = nil
		}
		result.ConcertLinks = htmlutil.AnchorsContaining(ctx, doc, concert, base)
	}
	return result
}

func hasLogin(doc *goquery.Document) bool {
	if doc.Find(`input[type="password"]`).Length() > 0 {
		return true
	}
	found := false
	doc.Find("a, button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(htmlutil.CleanText(s.Text()))
		class, _ := s.Attr("class")
		class = strings.ToLower(class)
		for _, word := range loginWords {
			if strings.Contains(text, word) || strings.Contains(class, strings.ReplaceAll(word, " ", "")) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// CheckAll checks every site at once, results keep the order of list.
func (p Prober) CheckAll(ctx context.Context, list []sites.Site, concert string) []Result {
	results := make([]Result, len(list))
	var wg sync.WaitGroup
	for i, site := range list {
		i, site := i, site
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.Check(ctx, site, concert)
		}()
	}
	wg.Wait()
	return results
}
