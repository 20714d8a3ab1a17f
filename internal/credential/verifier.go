package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidBadgeURL = errors.New("invalid credly badge url")
	ErrBadgeNotFound   = errors.New("badge not found")
	ErrUnverifiable    = errors.New("badge details could not be extracted")
)

const defaultBaseURL = "https://www.credly.com"

// BadgeDetails is what verification extracts from a public Credly badge.
type BadgeDetails struct {
	BadgeID  string
	Title    string
	Issuer   string
	IssuedAt *time.Time
	URL      string
}

type Verifier struct {
	baseURL     string
	allowedHost string
	client      *http.Client
	headless    bool
	log         *logrus.Logger
}

func NewVerifier(log *logrus.Logger) *Verifier {
	return NewVerifierWithBaseURL(defaultBaseURL, log)
}

func NewVerifierWithBaseURL(baseURL string, log *logrus.Logger) *Verifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	v := &Verifier{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
		headless: baseURL == defaultBaseURL,
		log:      log,
	}
	if u, err := url.Parse(baseURL); err == nil {
		// colly matches on the hostname without the port.
		v.allowedHost = u.Hostname()
	}
	return v
}

// ParseBadgeURL validates a user-supplied link and extracts the badge id.
// Accepted shapes are credly.com/badges/<id> with optional trailing path
// segments or query parameters.
func ParseBadgeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidBadgeURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidBadgeURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidBadgeURL
	}

	host := strings.ToLower(u.Host)
	if host != "credly.com" && host != "www.credly.com" {
		return "", ErrInvalidBadgeURL
	}

	path := strings.Trim(u.Path, "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "badges" {
		return "", ErrInvalidBadgeURL
	}

	id := strings.TrimSpace(parts[1])
	if id == "" {
		return "", ErrInvalidBadgeURL
	}
	return id, nil
}

// Verify resolves a badge id against Credly. The JSON endpoint is tried
// first; if it is unavailable the public page is scraped, and as a last
// resort the page is rendered headless.
func (v *Verifier) Verify(ctx context.Context, badgeID string) (BadgeDetails, error) {
	details, err := v.fetchJSON(ctx, badgeID)
	if err == nil {
		return details, nil
	}
	if errors.Is(err, ErrBadgeNotFound) {
		return BadgeDetails{}, err
	}
	v.log.WithError(err).WithField("badge_id", badgeID).Debug("badge json endpoint failed, scraping page")

	details, scrapeErr := v.scrapePage(ctx, badgeID)
	if scrapeErr == nil {
		return details, nil
	}
	if errors.Is(scrapeErr, ErrBadgeNotFound) {
		return BadgeDetails{}, scrapeErr
	}

	if v.headless {
		if details, hErr := v.scrapeHeadless(ctx, badgeID); hErr == nil {
			return details, nil
		}
	}

	return BadgeDetails{}, ErrUnverifiable
}

type badgeJSON struct {
	ID            string `json:"id"`
	IssuedAt      string `json:"issued_at"`
	BadgeTemplate struct {
		Name string `json:"name"`
	} `json:"badge_template"`
	Issuer struct {
		Entities []struct {
			Entity struct {
				Name string `json:"name"`
			} `json:"entity"`
		} `json:"entities"`
	} `json:"issuer"`
}

func (v *Verifier) fetchJSON(ctx context.Context, badgeID string) (BadgeDetails, error) {
	endpoint := fmt.Sprintf("%s/badges/%s.json", v.baseURL, url.PathEscape(badgeID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return BadgeDetails{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "resume-sync")

	resp, err := v.client.Do(req)
	if err != nil {
		return BadgeDetails{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return BadgeDetails{}, ErrBadgeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return BadgeDetails{}, fmt.Errorf("badge json endpoint: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return BadgeDetails{}, err
	}

	var bj badgeJSON
	if err := json.Unmarshal(body, &bj); err != nil {
		return BadgeDetails{}, err
	}
	if bj.BadgeTemplate.Name == "" {
		return BadgeDetails{}, ErrUnverifiable
	}

	details := BadgeDetails{
		BadgeID: badgeID,
		Title:   bj.BadgeTemplate.Name,
		URL:     v.badgePageURL(badgeID),
	}
	if len(bj.Issuer.Entities) > 0 {
		details.Issuer = bj.Issuer.Entities[0].Entity.Name
	}
	details.IssuedAt = parseIssuedAt(bj.IssuedAt)
	return details, nil
}

// titleSelectors and friends are ordered by how recent the markup is; Credly
// has renamed these classes across redesigns.
var (
	titleSelectors  = []string{"h1.badge-name", ".cr-badge-name", "meta[property='og:title']"}
	issuerSelectors = []string{".issuer-name", ".cr-organization-name", ".badge-issuer"}
	issuedSelectors = []string{".issued-date", ".cr-issued-date", ".badge-issued-date"}
)

func (v *Verifier) scrapePage(ctx context.Context, badgeID string) (BadgeDetails, error) {
	opts := []colly.CollectorOption{}
	if v.allowedHost != "" {
		opts = append(opts, colly.AllowedDomains(v.allowedHost))
	}
	c := colly.NewCollector(opts...)

	details := BadgeDetails{BadgeID: badgeID, URL: v.badgePageURL(badgeID)}
	var reqErr error
	notFound := false

	for _, sel := range titleSelectors {
		sel := sel
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			if details.Title != "" {
				return
			}
			if strings.HasPrefix(sel, "meta") {
				details.Title = strings.TrimSpace(e.Attr("content"))
				return
			}
			details.Title = strings.TrimSpace(e.Text)
		})
	}
	for _, sel := range issuerSelectors {
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			if details.Issuer == "" {
				details.Issuer = strings.TrimSpace(e.Text)
			}
		})
	}
	for _, sel := range issuedSelectors {
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			if details.IssuedAt == nil {
				details.IssuedAt = parseIssuedText(e.Text)
			}
		})
	}

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && (r.StatusCode == http.StatusNotFound || r.StatusCode == http.StatusGone) {
			notFound = true
			return
		}
		reqErr = err
	})
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "resume-sync")
	})

	if ctx.Err() != nil {
		return BadgeDetails{}, ctx.Err()
	}
	if err := c.Visit(details.URL); err != nil && reqErr == nil && !notFound {
		reqErr = err
	}
	c.Wait()

	if notFound {
		return BadgeDetails{}, ErrBadgeNotFound
	}
	if reqErr != nil {
		return BadgeDetails{}, reqErr
	}
	if details.Title == "" {
		return BadgeDetails{}, ErrUnverifiable
	}
	return details, nil
}

func (v *Verifier) scrapeHeadless(ctx context.Context, badgeID string) (BadgeDetails, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	pageURL := v.badgePageURL(badgeID)
	var title, issuer, issued string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.EvaluateAsDevTools(headlessExtract("h1.badge-name, .cr-badge-name"), &title),
		chromedp.EvaluateAsDevTools(headlessExtract(".issuer-name, .cr-organization-name"), &issuer),
		chromedp.EvaluateAsDevTools(headlessExtract(".issued-date, .cr-issued-date"), &issued),
	)
	if err != nil {
		return BadgeDetails{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return BadgeDetails{}, ErrUnverifiable
	}

	return BadgeDetails{
		BadgeID:  badgeID,
		Title:    title,
		Issuer:   strings.TrimSpace(issuer),
		IssuedAt: parseIssuedText(issued),
		URL:      pageURL,
	}, nil
}

func headlessExtract(selector string) string {
	return fmt.Sprintf(`(() => { const el = document.querySelector(%q); return el ? el.textContent : ''; })()`, selector)
}

func (v *Verifier) badgePageURL(badgeID string) string {
	return fmt.Sprintf("%s/badges/%s", v.baseURL, url.PathEscape(badgeID))
}

func parseIssuedAt(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// parseIssuedText handles human-facing dates like "Issued May 12, 2026".
func parseIssuedText(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	for _, prefix := range []string{"Issued on", "Earned on", "Issued", "Earned"} {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, prefix))
	}
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "2006-01-02", "January 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
