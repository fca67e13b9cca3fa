package crawler

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

var (
	mainClassHints    = []string{"content", "main"}
	sectionClassHints = []string{"section", "feature", "benefit", "solution"}
)

const textSelector = "p, h1, h2, h3, h4, h5, h6, li"

// Extract turns an HTML document fetched from pageURL into a page record.
// Links are resolved against pageURL and deduplicated, in document order;
// they are not filtered.
func Extract(pageURL string, body []byte) (models.PageRecord, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return models.PageRecord{}, &ParseError{URL: pageURL, Err: err}
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return models.PageRecord{}, &ParseError{URL: pageURL, Err: err}
	}
	doc := goquery.NewDocumentFromNode(root)

	rec := models.PageRecord{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: resolveLinks(base, doc),
	}

	region := mainRegion(doc)
	if region.Length() == 0 {
		return rec, nil
	}

	rec.Text = joinText(region.Find(textSelector))

	region.Find("section, div").Each(func(_ int, s *goquery.Selection) {
		if !hasClassHint(s, sectionClassHints) {
			return
		}
		heading := s.Find("h2, h3").First()
		title := strings.TrimSpace(heading.Text())
		if title == "" {
			return
		}
		rec.Sections.Set(title, joinText(s.Find("p, li")))
	})

	md, err := toMarkdown(region)
	if err != nil {
		slog.Debug("markdown conversion failed", "url", pageURL, "error", err)
	} else {
		rec.Markdown = md
	}

	return rec, nil
}

// mainRegion picks <main>, then <article>, then the first div whose class
// mentions content or main.
func mainRegion(doc *goquery.Document) *goquery.Selection {
	if m := doc.Find("main").First(); m.Length() > 0 {
		return m
	}
	if a := doc.Find("article").First(); a.Length() > 0 {
		return a
	}
	return doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasClassHint(s, mainClassHints)
	}).First()
}

func hasClassHint(s *goquery.Selection, hints []string) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	for _, token := range strings.Fields(strings.ToLower(class)) {
		for _, h := range hints {
			if strings.Contains(token, h) {
				return true
			}
		}
	}
	return false
}

// joinText joins the trimmed, non-empty text of each element with newlines.
func joinText(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

func resolveLinks(base *url.URL, doc *goquery.Document) []string {
	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if abs.Path == "" {
			abs.Path = "/"
		}
		link := abs.String()
		if strings.Contains(href, "#") && !strings.Contains(link, "#") {
			// keep the fragment marker so the policy can reject it
			link += "#"
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

func toMarkdown(region *goquery.Selection) (string, error) {
	fragment, err := goquery.OuterHtml(region)
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
