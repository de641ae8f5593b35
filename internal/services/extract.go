package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/redis/go-redis/v9"
)

const (
	extractUserAgent   = "WikiQuizBot/1.0"
	extractMaxBodySize = 20 << 20 // 20 MiB
	extractCacheTTL    = time.Hour

	// Article text limits, applied before prompting.
	maxParagraphs     = 10
	minParagraphChars = 50
	maxArticleChars   = 4000
	summaryChars      = 500
)

// Article is the extracted content a quiz is grounded in.
type Article struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// ExtractService fetches a source URL and pulls out title and body text.
// HTML pages are parsed with goquery; PDF sources are read page by page.
// Extracted articles are cached in Redis so regenerating a quiz for the same
// source does not refetch it.
type ExtractService struct {
	client *http.Client
	cache  *redis.Client
}

func NewExtractService(cache *redis.Client) *ExtractService {
	return &ExtractService{
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
	}
}

func (s *ExtractService) Extract(ctx context.Context, sourceURL string) (*Article, error) {
	parsed, err := url.ParseRequestURI(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &ExtractionError{Source: sourceURL, Err: fmt.Errorf("not a valid http(s) URL")}
	}

	if article := s.cacheGet(ctx, sourceURL); article != nil {
		return article, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &ExtractionError{Source: sourceURL, Err: err}
	}
	req.Header.Set("User-Agent", extractUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ExtractionError{Source: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractionError{Source: sourceURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var article *Article
	if strings.Contains(resp.Header.Get("Content-Type"), "application/pdf") {
		article, err = extractPDF(parsed, io.LimitReader(resp.Body, extractMaxBodySize))
	} else {
		article, err = extractHTML(io.LimitReader(resp.Body, extractMaxBodySize))
	}
	if err != nil {
		return nil, &ExtractionError{Source: sourceURL, Err: err}
	}

	s.cacheSet(ctx, sourceURL, article)
	return article, nil
}

func extractHTML(body io.Reader) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	// Wikipedia pages title the article in h1#firstHeading; fall back to the
	// first h1 for everything else.
	title := strings.TrimSpace(doc.Find("h1#firstHeading").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) > minParagraphChars {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})

	text := truncateChars(strings.Join(paragraphs, "\n"), maxArticleChars)
	if text == "" {
		return nil, fmt.Errorf("no article text found in the page")
	}

	return &Article{
		Title:   title,
		Text:    text,
		Summary: truncateChars(text, summaryChars),
	}, nil
}

func extractPDF(source *url.URL, body io.Reader) (*Article, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := truncateChars(strings.TrimSpace(b.String()), maxArticleChars)
	if text == "" {
		return nil, fmt.Errorf("no extractable text found in pdf")
	}

	title := strings.TrimSuffix(path.Base(source.Path), path.Ext(source.Path))
	title = strings.ReplaceAll(title, "_", " ")

	return &Article{
		Title:   title,
		Text:    text,
		Summary: truncateChars(text, summaryChars),
	}, nil
}

func truncateChars(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Cache helpers. A cache failure never fails extraction.

func (s *ExtractService) cacheGet(ctx context.Context, sourceURL string) *Article {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, extractCacheKey(sourceURL)).Result()
	if err != nil {
		return nil
	}
	var article Article
	if err := json.Unmarshal([]byte(raw), &article); err != nil {
		return nil
	}
	return &article
}

func (s *ExtractService) cacheSet(ctx context.Context, sourceURL string, article *Article) {
	if s.cache == nil {
		return
	}
	data, _ := json.Marshal(article)
	s.cache.Set(ctx, extractCacheKey(sourceURL), string(data), extractCacheTTL)
}

func extractCacheKey(sourceURL string) string {
	return "extract:" + sourceURL
}
