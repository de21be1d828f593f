package institution

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"ISQM/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ChunkSize is the number of rows written per upsert.
const ChunkSize = 200

// Seeder scrapes the polytechnic and community college listing pages and
// stores the institutions it finds.
type Seeder struct {
	Client *http.Client
	Store  repo.InstitutionStore
	Log    *zap.Logger
}

func NewSeeder(store repo.InstitutionStore, log *zap.Logger) *Seeder {
	return &Seeder{
		Client: &http.Client{Timeout: 20 * time.Second},
		Store:  store,
		Log:    log,
	}
}

// GuessCategory infers the category from a listing URL. Empty means the
// page is not a listing.
func GuessCategory(pageURL string) string {
	u := strings.ToLower(pageURL)
	switch {
	case strings.Contains(u, "senarai-kolej-komuniti"):
		return CategoryCommunityCollege
	case strings.Contains(u, "politeknik"):
		return CategoryPolytechnic
	}
	return ""
}

// CollectLinks returns start plus every link on the page that stays under
// start's host and path.
func CollectLinks(start *url.URL, r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	seen := map[string]bool{}
	var links []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	}
	walk(doc, func(n *html.Node) {
		if n.DataAtom != atom.A {
			return
		}
		href := attr(n, "href")
		if href == "" {
			return
		}
		full, err := start.Parse(href)
		if err != nil {
			return
		}
		if full.Host == start.Host && strings.HasPrefix(full.Path, start.Path) {
			add(full.String())
		}
	})
	add(start.String())
	return links, nil
}

var namePrefix = regexp.MustCompile(`(?i)^(politeknik|kolej komuniti)`)

// ExtractNames finds headings, links and bold text that read like an
// institution name, keeping first-seen order.
func ExtractNames(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	seen := map[string]bool{}
	var names []string
	walk(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.H3, atom.H4, atom.H5, atom.A, atom.Strong:
		default:
			return
		}
		t := normalizeName(text(n))
		if len(t) < 6 || !namePrefix.MatchString(t) || seen[t] {
			return
		}
		seen[t] = true
		names = append(names, t)
	})
	return names, nil
}

// Dedupe keeps the last row per category and name.
func Dedupe(rows []repo.Institution) []repo.Institution {
	index := map[string]int{}
	var out []repo.Institution
	for _, row := range rows {
		key := row.Category + "::" + row.Name
		if i, ok := index[key]; ok {
			out[i] = row
			continue
		}
		index[key] = len(out)
		out = append(out, row)
	}
	return out
}

// Seed scrapes from start and upserts everything found. It returns the
// number of rows written.
func (s *Seeder) Seed(ctx context.Context, start string) (int, error) {
	startURL, err := url.Parse(start)
	if err != nil {
		return 0, fmt.Errorf("start url: %w", err)
	}
	index, err := s.fetch(ctx, start)
	if err != nil {
		return 0, err
	}
	links, err := CollectLinks(startURL, strings.NewReader(index))
	if err != nil {
		return 0, err
	}
	s.Log.Info("found pages", zap.Int("count", len(links)))

	var all []repo.Institution
	for _, link := range links {
		category := GuessCategory(link)
		if category == "" {
			continue
		}
		page := index
		if link != start {
			if page, err = s.fetch(ctx, link); err != nil {
				return 0, err
			}
		}
		names, err := ExtractNames(strings.NewReader(page))
		if err != nil {
			return 0, err
		}
		for _, name := range names {
			all = append(all, repo.Institution{Name: name, Category: category})
		}
	}

	rows := Dedupe(all)
	s.Log.Info("rows to upsert", zap.Int("count", len(rows)))
	written := 0
	for i := 0; i < len(rows); i += ChunkSize {
		end := min(i+ChunkSize, len(rows))
		n, err := s.Store.UpsertInstitutions(ctx, rows[i:end])
		if err != nil {
			return written, fmt.Errorf("upsert chunk at %d: %w", i, err)
		}
		written += n
		s.Log.Info("upserted", zap.Int("done", written), zap.Int("total", len(rows)))
	}
	return written, nil
}

func (s *Seeder) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}

func normalizeName(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
