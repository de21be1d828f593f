// Package institution serves the directory of Malaysian public universities,
// polytechnics and community colleges used by the profile and sign-up forms.
package institution

import (
	"context"
	"regexp"
	"strings"
	"time"

	"ISQM/internal/i18n"
	"ISQM/internal/repo"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	CategoryUA               = "UA"
	CategoryPolytechnic      = "POLYTECHNIC"
	CategoryCommunityCollege = "COMMUNITY_COLLEGE"

	// MaxResults caps one search response.
	MaxResults = 25

	cacheTTL = 5 * time.Minute
	listKey  = "institutions"
)

// Categories in display order.
var Categories = []string{CategoryUA, CategoryPolytechnic, CategoryCommunityCollege}

// popularQuota is how many of each category the empty query shows.
var popularQuota = []struct {
	category string
	n        int
}{
	{CategoryPolytechnic, 8},
	{CategoryUA, 4},
	{CategoryCommunityCollege, 4},
}

// Directory keeps the institution list in memory for a few minutes.
type Directory struct {
	store repo.InstitutionStore
	cache *cache.Cache
	log   *zap.Logger
}

func NewDirectory(store repo.InstitutionStore, log *zap.Logger) *Directory {
	return &Directory{
		store: store,
		cache: cache.New(cacheTTL, 2*cacheTTL),
		log:   log,
	}
}

// List returns every institution ordered by category then name.
func (d *Directory) List(ctx context.Context) ([]repo.Institution, error) {
	if v, ok := d.cache.Get(listKey); ok {
		return v.([]repo.Institution), nil
	}
	list, err := d.store.ListInstitutions(ctx)
	if err != nil {
		return nil, err
	}
	d.log.Debug("institutions loaded", zap.Int("count", len(list)))
	d.cache.SetDefault(listKey, list)
	return list, nil
}

// Invalidate drops the cached list after a seed.
func (d *Directory) Invalidate() {
	d.cache.Delete(listKey)
}

var spaces = regexp.MustCompile(`\s+`)

// Normalize lowercases, trims and collapses whitespace.
func Normalize(s string) string {
	return spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

var parenthesised = regexp.MustCompile(`\(([^)]+)\)`)

// Acronym returns the first parenthesised part of name, e.g. "UTM" in
// "Universiti Teknologi Malaysia (UTM)".
func Acronym(name string) string {
	m := parenthesised.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// Popular picks the default suggestions shown before the user types.
func Popular(list []repo.Institution) []repo.Institution {
	var out []repo.Institution
	for _, q := range popularQuota {
		n := 0
		for _, inst := range list {
			if n == q.n {
				break
			}
			if inst.Category == q.category {
				out = append(out, inst)
				n++
			}
		}
	}
	return out
}

// Search matches the query against names and acronyms. A blank query
// returns the popular list. At most MaxResults are returned; total counts
// every match.
func Search(list []repo.Institution, query string) (matches []repo.Institution, total int) {
	q := Normalize(query)
	var all []repo.Institution
	if q == "" {
		all = Popular(list)
	} else {
		for _, inst := range list {
			if strings.Contains(Normalize(inst.Name), q) {
				all = append(all, inst)
				continue
			}
			if acr := Acronym(inst.Name); acr != "" && strings.Contains(Normalize(acr), q) {
				all = append(all, inst)
			}
		}
	}
	total = len(all)
	if len(all) > MaxResults {
		all = all[:MaxResults]
	}
	return all, total
}

// DisplayName renders "name - state", or the bare name without a state.
func DisplayName(inst repo.Institution) string {
	if inst.State != nil && *inst.State != "" {
		return inst.Name + " - " + *inst.State
	}
	return inst.Name
}

func CategoryLabel(tr i18n.Translator, category string) string {
	return tr.T(i18n.InstitutionCategory(category), nil)
}
