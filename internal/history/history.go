package history

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ISQM/internal/repo"
	"ISQM/internal/session"

	"go.uber.org/zap"
)

// Type is the element a saved calculation belongs to.
type Type string

const (
	TypeBeam     Type = "beam"
	TypeColumn   Type = "column"
	TypeSlab     Type = "slab"
	TypeConcrete Type = "concrete"
	TypeFormwork Type = "formwork"
	TypeRebar    Type = "rebar"

	// TypeAll is the list filter matching every type.
	TypeAll Type = "all"
)

var Types = []Type{TypeBeam, TypeColumn, TypeSlab, TypeConcrete, TypeFormwork, TypeRebar}

func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Entry is a persisted calculation.
type Entry = repo.Calculation

// NewEntry is what a calculator hands over for saving.
type NewEntry struct {
	Type    Type
	Label   string
	Inputs  map[string]float64
	Outputs map[string]float64
	Result  float64
	Unit    string
}

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrUnknownType = errors.New("unknown calculation type")
)

// Saver persists one calculation for the signed-in user.
type Saver interface {
	Save(ctx context.Context, e NewEntry) (Entry, error)
}

const dateLayout = "2006-01-02"

// Filters select a history listing. From and To are calendar days, both inclusive.
type Filters struct {
	Type Type
	From time.Time
	To   time.Time
}

// DefaultFilters covers every type over the last 30 days.
func DefaultFilters(now time.Time) Filters {
	today := startOfDay(now)
	return Filters{Type: TypeAll, From: today.AddDate(0, 0, -30), To: today}
}

// ParseFilters reads type, from and to query parameters on top of the defaults.
func ParseFilters(q url.Values, now time.Time) (Filters, error) {
	f := DefaultFilters(now)
	if raw := strings.TrimSpace(q.Get("type")); raw != "" && raw != string(TypeAll) {
		t, ok := ParseType(raw)
		if !ok {
			return f, fmt.Errorf("%w: %q", ErrUnknownType, raw)
		}
		f.Type = t
	}
	for key, dst := range map[string]*time.Time{"from": &f.From, "to": &f.To} {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			return f, fmt.Errorf("bad %s date %q", key, raw)
		}
		*dst = d
	}
	return f, nil
}

func (f Filters) query() repo.CalculationFilter {
	var out repo.CalculationFilter
	if f.Type != TypeAll {
		out.Type = string(f.Type)
	}
	if !f.From.IsZero() {
		out.From = startOfDay(f.From)
	}
	if !f.To.IsZero() {
		out.To = startOfDay(f.To).AddDate(0, 0, 1)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type Service struct {
	store repo.CalculationStore
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store repo.CalculationStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

func (s *Service) Now() time.Time { return s.now() }

func (s *Service) Save(ctx context.Context, e NewEntry) (Entry, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return Entry{}, ErrNotSignedIn
	}
	if _, ok := ParseType(string(e.Type)); !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	saved, err := s.store.InsertCalculation(ctx, repo.Calculation{
		UserID:  sess.UserID,
		Type:    string(e.Type),
		Label:   e.Label,
		Inputs:  e.Inputs,
		Outputs: e.Outputs,
		Result:  e.Result,
		Unit:    e.Unit,
	})
	if err != nil {
		s.log.Warn("save calculation", zap.String("type", string(e.Type)), zap.Error(err))
		return Entry{}, err
	}
	return saved, nil
}

// List returns the signed-in user's entries, newest first.
func (s *Service) List(ctx context.Context, f Filters) ([]Entry, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, ErrNotSignedIn
	}
	return s.store.ListCalculations(ctx, sess.UserID, f.query())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return ErrNotSignedIn
	}
	return s.store.DeleteCalculation(ctx, sess.UserID, id)
}

func (s *Service) Clear(ctx context.Context) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return ErrNotSignedIn
	}
	return s.store.ClearCalculations(ctx, sess.UserID)
}
