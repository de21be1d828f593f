package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ISQM/internal/form"
	"ISQM/internal/i18n"
	"ISQM/internal/institution"
	"ISQM/internal/repo"

	"github.com/lib/pq"
	"github.com/omeid/pgerror"
	"go.uber.org/zap"
)

const (
	UserStudent = "student"
	UserWorker  = "worker"
)

// Patch is a partial profile update. Nil fields keep the stored value.
type Patch struct {
	FullName      *string `json:"full_name"`
	Phone         *string `json:"phone"`
	UserType      *string `json:"user_type"`
	InstitutionID *string `json:"institution_id"`
	CompanyName   *string `json:"company_name"`
}

type Service struct {
	Profiles     repo.ProfileStore
	Institutions repo.InstitutionStore
	Log          *zap.Logger
}

// FetchOrCreate returns the profile for id, inserting an empty one on first
// use. A concurrent insert is resolved by reading again.
func (s *Service) FetchOrCreate(ctx context.Context, id string) (repo.Profile, error) {
	p, err := s.Profiles.GetProfile(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return repo.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p, err = s.Profiles.InsertProfile(ctx, id)
	if errors.Is(err, repo.ErrConflict) {
		return s.Profiles.GetProfile(ctx, id)
	}
	if err != nil {
		return repo.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Fields validates the editable profile values.
func Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "phone", Validator: form.Phone(tr)},
		{Name: "institution_id", Validator: form.Required(tr, i18n.ProfileInstitutionMissing), Rule: form.WhenEquals("user_type", UserStudent)},
		{Name: "company_name", Validator: form.Required(tr, i18n.ProfileCompanyMissing), Rule: form.WhenEquals("user_type", UserWorker)},
	}
}

// Values flattens p into form text.
func Values(p repo.Profile) map[string]string {
	return map[string]string{
		"full_name":      deref(p.FullName),
		"phone":          deref(p.Phone),
		"user_type":      deref(p.UserType),
		"institution_id": deref(p.InstitutionID),
		"company_name":   deref(p.CompanyName),
	}
}

// Merge applies the patch on top of the stored profile.
func Merge(cur repo.Profile, patch Patch) repo.Profile {
	next := cur
	if patch.FullName != nil {
		next.FullName = patch.FullName
	}
	if patch.Phone != nil {
		next.Phone = patch.Phone
	}
	if patch.UserType != nil {
		next.UserType = patch.UserType
	}
	if patch.InstitutionID != nil {
		next.InstitutionID = patch.InstitutionID
	}
	if patch.CompanyName != nil {
		next.CompanyName = patch.CompanyName
	}
	return next
}

// Normalize trims text, turns blanks into nulls and keeps only the
// affiliation matching the user type.
func Normalize(p repo.Profile) repo.Profile {
	p.FullName = blankToNil(p.FullName)
	p.Phone = blankToNil(p.Phone)
	p.UserType = blankToNil(p.UserType)
	p.InstitutionID = blankToNil(p.InstitutionID)
	p.CompanyName = blankToNil(p.CompanyName)
	switch deref(p.UserType) {
	case UserStudent:
		p.CompanyName = nil
	case UserWorker:
		p.InstitutionID = nil
	}
	return p
}

// Update merges, validates and stores the patch. The report is returned
// with HasErrors when validation fails; nothing is written then.
func (s *Service) Update(ctx context.Context, tr i18n.Translator, id string, patch Patch) (repo.Profile, form.Report, error) {
	cur, err := s.FetchOrCreate(ctx, id)
	if err != nil {
		return repo.Profile{}, form.Report{}, err
	}
	next := Normalize(Merge(cur, patch))
	rep := form.Evaluate(Fields(tr), Values(next), form.Interaction{Submitted: true})
	if rep.HasErrors {
		return cur, rep, nil
	}
	if id := deref(next.InstitutionID); id != "" {
		_, err := s.Institutions.GetInstitution(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			rep.Reject("institution_id", tr.T(i18n.ProfileInstitutionMissing, nil))
			return cur, rep, nil
		}
		if err != nil {
			return repo.Profile{}, rep, err
		}
	}
	saved, err := s.Profiles.UpsertProfile(ctx, next)
	if err != nil {
		return repo.Profile{}, rep, err
	}
	return saved, rep, nil
}

// InstitutionLabel renders "name - state" for the profile's institution.
func (s *Service) InstitutionLabel(ctx context.Context, p repo.Profile) string {
	if p.InstitutionID == nil {
		return deref(p.Institution)
	}
	inst, err := s.Institutions.GetInstitution(ctx, *p.InstitutionID)
	if err != nil {
		s.Log.Debug("institution lookup", zap.String("id", *p.InstitutionID), zap.Error(err))
		return deref(p.Institution)
	}
	return institution.DisplayName(inst)
}

// ErrorKey picks the message for a failed save.
func ErrorKey(err error) i18n.Key {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pgerror.UndefinedColumn(pqErr) != nil || pgerror.UndefinedTable(pqErr) != nil) {
		return i18n.ProfileSchemaCache
	}
	if strings.Contains(strings.ToLower(err.Error()), "schema cache") {
		return i18n.ProfileSchemaCache
	}
	return i18n.ProfileSaveError
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
