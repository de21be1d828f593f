package repo

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	// ErrBadReference means a row points at something that does not exist.
	ErrBadReference = errors.New("referenced row does not exist")
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
}

type Calculation struct {
	ID        string             `json:"id"`
	UserID    string             `json:"-"`
	Type      string             `json:"type"`
	Label     string             `json:"label"`
	Inputs    map[string]float64 `json:"inputs"`
	Outputs   map[string]float64 `json:"outputs,omitempty"`
	Result    float64            `json:"result"`
	Unit      string             `json:"unit"`
	CreatedAt time.Time          `json:"created_at"`
}

// CalculationFilter bounds a history listing. Empty Type means every type;
// zero times leave that end open.
type CalculationFilter struct {
	Type string
	From time.Time
	To   time.Time
}

type Profile struct {
	ID            string    `json:"id"`
	FullName      *string   `json:"full_name"`
	Role          *string   `json:"role"`
	Institution   *string   `json:"institution"`
	UserType      *string   `json:"user_type"`
	InstitutionID *string   `json:"institution_id"`
	CompanyName   *string   `json:"company_name"`
	Phone         *string   `json:"phone"`
	AvatarURL     *string   `json:"avatar_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Institution struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	State    *string `json:"state"`
}
