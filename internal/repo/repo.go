package repo

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/omeid/pgerror"
)

//go:embed schema.sql
var schema string

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (string, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

type CalculationStore interface {
	InsertCalculation(ctx context.Context, c Calculation) (Calculation, error)
	ListCalculations(ctx context.Context, userID string, f CalculationFilter) ([]Calculation, error)
	DeleteCalculation(ctx context.Context, userID, id string) error
	ClearCalculations(ctx context.Context, userID string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (Profile, error)
	InsertProfile(ctx context.Context, id string) (Profile, error)
	UpsertProfile(ctx context.Context, p Profile) (Profile, error)
	UpdateAvatar(ctx context.Context, id, url string) error
}

type InstitutionStore interface {
	ListInstitutions(ctx context.Context) ([]Institution, error)
	GetInstitution(ctx context.Context, id string) (Institution, error)
	UpsertInstitutions(ctx context.Context, rows []Institution) (int, error)
}

// Repository is everything the service reads and writes.
type Repository interface {
	UserStore
	CalculationStore
	ProfileStore
	InstitutionStore
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate applies the idempotent schema.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	var id string
	query := "INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, email, passwordHash).Scan(&id)
	if err != nil {
		if pgerror.UniqueViolation(asPQ(err)) != nil {
			return "", ErrConflict
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	query := "SELECT id, email, password FROM users WHERE lower(email)=lower($1)"
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) InsertCalculation(ctx context.Context, c Calculation) (Calculation, error) {
	inputs, err := json.Marshal(nonNil(c.Inputs))
	if err != nil {
		return Calculation{}, err
	}
	var outputs any
	if c.Outputs != nil {
		raw, err := json.Marshal(c.Outputs)
		if err != nil {
			return Calculation{}, err
		}
		outputs = string(raw)
	}
	query := `INSERT INTO calculations (user_id, type, label, inputs, outputs, result, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, c.UserID, c.Type, c.Label, string(inputs), outputs, c.Result, c.Unit).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		// Returned unwrapped so callers can classify the *pq.Error.
		return Calculation{}, err
	}
	return c, nil
}

func (r *PostgresRepository) ListCalculations(ctx context.Context, userID string, f CalculationFilter) ([]Calculation, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	query := "SELECT id, type, label, inputs, outputs, result, unit, created_at FROM calculations WHERE " +
		strings.Join(where, " AND ") + " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Calculation
	for rows.Next() {
		var (
			c               Calculation
			inputs, outputs []byte
		)
		if err := rows.Scan(&c.ID, &c.Type, &c.Label, &inputs, &outputs, &c.Result, &c.Unit, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.UserID = userID
		c.Inputs = map[string]float64{}
		if len(inputs) > 0 {
			if err := json.Unmarshal(inputs, &c.Inputs); err != nil {
				return nil, fmt.Errorf("decode inputs of %s: %w", c.ID, err)
			}
		}
		if len(outputs) > 0 {
			if err := json.Unmarshal(outputs, &c.Outputs); err != nil {
				return nil, fmt.Errorf("decode outputs of %s: %w", c.ID, err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) DeleteCalculation(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM calculations WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return notFoundOnBadID(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearCalculations(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM calculations WHERE user_id=$1", userID)
	return err
}

const profileColumns = "id, full_name, role, institution, user_type, institution_id, company_name, phone, avatar_url, created_at, updated_at"

func scanProfile(row interface{ Scan(...any) error }) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Role, &p.Institution, &p.UserType, &p.InstitutionID,
		&p.CompanyName, &p.Phone, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id=$1", id))
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) InsertProfile(ctx context.Context, id string) (Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		"INSERT INTO profiles (id) VALUES ($1) RETURNING "+profileColumns, id))
	if err != nil && pgerror.UniqueViolation(asPQ(err)) != nil {
		return Profile{}, ErrConflict
	}
	return p, err
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, p Profile) (Profile, error) {
	query := `INSERT INTO profiles (id, full_name, user_type, institution_id, institution, company_name, phone)
		VALUES ($1, $2, $3, $4, (SELECT name FROM institutions WHERE id = $4), $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			user_type = EXCLUDED.user_type,
			institution_id = EXCLUDED.institution_id,
			institution = EXCLUDED.institution,
			company_name = EXCLUDED.company_name,
			phone = EXCLUDED.phone,
			updated_at = now()
		RETURNING ` + profileColumns
	saved, err := scanProfile(r.db.QueryRowContext(ctx, query,
		p.ID, p.FullName, p.UserType, p.InstitutionID, p.CompanyName, p.Phone))
	if err != nil {
		return Profile{}, badReference(err)
	}
	return saved, nil
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET avatar_url=$2, updated_at=now() WHERE id=$1", id, url)
	return err
}

func (r *PostgresRepository) ListInstitutions(ctx context.Context) ([]Institution, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, category, state FROM institutions ORDER BY category ASC, name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Institution
	for rows.Next() {
		var inst Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Category, &inst.State); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetInstitution(ctx context.Context, id string) (Institution, error) {
	var inst Institution
	err := r.db.QueryRowContext(ctx, "SELECT id, name, category, state FROM institutions WHERE id=$1", id).
		Scan(&inst.ID, &inst.Name, &inst.Category, &inst.State)
	if err == sql.ErrNoRows {
		return Institution{}, ErrNotFound
	}
	if err != nil {
		return Institution{}, notFoundOnBadID(err)
	}
	return inst, nil
}

// A scraped row without a state keeps the state already stored.
const upsertInstitutionSQL = `INSERT INTO institutions (name, category, state) VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category,
		state = COALESCE(EXCLUDED.state, institutions.state)`

// UpsertInstitutions merges rows on name inside one transaction.
func (r *PostgresRepository) UpsertInstitutions(ctx context.Context, rows []Institution) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertInstitutionSQL)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, inst := range rows {
		if _, err := stmt.ExecContext(ctx, inst.Name, inst.Category, inst.State); err != nil {
			return 0, fmt.Errorf("upsert %q: %w", inst.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// asPQ unwraps to the driver error so pgerror's direct type checks match.
func asPQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr
	}
	return err
}

// notFoundOnBadID treats a malformed uuid like a row that does not exist.
func notFoundOnBadID(err error) error {
	if pgerror.InvalidTextRepresentation(asPQ(err)) != nil {
		return ErrNotFound
	}
	return err
}

// badReference maps a dangling or malformed foreign key to ErrBadReference.
func badReference(err error) error {
	pqErr := asPQ(err)
	if pgerror.ForeignKeyViolation(pqErr) != nil || pgerror.InvalidTextRepresentation(pqErr) != nil {
		return fmt.Errorf("%w: %v", ErrBadReference, err)
	}
	return err
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
