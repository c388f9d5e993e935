package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CattleInput carries the client-supplied cattle fields. Breed and Gender are
// required on creation; the rest are optional.
type CattleInput struct {
	TagNumber      *string
	Name           *string
	Breed          string
	Gender         string
	Age            *int
	Weight         *float64
	HealthStatus   string
	MilkProduction *decimal.Decimal
	// DateAcquired is a YYYY-MM-DD date string.
	DateAcquired *string
	Notes        *string
}

// CattleService is CRUD over the herd. Listing intentionally returns every
// animal regardless of caller — the dashboard's herd-size and daily-production
// tiles are farm-wide figures. Mutations are owner-or-admin scoped.
type CattleService interface {
	List(ctx context.Context) ([]Cattle, error)
	Create(ctx context.Context, ownerID int, in CattleInput) (*Cattle, error)
	Update(ctx context.Context, cattleID, callerID int, callerRole Role, in CattleInput) (*Cattle, error)
	Delete(ctx context.Context, cattleID, callerID int, callerRole Role) error
}

type cattleService struct {
	pool *pgxpool.Pool
}

// NewCattleService constructs a CattleService backed by the given pool.
func NewCattleService(pool *pgxpool.Pool) CattleService {
	return &cattleService{pool: pool}
}

const cattleColumns = `id, user_id, tag_number, name, breed, gender, age, weight, health_status, milk_production, date_acquired, notes, created_at, updated_at`

func scanCattle(row pgx.Row) (*Cattle, error) {
	var c Cattle
	err := row.Scan(&c.ID, &c.UserID, &c.TagNumber, &c.Name, &c.Breed, &c.Gender,
		&c.Age, &c.Weight, &c.HealthStatus, &c.MilkProduction, &c.DateAcquired,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// newTagNumber generates a tag of the form CTLyymmNNNN.
func newTagNumber(now time.Time) string {
	return fmt.Sprintf("CTL%s%04d", now.Format("0601"), rand.Intn(10000))
}

func (s *cattleService) List(ctx context.Context) ([]Cattle, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+cattleColumns+` FROM cattle ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cattle: %w", err)
	}
	defer rows.Close()

	var herd []Cattle
	for rows.Next() {
		var c Cattle
		if err := rows.Scan(&c.ID, &c.UserID, &c.TagNumber, &c.Name, &c.Breed, &c.Gender,
			&c.Age, &c.Weight, &c.HealthStatus, &c.MilkProduction, &c.DateAcquired,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cattle: %w", err)
		}
		herd = append(herd, c)
	}
	return herd, rows.Err()
}

func (s *cattleService) Create(ctx context.Context, ownerID int, in CattleInput) (*Cattle, error) {
	if in.Breed == "" || in.Gender == "" {
		return nil, validationf("Missing required fields: breed and gender are required")
	}
	health := in.HealthStatus
	if health == "" {
		health = "healthy"
	}
	milk := decimal.Zero
	if in.MilkProduction != nil {
		milk = *in.MilkProduction
	}

	// Random tags can collide; retry a bounded number of times on the unique
	// constraint before giving up.
	for attempt := 0; attempt < 10; attempt++ {
		tag := newTagNumber(time.Now())
		animal, err := scanCattle(s.pool.QueryRow(ctx, `
			INSERT INTO cattle (user_id, tag_number, name, breed, gender, age, weight, health_status, milk_production, date_acquired, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING `+cattleColumns,
			ownerID, tag, in.Name, in.Breed, in.Gender, in.Age, in.Weight,
			health, milk, in.DateAcquired, in.Notes))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				continue
			}
			return nil, fmt.Errorf("failed to insert cattle: %w", err)
		}
		return animal, nil
	}
	return nil, fmt.Errorf("unable to generate unique tag number after multiple attempts")
}

func (s *cattleService) Update(ctx context.Context, cattleID, callerID int, callerRole Role, in CattleInput) (*Cattle, error) {
	query := `
		UPDATE cattle
		SET tag_number      = COALESCE($1, tag_number),
		    name            = COALESCE($2, name),
		    breed           = COALESCE(NULLIF($3, ''), breed),
		    gender          = COALESCE(NULLIF($4, ''), gender),
		    age             = COALESCE($5, age),
		    weight          = COALESCE($6, weight),
		    health_status   = COALESCE(NULLIF($7, ''), health_status),
		    milk_production = COALESCE($8, milk_production),
		    date_acquired   = COALESCE($9, date_acquired),
		    notes           = COALESCE($10, notes),
		    updated_at      = NOW()
		WHERE id = $11 AND (user_id = $12 OR $13)
		RETURNING ` + cattleColumns

	animal, err := scanCattle(s.pool.QueryRow(ctx, query,
		in.TagNumber, in.Name, in.Breed, in.Gender, in.Age, in.Weight,
		in.HealthStatus, in.MilkProduction, in.DateAcquired, in.Notes,
		cattleID, callerID, callerRole == RoleAdmin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Cattle not found or not authorized")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, validationf("Tag number already exists")
		}
		return nil, fmt.Errorf("failed to update cattle %d: %w", cattleID, err)
	}
	return animal, nil
}

func (s *cattleService) Delete(ctx context.Context, cattleID, callerID int, callerRole Role) error {
	query := `DELETE FROM cattle WHERE id = $1 AND user_id = $2`
	args := []any{cattleID, callerID}
	if callerRole == RoleAdmin {
		query = `DELETE FROM cattle WHERE id = $1`
		args = args[:1]
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete cattle %d: %w", cattleID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("Cattle not found or not authorized")
	}
	return nil
}
