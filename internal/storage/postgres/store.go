package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for steps and users.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a pooled store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS steps (
			id BIGSERIAL PRIMARY KEY,
			rank INT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			location_hint TEXT NOT NULL DEFAULT '',
			question TEXT NOT NULL DEFAULT '',
			answer TEXT NOT NULL DEFAULT '',
			media TEXT NOT NULL DEFAULT '',
			is_end BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE INDEX IF NOT EXISTS steps_rank_idx ON steps (rank);`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			password TEXT NOT NULL,
			current_step INT NOT NULL DEFAULT 1
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const stepColumns = `id, rank, latitude, longitude, location_hint, question, answer, media, is_end`

// CreateStep inserts a new step row with the caller-given rank.
func (s *Store) CreateStep(ctx context.Context, step models.Step) (models.Step, error) {
	const query = `
	INSERT INTO steps (rank, latitude, longitude, location_hint, question, answer, media, is_end)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + stepColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		step.Rank, step.Latitude, step.Longitude,
		step.LocationHint, step.Question, step.Answer, step.Media, step.IsEnd)
	return scanStep(row)
}

// StepByID fetches a step by its identifier.
func (s *Store) StepByID(ctx context.Context, id int64) (models.Step, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+stepColumns+` FROM steps WHERE id = $1;`, id)
	return scanStep(row)
}

// StepByRank fetches the step at the given rank, if any.
func (s *Store) StepByRank(ctx context.Context, rank int32) (models.Step, error) {
	const query = `SELECT ` + stepColumns + ` FROM steps WHERE rank = $1 ORDER BY id LIMIT 1;`
	row := s.pool.QueryRow(ctx, query, rank)
	return scanStep(row)
}

// ListSteps returns every step ordered ascending by rank, ties by id.
func (s *Store) ListSteps(ctx context.Context) ([]models.Step, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+stepColumns+` FROM steps ORDER BY rank, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []models.Step{}
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// UpdateStep rewrites every mutable field of a step.
func (s *Store) UpdateStep(ctx context.Context, step models.Step) error {
	const query = `
	UPDATE steps
	SET rank = $2, latitude = $3, longitude = $4, location_hint = $5,
		question = $6, answer = $7, media = $8, is_end = $9
	WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, query,
		step.ID, step.Rank, step.Latitude, step.Longitude,
		step.LocationHint, step.Question, step.Answer, step.Media, step.IsEnd)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateStepRank rewrites only the rank of a step.
func (s *Store) UpdateStepRank(ctx context.Context, id int64, rank int32) error {
	tag, err := s.pool.Exec(ctx, `UPDATE steps SET rank = $2 WHERE id = $1;`, id, rank)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteStep removes a step; ErrNotFound if nothing was deleted.
func (s *Store) DeleteStep(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM steps WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteAllSteps empties the step table.
func (s *Store) DeleteAllSteps(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM steps;`)
	return err
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (name, password, current_step)
	VALUES ($1, $2, $3)
	RETURNING id, name, password, current_step;`
	row := s.pool.QueryRow(ctx, query, user.Name, user.PasswordHash, user.CurrentStep)
	return scanUser(row)
}

// UserByID fetches a user by id.
func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, password, current_step FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, password, current_step FROM users ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser rewrites every mutable field of a user.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	const query = `UPDATE users SET name = $2, password = $3, current_step = $4 WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, query, user.ID, user.Name, user.PasswordHash, user.CurrentStep)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateUserStep moves a user to the given step rank.
func (s *Store) UpdateUserStep(ctx context.Context, id int64, rank int32) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET current_step = $2 WHERE id = $1;`, id, rank)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user; ErrNotFound if nothing was deleted.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteAllUsers empties the user table.
func (s *Store) DeleteAllUsers(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users;`)
	return err
}

func scanStep(row pgx.Row) (models.Step, error) {
	var step models.Step
	err := row.Scan(&step.ID, &step.Rank, &step.Latitude, &step.Longitude,
		&step.LocationHint, &step.Question, &step.Answer, &step.Media, &step.IsEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Step{}, storage.ErrNotFound
		}
		return models.Step{}, err
	}
	return step, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.CurrentStep); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
