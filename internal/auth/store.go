package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists user accounts. Documents never touch the database;
// accounts are the only durable state the server keeps.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type userRecord struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (s *Store) CreateUser(ctx context.Context, u userRecord) (userRecord, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password, display_name`,
		u.ID, u.Email, u.Password, u.DisplayName)
	var out userRecord
	err := row.Scan(&out.ID, &out.Email, &out.Password, &out.DisplayName)
	return out, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (userRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name FROM users WHERE email = $1`,
		email)
	var out userRecord
	err := row.Scan(&out.ID, &out.Email, &out.Password, &out.DisplayName)
	return out, err
}

func (s *Store) UserByID(ctx context.Context, id string) (userRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name FROM users WHERE id = $1`,
		id)
	var out userRecord
	err := row.Scan(&out.ID, &out.Email, &out.Password, &out.DisplayName)
	return out, err
}
