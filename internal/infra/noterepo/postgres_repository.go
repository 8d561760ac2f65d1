package noterepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

// PostgresRepository reads travel notes from Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByID fetches a note regardless of owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (attractions.Note, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, is_public
		FROM travel_notes
		WHERE id = $1
		LIMIT 1
	`, id)
	return scanNote(row)
}

// GetByIDAndOwner fetches a note only when owned by ownerID.
func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (attractions.Note, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, is_public
		FROM travel_notes
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, id, ownerID)
	return scanNote(row)
}

func scanNote(row pgx.Row) (attractions.Note, bool, error) {
	var note attractions.Note
	if err := row.Scan(&note.ID, &note.OwnerID, &note.Name, &note.Description, &note.IsPublic); err != nil {
		if err == pgx.ErrNoRows {
			return attractions.Note{}, false, nil
		}
		return attractions.Note{}, false, err
	}
	return note, true, nil
}

var _ attractions.NoteStore = (*PostgresRepository)(nil)
