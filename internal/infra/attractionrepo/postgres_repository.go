package attractionrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

const attractionColumns = `id, travel_note_id, name, description, latitude, longitude,
	image, image_photographer, image_photographer_url, image_source, created_at`

// PostgresRepository persists committed attractions in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// InsertMany stores all records in one batch insert tied to noteID.
func (r *PostgresRepository) InsertMany(ctx context.Context, noteID string, records []attractions.StoredAttraction) ([]attractions.StoredAttraction, error) {
	if len(records) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(records))
	args := make([]any, 0, len(records)*9)
	for i, record := range records {
		base := i * 9
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args, noteID, record.Name, record.Description, record.Latitude, record.Longitude,
			record.ImageURL, record.ImagePhotographer, record.ImagePhotographerURL, record.ImageSource)
	}

	query := `
		INSERT INTO attractions (travel_note_id, name, description, latitude, longitude,
			image, image_photographer, image_photographer_url, image_source)
		VALUES ` + strings.Join(placeholders, ", ") + `
		RETURNING ` + attractionColumns

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]attractions.StoredAttraction, 0, len(records))
	for rows.Next() {
		record, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// DeleteOne removes an attraction scoped to its note.
func (r *PostgresRepository) DeleteOne(ctx context.Context, attractionID, noteID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM attractions
		WHERE id = $1 AND travel_note_id = $2
	`, attractionID, noteID)
	return err
}

// FindByNameLike returns up to limit attractions whose name contains pattern.
func (r *PostgresRepository) FindByNameLike(ctx context.Context, pattern string, limit int) ([]attractions.StoredAttraction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attractionColumns+`
		FROM attractions
		WHERE name ILIKE '%' || $1 || '%'
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attractions.StoredAttraction
	for rows.Next() {
		record, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// FindImageByName returns the stored image for an exact name match.
func (r *PostgresRepository) FindImageByName(ctx context.Context, name string) (*attractions.Image, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT image, image_photographer, image_photographer_url, image_source
		FROM attractions
		WHERE name = $1 AND image IS NOT NULL
		LIMIT 1
	`, name)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, false, rows.Err()
	}

	var url, photographer, photographerURL, source *string
	if err := rows.Scan(&url, &photographer, &photographerURL, &source); err != nil {
		return nil, false, err
	}
	if url == nil || *url == "" {
		return nil, false, rows.Err()
	}
	image := &attractions.Image{URL: *url}
	if photographer != nil {
		image.Photographer = *photographer
	}
	if photographerURL != nil {
		image.PhotographerURL = *photographerURL
	}
	if source != nil {
		image.Source = *source
	}
	return image, true, rows.Err()
}

func scanAttraction(row pgx.Row) (attractions.StoredAttraction, error) {
	var record attractions.StoredAttraction
	err := row.Scan(&record.ID, &record.NoteID, &record.Name, &record.Description,
		&record.Latitude, &record.Longitude,
		&record.ImageURL, &record.ImagePhotographer, &record.ImagePhotographerURL, &record.ImageSource,
		&record.CreatedAt)
	return record, err
}

var _ attractions.AttractionStore = (*PostgresRepository)(nil)
