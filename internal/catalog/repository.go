package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists catalog services.
type Repository interface {
	Create(ctx context.Context, svc Service) error
	Update(ctx context.Context, svc Service) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Service, error)
	List(ctx context.Context, visibleOnly bool) ([]Service, error)
}

// PostgresRepository stores services in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectService = `SELECT id, name, description, category, price_per_1000, custom_price, min_order, max_order, is_visible, created_at FROM services`

// Create inserts a service row.
func (r *PostgresRepository) Create(ctx context.Context, svc Service) error {
	id, err := uuid.Parse(svc.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO services (id, name, description, category, price_per_1000, custom_price, min_order, max_order, is_visible, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, svc.Name, svc.Description, svc.Category, svc.PricePer1000, svc.CustomPrice, svc.MinOrder, svc.MaxOrder, svc.IsVisible, svc.CreatedAt.UTC())
	return err
}

// Update rewrites the mutable fields of a service.
func (r *PostgresRepository) Update(ctx context.Context, svc Service) error {
	id, err := uuid.Parse(svc.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE services SET name = $1, description = $2, category = $3, price_per_1000 = $4,
        custom_price = $5, min_order = $6, max_order = $7, is_visible = $8 WHERE id = $9`,
		svc.Name, svc.Description, svc.Category, svc.PricePer1000, svc.CustomPrice, svc.MinOrder, svc.MaxOrder, svc.IsVisible, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a service from the catalog.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	svcID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, svcID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches a service by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Service, error) {
	svcID, err := uuid.Parse(id)
	if err != nil {
		return Service{}, ErrNotFound
	}
	return scanService(r.db.QueryRow(ctx, selectService+` WHERE id = $1`, svcID))
}

// List returns services ordered by category then name, optionally only
// visible ones.
func (r *PostgresRepository) List(ctx context.Context, visibleOnly bool) ([]Service, error) {
	query := selectService
	if visibleOnly {
		query += ` WHERE is_visible`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func scanService(row pgx.Row) (Service, error) {
	var (
		svc       Service
		id        uuid.UUID
		createdAt time.Time
	)
	err := row.Scan(&id, &svc.Name, &svc.Description, &svc.Category, &svc.PricePer1000,
		&svc.CustomPrice, &svc.MinOrder, &svc.MaxOrder, &svc.IsVisible, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	if err != nil {
		return Service{}, err
	}
	svc.ID = id.String()
	svc.CreatedAt = createdAt.UTC()
	return svc, nil
}
