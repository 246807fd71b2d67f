package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"zippyhand/internal/models"
)

// CreateService inserts a new catalog entry. Titles are not checked for
// duplicates; the title is only a display key.
func (db *DB) CreateService(ctx context.Context, service *models.Service) error {
	query := `INSERT INTO services (title, description, price, icon, popular, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	if service.Icon == "" {
		service.Icon = models.DefaultIcon
	}

	result, err := db.ExecContext(ctx, query,
		service.Title,
		service.Description,
		service.Price,
		service.Icon,
		service.Popular,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	service.ID = id
	service.CreatedAt = now
	return nil
}

// GetService returns a catalog entry by ID.
func (db *DB) GetService(ctx context.Context, id int64) (*models.Service, error) {
	query := `SELECT id, title, description, price, icon, popular, created_at FROM services WHERE id = ?`

	var service models.Service
	err := db.QueryRowContext(ctx, query, id).Scan(
		&service.ID,
		&service.Title,
		&service.Description,
		&service.Price,
		&service.Icon,
		&service.Popular,
		&service.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

// ListServices returns the catalog ordered by ID ascending.
func (db *DB) ListServices(ctx context.Context) ([]models.Service, error) {
	query := `SELECT id, title, description, price, icon, popular, created_at FROM services ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var service models.Service
		if err := rows.Scan(
			&service.ID,
			&service.Title,
			&service.Description,
			&service.Price,
			&service.Icon,
			&service.Popular,
			&service.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

// UpdateService overwrites title, description, price, icon and popular on an
// existing entry.
func (db *DB) UpdateService(ctx context.Context, service *models.Service) error {
	query := `UPDATE services SET title = ?, description = ?, price = ?, icon = ?, popular = ? WHERE id = ?`

	if service.Icon == "" {
		service.Icon = models.DefaultIcon
	}

	result, err := db.ExecContext(ctx, query,
		service.Title,
		service.Description,
		service.Price,
		service.Icon,
		service.Popular,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteService removes a catalog entry permanently.
func (db *DB) DeleteService(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountServices returns the number of catalog entries.
func (db *DB) CountServices(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM services`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}

// SeedServices inserts the given catalog entries when the table is empty.
// Used once at startup to populate a fresh install from the config file.
func (db *DB) SeedServices(ctx context.Context, services []models.Service) error {
	count, err := db.CountServices(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range services {
		if err := db.CreateService(ctx, &services[i]); err != nil {
			return err
		}
	}
	db.logger.Info().Int("count", len(services)).Msg("service catalog seeded")
	return nil
}
