package postgres

import (
	"context"
	"errors"
	"fmt"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const counterpartyColumns = `id, full_name, passport_number, phone_number`

// CounterpartyRepository реализует EntityStore[domain.Counterparty]
type CounterpartyRepository struct {
	pool *pgxpool.Pool
}

func NewCounterpartyRepository(pool *pgxpool.Pool) (*CounterpartyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &CounterpartyRepository{pool: pool}, nil
}

func scanCounterparty(row rowScanner) (*domain.Counterparty, error) {
	var c domain.Counterparty
	if err := row.Scan(&c.ID, &c.FullName, &c.PassportNumber, &c.PhoneNumber); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CounterpartyRepository) GetAll(ctx context.Context) ([]domain.Counterparty, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+counterpartyColumns+` FROM counterparties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparties: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Counterparty, 0)
	for rows.Next() {
		c, err := scanCounterparty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan counterparty row: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during counterparties rows iteration: %w", err)
	}
	return result, nil
}

func (r *CounterpartyRepository) GetByID(ctx context.Context, id int) (*domain.Counterparty, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+counterpartyColumns+` FROM counterparties WHERE id = $1`, id)
	c, err := scanCounterparty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get counterparty %d: %w", id, err)
	}
	return c, nil
}

func (r *CounterpartyRepository) Add(ctx context.Context, c *domain.Counterparty) (*domain.Counterparty, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CounterpartyRepository",
		"method":    "Add",
	})

	err := r.pool.QueryRow(ctx,
		`INSERT INTO counterparties (full_name, passport_number, phone_number) VALUES ($1, $2, $3) RETURNING id`,
		c.FullName, c.PassportNumber, c.PhoneNumber,
	).Scan(&c.ID)
	if err != nil {
		repoLogger.Error("Failed to insert counterparty", err, nil)
		return nil, fmt.Errorf("failed to insert counterparty: %w", err)
	}

	saved := *c
	return &saved, nil
}

func (r *CounterpartyRepository) Update(ctx context.Context, c *domain.Counterparty) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE counterparties SET full_name = $2, passport_number = $3, phone_number = $4 WHERE id = $1`,
		c.ID, c.FullName, c.PassportNumber, c.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update counterparty %d: %w", c.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityCounterparty, c.ID)
	}
	return nil
}

// Delete удаляет клиента; его заявки удаляет ON DELETE CASCADE
func (r *CounterpartyRepository) Delete(ctx context.Context, id int) (bool, error) {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM counterparties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete counterparty %d: %w", id, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *CounterpartyRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM counterparties WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check counterparty %d: %w", id, err)
	}
	return exists, nil
}
