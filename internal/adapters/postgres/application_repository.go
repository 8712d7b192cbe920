package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Заявка читается вместе с клиентом и объектом одним запросом
const applicationSelect = `
	SELECT a.id, a.counterparty_id, a.property_id, a.type, a.total_cost, a.created_at,
		c.id, c.full_name, c.passport_number, c.phone_number,
		p.id, p.cadastral_number, p.type, p.purpose, p.address, p.total_floors,
		p.total_area, p.room_count, p.ceiling_height, p.floor, p.has_encumbrances
	FROM applications a
	JOIN counterparties c ON c.id = a.counterparty_id
	JOIN properties p ON p.id = a.property_id`

// ApplicationRepository реализует EntityStore[domain.Application]
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ApplicationRepository{pool: pool}, nil
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var (
		a                     domain.Application
		c                     domain.Counterparty
		p                     domain.Property
		appType               string
		propertyType, purpose string
		totalArea, ceiling    pgtype.Numeric
	)
	err := row.Scan(
		&a.ID, &a.CounterpartyID, &a.PropertyID, &appType, &a.TotalCost, &a.CreatedAt,
		&c.ID, &c.FullName, &c.PassportNumber, &c.PhoneNumber,
		&p.ID, &p.CadastralNumber, &propertyType, &purpose, &p.Address, &p.TotalFloors,
		&totalArea, &p.RoomCount, &ceiling, &p.Floor, &p.HasEncumbrances,
	)
	if err != nil {
		return nil, err
	}
	if err := fillProperty(&p, propertyType, purpose, totalArea, ceiling); err != nil {
		return nil, err
	}

	a.Type = domain.ApplicationType(appType)
	a.CreatedAt = domain.DateOnly(a.CreatedAt)
	a.Counterparty = &c
	a.Property = &p
	return &a, nil
}

func (r *ApplicationRepository) GetAll(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, applicationSelect+` ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during applications rows iteration: %w", err)
	}
	return result, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int) (*domain.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	return a, nil
}

// Add сохраняет заявку; пустая дата создания заменяется текущей датой сервера БД
func (r *ApplicationRepository) Add(ctx context.Context, a *domain.Application) (*domain.Application, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":       "ApplicationRepository",
		"method":          "Add",
		"counterparty_id": a.CounterpartyID,
		"property_id":     a.PropertyID,
	})

	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (counterparty_id, property_id, type, total_cost, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, CURRENT_DATE))
		RETURNING id, created_at`,
		a.CounterpartyID, a.PropertyID, string(a.Type), a.TotalCost, toDate(a.CreatedAt),
	).Scan(&a.ID, &createdAt)
	if err != nil {
		repoLogger.Error("Failed to insert application", err, nil)
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}
	a.CreatedAt = domain.DateOnly(createdAt)

	saved := *a
	return &saved, nil
}

// Update не меняет дату создания, если она не задана
func (r *ApplicationRepository) Update(ctx context.Context, a *domain.Application) error {
	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE applications SET
			counterparty_id = $2, property_id = $3, type = $4, total_cost = $5,
			created_at = COALESCE($6, created_at)
		WHERE id = $1`,
		a.ID, a.CounterpartyID, a.PropertyID, string(a.Type), a.TotalCost, toDate(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update application %d: %w", a.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityApplication, a.ID)
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id int) (bool, error) {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete application %d: %w", id, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check application %d: %w", id, err)
	}
	return exists, nil
}
