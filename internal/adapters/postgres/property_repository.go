package postgres

import (
	"context"
	"errors"
	"fmt"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyColumns = `id, cadastral_number, type, purpose, address, total_floors,
	total_area, room_count, ceiling_height, floor, has_encumbrances`

// PropertyRepository реализует EntityStore[domain.Property].
// Тип и назначение хранятся строками с каноническими именами.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) (*PropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyRepository{pool: pool}, nil
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	var (
		p                  domain.Property
		propertyType       string
		purpose            string
		totalArea, ceiling pgtype.Numeric
	)
	err := row.Scan(
		&p.ID, &p.CadastralNumber, &propertyType, &purpose, &p.Address, &p.TotalFloors,
		&totalArea, &p.RoomCount, &ceiling, &p.Floor, &p.HasEncumbrances,
	)
	if err != nil {
		return nil, err
	}
	if err := fillProperty(&p, propertyType, purpose, totalArea, ceiling); err != nil {
		return nil, err
	}
	return &p, nil
}

func fillProperty(p *domain.Property, propertyType, purpose string, totalArea, ceiling pgtype.Numeric) error {
	p.Type = domain.PropertyType(propertyType)
	p.Purpose = domain.PropertyPurpose(purpose)

	var err error
	if p.TotalArea, err = fromNumeric(totalArea); err != nil {
		return fmt.Errorf("total_area of property %d: %w", p.ID, err)
	}
	if p.CeilingHeight, err = fromNumeric(ceiling); err != nil {
		return fmt.Errorf("ceiling_height of property %d: %w", p.ID, err)
	}
	return nil
}

func (r *PropertyRepository) GetAll(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during properties rows iteration: %w", err)
	}
	return result, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int) (*domain.Property, error) {
	p, err := scanProperty(r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %d: %w", id, err)
	}
	return p, nil
}

func (r *PropertyRepository) Add(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    "Add",
	})

	err := r.pool.QueryRow(ctx, `
		INSERT INTO properties (cadastral_number, type, purpose, address, total_floors,
			total_area, room_count, ceiling_height, floor, has_encumbrances)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.CadastralNumber, string(p.Type), string(p.Purpose), p.Address, p.TotalFloors,
		toNumeric(p.TotalArea), p.RoomCount, toNumeric(p.CeilingHeight), p.Floor, p.HasEncumbrances,
	).Scan(&p.ID)
	if err != nil {
		repoLogger.Error("Failed to insert property", err, nil)
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	saved := *p
	return &saved, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE properties SET
			cadastral_number = $2, type = $3, purpose = $4, address = $5, total_floors = $6,
			total_area = $7, room_count = $8, ceiling_height = $9, floor = $10, has_encumbrances = $11
		WHERE id = $1`,
		p.ID, p.CadastralNumber, string(p.Type), string(p.Purpose), p.Address, p.TotalFloors,
		toNumeric(p.TotalArea), p.RoomCount, toNumeric(p.CeilingHeight), p.Floor, p.HasEncumbrances,
	)
	if err != nil {
		return fmt.Errorf("failed to update property %d: %w", p.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewNotFound(domain.EntityProperty, p.ID)
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id int) (bool, error) {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete property %d: %w", id, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *PropertyRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check property %d: %w", id, err)
	}
	return exists, nil
}
