package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"estate-agency/internal/contextkeys"
	"estate-agency/internal/core/domain"
	"estate-agency/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema создает таблицы, если их еще нет. Миграций нет:
// существующие таблицы не изменяются.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	// без аргументов pgx использует простой протокол, несколько команд допустимы
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Seed загружает набор данных в пустую базу одной транзакцией
func Seed(ctx context.Context, pool *pgxpool.Pool, data domain.Dataset) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresSeeder",
		"method":    "Seed",
	})

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	err = tx.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM counterparties) + (SELECT COUNT(*) FROM properties) + (SELECT COUNT(*) FROM applications)`).Scan(&total)
	if err != nil {
		return fmt.Errorf("failed to count existing rows: %w", err)
	}
	if total > 0 {
		repoLogger.Info("Database is not empty, seed skipped", port.Fields{"rows": total})
		return nil
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"counterparties"},
		[]string{"id", "full_name", "passport_number", "phone_number"},
		pgx.CopyFromSlice(len(data.Counterparties), func(i int) ([]any, error) {
			c := data.Counterparties[i]
			return []any{c.ID, c.FullName, c.PassportNumber, c.PhoneNumber}, nil
		}),
	); err != nil {
		return fmt.Errorf("failed to copy counterparties: %w", err)
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"properties"},
		[]string{"id", "cadastral_number", "type", "purpose", "address", "total_floors",
			"total_area", "room_count", "ceiling_height", "floor", "has_encumbrances"},
		pgx.CopyFromSlice(len(data.Properties), func(i int) ([]any, error) {
			p := data.Properties[i]
			return []any{p.ID, p.CadastralNumber, string(p.Type), string(p.Purpose), p.Address, p.TotalFloors,
				toNumeric(p.TotalArea), p.RoomCount, toNumeric(p.CeilingHeight), p.Floor, p.HasEncumbrances}, nil
		}),
	); err != nil {
		return fmt.Errorf("failed to copy properties: %w", err)
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"applications"},
		[]string{"id", "counterparty_id", "property_id", "type", "total_cost", "created_at"},
		pgx.CopyFromSlice(len(data.Applications), func(i int) ([]any, error) {
			a := data.Applications[i]
			return []any{a.ID, a.CounterpartyID, a.PropertyID, string(a.Type), a.TotalCost, toDate(a.CreatedAt)}, nil
		}),
	); err != nil {
		return fmt.Errorf("failed to copy applications: %w", err)
	}

	// id вставлены явно, identity-последовательности нужно сдвинуть
	for _, table := range []string{"counterparties", "properties", "applications"} {
		q := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`, table, table)
		if _, err := tx.Exec(ctx, q); err != nil {
			return fmt.Errorf("failed to reset %s id sequence: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	repoLogger.Info("Seed data loaded", port.Fields{
		"counterparties": len(data.Counterparties),
		"properties":     len(data.Properties),
		"applications":   len(data.Applications),
	})
	return nil
}

var (
	_ port.EntityStore[domain.Counterparty] = (*CounterpartyRepository)(nil)
	_ port.EntityStore[domain.Property]     = (*PropertyRepository)(nil)
	_ port.EntityStore[domain.Application]  = (*ApplicationRepository)(nil)
)
