package postgres

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"54.5", "120.00", "0.01", "350", "99999999.99"} {
		d := decimal.RequireFromString(s)
		back, err := fromNumeric(toNumeric(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(back), s)
	}
}

func TestFromNumeric_NullAndNaN(t *testing.T) {
	d, err := fromNumeric(pgtype.Numeric{})
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = fromNumeric(pgtype.Numeric{NaN: true, Valid: true})
	assert.Error(t, err)

	d, err = fromNumeric(pgtype.Numeric{Int: big.NewInt(2705), Exp: -3, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "2.705", d.String())
}

func TestToDate(t *testing.T) {
	assert.False(t, toDate(time.Time{}).Valid)

	day := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	got := toDate(day)
	assert.True(t, got.Valid)
	assert.Equal(t, day, got.Time)
}

func TestSchemaIsEmbedded(t *testing.T) {
	for _, table := range []string{"counterparties", "properties", "applications"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Equal(t, 2, strings.Count(schemaSQL, "ON DELETE CASCADE"))
	assert.Contains(t, schemaSQL, "NUMERIC(10,2)")
	assert.Contains(t, schemaSQL, "NUMERIC(5,2)")
}
