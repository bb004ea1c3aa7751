package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

func TestScanCreditCard(t *testing.T) {
	cc, err := scanCreditCard(
		sql.NullString{String: "5000.00", Valid: true},
		sql.NullFloat64{Float64: 24.99, Valid: true},
		sql.NullFloat64{Float64: 2, Valid: true},
		sql.NullInt64{Int64: 15, Valid: true},
	)
	require.NoError(t, err)
	assert.Equal(t, models.Money(500000), cc.Limit)
	assert.Equal(t, 24.99, cc.APR)
	assert.Equal(t, 15, cc.PaymentDueDay)

	cc, err = scanCreditCard(sql.NullString{}, sql.NullFloat64{}, sql.NullFloat64{}, sql.NullInt64{})
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), cc.Limit)

	_, err = scanCreditCard(sql.NullString{String: "lots", Valid: true}, sql.NullFloat64{}, sql.NullFloat64{}, sql.NullInt64{})
	assert.Error(t, err)
}
