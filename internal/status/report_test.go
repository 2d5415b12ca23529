package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forklift-fleet-backend/internal/model"
)

func TestCheckOperator(t *testing.T) {
	c := &Classifier{WarningWindowDays: DefaultWarningWindowDays, Now: func() time.Time { return day(2024, 3, 1) }}

	op := model.Operator{
		ID:                "OP001",
		ASOExpirationDate: "15/03/2024",
		NRExpirationDate:  "20/05/2024",
		ASOStatus:         model.CertificateRegular, // stored value has drifted
		NRStatus:          model.CertificateRegular,
	}

	report, err := CheckOperator(op, c)
	require.NoError(t, err)

	assert.Equal(t, "OP001", report.OperatorID)
	assert.Equal(t, model.CertificateWarning, report.ASO.Derived)
	assert.True(t, report.ASO.Inconsistent)
	assert.Equal(t, model.CertificateRegular, report.NR.Derived)
	assert.False(t, report.NR.Inconsistent)
	assert.True(t, report.Inconsistent())
	assert.Len(t, report.Checks(), 2)

	// The stored status is reported, never replaced.
	assert.Equal(t, model.CertificateRegular, report.ASO.Stored)
	assert.Equal(t, model.CertificateRegular, op.ASOStatus)
}

func TestCheckOperator_InvalidDate(t *testing.T) {
	c := &Classifier{Now: func() time.Time { return day(2024, 3, 1) }}
	_, err := CheckOperator(model.Operator{ID: "OP9", ASOExpirationDate: "15/03/2024", NRExpirationDate: "??"}, c)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
