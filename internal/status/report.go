package status

import (
	"fmt"

	"forklift-fleet-backend/internal/model"
)

// Certificate names used in reports and alerts.
const (
	CertificateASO = "aso"
	CertificateNR  = "nr"
)

// CertificateCheck compares a stored certificate status with the status
// derived from its expiration date.
type CertificateCheck struct {
	Certificate  string                  `json:"certificate"`
	Expiration   string                  `json:"expiration"`
	Stored       model.CertificateStatus `json:"stored"`
	Derived      model.CertificateStatus `json:"derived"`
	Inconsistent bool                    `json:"inconsistent"`
}

// CertificateReport holds both certificate checks of an operator.
type CertificateReport struct {
	OperatorID string           `json:"operatorId"`
	ASO        CertificateCheck `json:"aso"`
	NR         CertificateCheck `json:"nr"`
}

// Inconsistent reports whether either stored status drifted.
func (r CertificateReport) Inconsistent() bool {
	return r.ASO.Inconsistent || r.NR.Inconsistent
}

// Checks returns both checks in a stable order.
func (r CertificateReport) Checks() []CertificateCheck {
	return []CertificateCheck{r.ASO, r.NR}
}

// CheckOperator derives both certificate statuses of op and flags any that
// disagree with the stored value. The operator itself is never modified.
func CheckOperator(op model.Operator, c *Classifier) (CertificateReport, error) {
	aso, err := check(CertificateASO, op.ASOExpirationDate, op.ASOStatus, c)
	if err != nil {
		return CertificateReport{}, fmt.Errorf("operator %s: %w", op.ID, err)
	}
	nr, err := check(CertificateNR, op.NRExpirationDate, op.NRStatus, c)
	if err != nil {
		return CertificateReport{}, fmt.Errorf("operator %s: %w", op.ID, err)
	}
	return CertificateReport{OperatorID: op.ID, ASO: aso, NR: nr}, nil
}

func check(name, expiration string, stored model.CertificateStatus, c *Classifier) (CertificateCheck, error) {
	derived, err := c.Classify(expiration)
	if err != nil {
		return CertificateCheck{}, fmt.Errorf("%s certificate: %w", name, err)
	}
	return CertificateCheck{
		Certificate:  name,
		Expiration:   expiration,
		Stored:       stored,
		Derived:      derived,
		Inconsistent: stored != derived,
	}, nil
}
