package model

import "time"

// Role is the function an operator holds.
type Role string

const (
	RoleOperator   Role = "operator"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// CertificateStatus classifies a certificate by its expiration date.
type CertificateStatus string

const (
	CertificateRegular CertificateStatus = "regular"
	CertificateWarning CertificateStatus = "warning"
	CertificateExpired CertificateStatus = "expired"
)

// CertificateStatuses lists every certificate status from best to worst.
var CertificateStatuses = []CertificateStatus{CertificateRegular, CertificateWarning, CertificateExpired}

// Operator is a person licensed to drive the fleet. ASO is the occupational
// health certificate and NR the NR-11 training certificate; each carries a
// stored status that may drift from the status derived from its date.
type Operator struct {
	ID                string            `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Name              string            `gorm:"size:128;not null" json:"name" yaml:"name"`
	Role              Role              `gorm:"size:32;index;not null" json:"role" yaml:"role"`
	CPF               string            `gorm:"column:cpf;size:20" json:"cpf" yaml:"cpf"`
	Contact           string            `gorm:"size:64" json:"contact" yaml:"contact"`
	Shift             string            `gorm:"size:32" json:"shift" yaml:"shift"`
	RegistrationDate  string            `gorm:"size:10" json:"registrationDate" yaml:"registration_date"`
	ASOExpirationDate string            `gorm:"column:aso_expiration_date;size:10" json:"asoExpirationDate" yaml:"aso_expiration_date"`
	NRExpirationDate  string            `gorm:"column:nr_expiration_date;size:10" json:"nrExpirationDate" yaml:"nr_expiration_date"`
	ASOStatus         CertificateStatus `gorm:"column:aso_status;size:16;not null" json:"asoStatus" yaml:"aso_status"`
	NRStatus          CertificateStatus `gorm:"column:nr_status;size:16;not null" json:"nrStatus" yaml:"nr_status"`
	CreatedAt         time.Time         `json:"-" yaml:"-"`
	UpdatedAt         time.Time         `json:"-" yaml:"-"`
}
