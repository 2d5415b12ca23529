package model

// ForkliftCounts partitions forklifts by stored status.
type ForkliftCounts struct {
	Total       int `json:"total"`
	Operational int `json:"operational"`
	Stopped     int `json:"stopped"`
	Maintenance int `json:"maintenance"`
	Unknown     int `json:"unknown,omitempty"`
}

// OperatorCounts partitions operators by the worse of their two stored
// certificate statuses.
type OperatorCounts struct {
	Total   int `json:"total"`
	Regular int `json:"regular"`
	Warning int `json:"warning"`
	Expired int `json:"expired"`
	Unknown int `json:"unknown,omitempty"`
}

// DashboardStats is the derived aggregate shown on the dashboard.
type DashboardStats struct {
	Forklifts           ForkliftCounts `json:"forklifts"`
	Operators           OperatorCounts `json:"operators"`
	ActiveOperations    int            `json:"activeOperations"`
	PendingMaintenances int            `json:"pendingMaintenances"`
	SuppliesToday       int            `json:"suppliesToday"`
	CertificatesDueSoon int            `json:"certificatesDueSoon"`
}
