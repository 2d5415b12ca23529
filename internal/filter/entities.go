package filter

import "forklift-fleet-backend/internal/model"

// Filter dimension keys.
const (
	DimType       = "type"
	DimStatus     = "status"
	DimRole       = "role"
	DimShift      = "shift"
	DimCertStatus = "cert_status"
	DimForklift   = "forklift"
	DimOperator   = "operator"
	DimSector     = "sector"
)

// Forklifts searches model and ID.
var Forklifts = Matcher[model.Forklift]{
	Fields: func(f model.Forklift) []string { return []string{f.Model, f.ID} },
	Dimensions: map[string]Predicate[model.Forklift]{
		DimType:   Equals(func(f model.Forklift) model.ForkliftType { return f.Type }),
		DimStatus: Equals(func(f model.Forklift) model.ForkliftStatus { return f.Status }),
	},
}

// Operators searches name and ID.
var Operators = Matcher[model.Operator]{
	Fields: func(o model.Operator) []string { return []string{o.Name, o.ID} },
	Dimensions: map[string]Predicate[model.Operator]{
		DimRole:       Equals(func(o model.Operator) model.Role { return o.Role }),
		DimShift:      Equals(func(o model.Operator) string { return o.Shift }),
		DimCertStatus: certificateStatus,
	},
}

// certificateStatus looks at both certificates of an operator. "regular"
// requires both to be regular, while "warning" and "expired" match when
// either certificate has that status.
func certificateStatus(o model.Operator, value string) bool {
	want := model.CertificateStatus(value)
	if want == model.CertificateRegular {
		return o.ASOStatus == want && o.NRStatus == want
	}
	return o.ASOStatus == want || o.NRStatus == want
}

// Maintenances searches forklift model, issue and reporter.
var Maintenances = Matcher[model.Maintenance]{
	Fields: func(m model.Maintenance) []string { return []string{m.ForkliftModel, m.Issue, m.ReportedBy} },
	Dimensions: map[string]Predicate[model.Maintenance]{
		DimStatus:   Equals(func(m model.Maintenance) model.MaintenanceStatus { return m.Status }),
		DimForklift: Equals(func(m model.Maintenance) string { return m.ForkliftID }),
	},
}

// GasSupplies searches forklift model, operator and ID.
var GasSupplies = Matcher[model.GasSupply]{
	Fields: func(g model.GasSupply) []string { return []string{g.ForkliftModel, g.Operator, g.ID} },
	Dimensions: map[string]Predicate[model.GasSupply]{
		DimForklift: Equals(func(g model.GasSupply) string { return g.ForkliftID }),
		DimOperator: Equals(func(g model.GasSupply) string { return g.Operator }),
	},
}

// Operations searches operator name, forklift model and sector.
var Operations = Matcher[model.Operation]{
	Fields: func(o model.Operation) []string { return []string{o.OperatorName, o.ForkliftModel, o.Sector} },
	Dimensions: map[string]Predicate[model.Operation]{
		DimStatus:   Equals(func(o model.Operation) model.OperationStatus { return o.Status }),
		DimSector:   Equals(func(o model.Operation) string { return o.Sector }),
		DimForklift: Equals(func(o model.Operation) string { return o.ForkliftID }),
	},
}
