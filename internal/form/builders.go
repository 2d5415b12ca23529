package form

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"forklift-fleet-backend/internal/model"
)

// ForkliftInput is the payload of the forklift form.
type ForkliftInput struct {
	ID                         string `json:"id"`
	Model                      string `json:"model" validate:"required"`
	Type                       string `json:"type" validate:"required,oneof=gas electric retractable"`
	Capacity                   string `json:"capacity" validate:"required"`
	AcquisitionDate            string `json:"acquisitionDate" validate:"required,fleetdate"`
	LastMaintenance            string `json:"lastMaintenance" validate:"required,fleetdate"`
	Status                     string `json:"status" validate:"required,oneof=operational stopped maintenance"`
	HourMeter                  int    `json:"hourMeter" validate:"gte=0"`
	HourMeterAtLastMaintenance int    `json:"hourMeterAtLastMaintenance" validate:"gte=0,ltefield=HourMeter"`
}

// BuildForklift validates in and returns the forklift it describes.
func BuildForklift(in ForkliftInput) (model.Forklift, error) {
	in.Model = strings.TrimSpace(in.Model)
	if err := check(in); err != nil {
		return model.Forklift{}, err
	}
	return model.Forklift{
		ID:                         strings.TrimSpace(in.ID),
		Model:                      in.Model,
		Type:                       model.ForkliftType(in.Type),
		Capacity:                   in.Capacity,
		AcquisitionDate:            in.AcquisitionDate,
		LastMaintenance:            in.LastMaintenance,
		Status:                     model.ForkliftStatus(in.Status),
		HourMeter:                  in.HourMeter,
		HourMeterAtLastMaintenance: in.HourMeterAtLastMaintenance,
	}, nil
}

// OperatorInput is the payload of the operator form.
type OperatorInput struct {
	ID                string `json:"id"`
	Name              string `json:"name" validate:"required"`
	Role              string `json:"role" validate:"required,oneof=operator supervisor admin"`
	CPF               string `json:"cpf" validate:"required"`
	Contact           string `json:"contact"`
	Shift             string `json:"shift"`
	RegistrationDate  string `json:"registrationDate" validate:"required,fleetdate"`
	ASOExpirationDate string `json:"asoExpirationDate" validate:"required,fleetdate"`
	NRExpirationDate  string `json:"nrExpirationDate" validate:"required,fleetdate"`
	ASOStatus         string `json:"asoStatus" validate:"required,oneof=regular warning expired"`
	NRStatus          string `json:"nrStatus" validate:"required,oneof=regular warning expired"`
}

// BuildOperator validates in and returns the operator it describes.
func BuildOperator(in OperatorInput) (model.Operator, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return model.Operator{}, err
	}
	return model.Operator{
		ID:                strings.TrimSpace(in.ID),
		Name:              in.Name,
		Role:              model.Role(in.Role),
		CPF:               in.CPF,
		Contact:           in.Contact,
		Shift:             in.Shift,
		RegistrationDate:  in.RegistrationDate,
		ASOExpirationDate: in.ASOExpirationDate,
		NRExpirationDate:  in.NRExpirationDate,
		ASOStatus:         model.CertificateStatus(in.ASOStatus),
		NRStatus:          model.CertificateStatus(in.NRStatus),
	}, nil
}

// MaintenanceInput is the payload of the maintenance form.
type MaintenanceInput struct {
	ID            string `json:"id"`
	ForkliftID    string `json:"forkliftId" validate:"required"`
	ForkliftModel string `json:"forkliftModel"`
	Issue         string `json:"issue" validate:"required"`
	ReportedBy    string `json:"reportedBy" validate:"required"`
	ReportedDate  string `json:"reportedDate" validate:"required,fleetdate"`
	Status        string `json:"status" validate:"required,oneof=waiting in_progress completed"`
	CompletedDate string `json:"completedDate" validate:"omitempty,fleetdate"`
}

func maintenanceCompletion(sl validator.StructLevel) {
	in := sl.Current().Interface().(MaintenanceInput)
	completed := in.Status == string(model.MaintenanceCompleted)
	if completed != (in.CompletedDate != "") {
		sl.ReportError(in.CompletedDate, "completedDate", "CompletedDate", "completed_date", "")
	}
}

// BuildMaintenance validates in and returns the maintenance log it describes.
func BuildMaintenance(in MaintenanceInput) (model.Maintenance, error) {
	in.Issue = strings.TrimSpace(in.Issue)
	in.CompletedDate = strings.TrimSpace(in.CompletedDate)
	if err := check(in); err != nil {
		return model.Maintenance{}, err
	}
	return model.Maintenance{
		ID:            strings.TrimSpace(in.ID),
		ForkliftID:    in.ForkliftID,
		ForkliftModel: in.ForkliftModel,
		Issue:         in.Issue,
		ReportedBy:    in.ReportedBy,
		ReportedDate:  in.ReportedDate,
		Status:        model.MaintenanceStatus(in.Status),
		CompletedDate: in.CompletedDate,
	}, nil
}

// GasSupplyInput is the payload of the gas supply form.
type GasSupplyInput struct {
	ID              string  `json:"id"`
	Date            string  `json:"date" validate:"required,fleetdate"`
	ForkliftID      string  `json:"forkliftId" validate:"required"`
	ForkliftModel   string  `json:"forkliftModel"`
	Quantity        float64 `json:"quantity" validate:"gt=0"`
	HourMeterBefore int     `json:"hourMeterBefore" validate:"gte=0"`
	HourMeterAfter  int     `json:"hourMeterAfter" validate:"gtfield=HourMeterBefore"`
	Operator        string  `json:"operator" validate:"required"`
}

// BuildGasSupply validates in and returns the gas supply it describes.
func BuildGasSupply(in GasSupplyInput) (model.GasSupply, error) {
	if err := check(in); err != nil {
		return model.GasSupply{}, err
	}
	return model.GasSupply{
		ID:              strings.TrimSpace(in.ID),
		Date:            in.Date,
		ForkliftID:      in.ForkliftID,
		ForkliftModel:   in.ForkliftModel,
		Quantity:        in.Quantity,
		HourMeterBefore: in.HourMeterBefore,
		HourMeterAfter:  in.HourMeterAfter,
		Operator:        in.Operator,
	}, nil
}

// OperationInput is the payload used to start or close an operation.
type OperationInput struct {
	ID               string  `json:"id"`
	OperatorID       string  `json:"operatorId" validate:"required"`
	OperatorName     string  `json:"operatorName"`
	ForkliftID       string  `json:"forkliftId" validate:"required"`
	ForkliftModel    string  `json:"forkliftModel"`
	Sector           string  `json:"sector" validate:"required"`
	InitialHourMeter int     `json:"initialHourMeter" validate:"gte=0"`
	CurrentHourMeter int     `json:"currentHourMeter" validate:"omitempty,gtefield=InitialHourMeter"`
	GasConsumption   float64 `json:"gasConsumption" validate:"gte=0"`
	StartTime        string  `json:"startTime" validate:"required"`
	EndTime          string  `json:"endTime" validate:"required_if=Status completed"`
	Status           string  `json:"status" validate:"required,oneof=active completed"`
}

// BuildOperation validates in and returns the operation it describes.
func BuildOperation(in OperationInput) (model.Operation, error) {
	if err := check(in); err != nil {
		return model.Operation{}, err
	}
	return model.Operation{
		ID:               strings.TrimSpace(in.ID),
		OperatorID:       in.OperatorID,
		OperatorName:     in.OperatorName,
		ForkliftID:       in.ForkliftID,
		ForkliftModel:    in.ForkliftModel,
		Sector:           in.Sector,
		InitialHourMeter: in.InitialHourMeter,
		CurrentHourMeter: in.CurrentHourMeter,
		GasConsumption:   in.GasConsumption,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Status:           model.OperationStatus(in.Status),
	}, nil
}
