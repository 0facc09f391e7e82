package models

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the registry state of a parcel.
type Status string

const (
	StatusActive          Status = "Active"
	StatusPendingTransfer Status = "Pending Transfer"
	StatusDisputed        Status = "Disputed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPendingTransfer, StatusDisputed:
		return true
	}
	return false
}

// LandUse categories offered on the registration form.
const (
	LandUseResidential  = "residential"
	LandUseCommercial   = "commercial"
	LandUseAgricultural = "agricultural"
	LandUseIndustrial   = "industrial"
	LandUseMixed        = "mixed"
)

// LandUseOption is a selectable land use with its display label.
type LandUseOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LandUses lists the registration form's land use choices in display order.
func LandUses() []LandUseOption {
	return []LandUseOption{
		{Value: LandUseResidential, Label: "Residential"},
		{Value: LandUseCommercial, Label: "Commercial"},
		{Value: LandUseAgricultural, Label: "Agricultural"},
		{Value: LandUseIndustrial, Label: "Industrial"},
		{Value: LandUseMixed, Label: "Mixed Use"},
	}
}

// NormalizeLandUse maps a value or a label to the display label stored on
// records. The second result is false for anything outside LandUses.
func NormalizeLandUse(s string) (string, bool) {
	s = strings.TrimSpace(s)
	idx := slices.IndexFunc(LandUses(), func(o LandUseOption) bool {
		return strings.EqualFold(o.Value, s) || strings.EqualFold(o.Label, s)
	})
	if idx < 0 {
		return "", false
	}
	return LandUses()[idx].Label, true
}

// SupportingDocuments names the uploads the registration form asks for.
func SupportingDocuments() []string {
	return []string{"Survey Plan", "Valuation Report", "Tax Payment Receipt"}
}

// LandRecord is one registered parcel.
type LandRecord struct {
	LandID           string          `json:"land_id"`
	OwnerName        string          `json:"owner_name"`
	OwnerNIN         string          `json:"owner_nin,omitempty"`
	Location         string          `json:"location"`
	District         string          `json:"district"`
	SubCounty        string          `json:"sub_county,omitempty"`
	Village          string          `json:"village,omitempty"`
	Size             decimal.Decimal `json:"size"`
	Status           Status          `json:"status"`
	RegistrationDate time.Time       `json:"registration_date"`
	LastTransfer     *time.Time      `json:"last_transfer,omitempty"`
	GPSCoordinates   string          `json:"gps_coordinates"`
	LandUse          string          `json:"land_use"`
	Documents        []string        `json:"documents,omitempty"`
}

// MarkPendingTransfer flags an active record as mid-transfer. Records that
// are disputed or already pending are left as they are; the result reports
// whether anything changed.
func (r *LandRecord) MarkPendingTransfer() bool {
	if r.Status != StatusActive {
		return false
	}
	r.Status = StatusPendingTransfer
	return true
}

// ReleasePendingTransfer undoes MarkPendingTransfer.
func (r *LandRecord) ReleasePendingTransfer() bool {
	if r.Status != StatusPendingTransfer {
		return false
	}
	r.Status = StatusActive
	return true
}

// ApplyTransfer records a completed change of ownership.
func (r *LandRecord) ApplyTransfer(newOwner string, at time.Time) {
	r.OwnerName = newOwner
	r.OwnerNIN = ""
	if r.Status == StatusPendingTransfer {
		r.Status = StatusActive
	}
	transferred := at
	r.LastTransfer = &transferred
}

// RegisterRequest is the registration form as posted by the client.
type RegisterRequest struct {
	LandID         string              `json:"land_id"`
	OwnerName      string              `json:"owner_name"`
	OwnerNIN       string              `json:"owner_nin"`
	Location       string              `json:"location"`
	District       string              `json:"district"`
	SubCounty      string              `json:"sub_county"`
	Village        string              `json:"village"`
	Size           decimal.NullDecimal `json:"size"`
	GPSCoordinates string              `json:"gps_coordinates"`
	LandUse        string              `json:"land_use"`
	Documents      []string            `json:"documents"`
}

// Normalize trims free-text fields in place.
func (r *RegisterRequest) Normalize() {
	r.LandID = strings.TrimSpace(r.LandID)
	r.OwnerName = strings.TrimSpace(r.OwnerName)
	r.OwnerNIN = strings.TrimSpace(r.OwnerNIN)
	r.Location = strings.TrimSpace(r.Location)
	r.District = strings.TrimSpace(r.District)
	r.SubCounty = strings.TrimSpace(r.SubCounty)
	r.Village = strings.TrimSpace(r.Village)
	r.GPSCoordinates = strings.TrimSpace(r.GPSCoordinates)
	r.LandUse = strings.TrimSpace(r.LandUse)
}

// Summary counts registry records by status.
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
