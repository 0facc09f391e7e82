package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLandUse is assigned to parcels that do not name a land use.
const DefaultLandUse = "Residential"

// Parcel is one proposed piece of a subdivided plot. Size is null until the
// applicant fills it in.
type Parcel struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Size        decimal.NullDecimal `json:"size"`
	Coordinates string              `json:"coordinates"`
	LandUse     string              `json:"land_use"`
}

// Status tracks a subdivision request. Approval happens outside this service,
// so only Submitted is produced today.
type Status string

const (
	StatusSubmitted Status = "submitted"
)

// Submission is an accepted subdivision request together with the figures
// computed when it was validated.
type Submission struct {
	ID             string          `json:"id"`
	OriginalLandID string          `json:"original_land_id"`
	OriginalSize   decimal.Decimal `json:"original_size"`
	Reason         string          `json:"reason"`
	Parcels        []Parcel        `json:"parcels"`
	Total          decimal.Decimal `json:"total_size"`
	Residue        decimal.Decimal `json:"residue_size"`
	NewParcelCount int             `json:"new_parcel_count"`
	Status         Status          `json:"status"`
	SubmittedBy    string          `json:"submitted_by,omitempty"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// SubmitRequest is the subdivision form as posted by the client.
type SubmitRequest struct {
	OriginalLandID string              `json:"original_land_id"`
	OriginalSize   decimal.NullDecimal `json:"original_size"`
	Reason         string              `json:"reason"`
	Parcels        []Parcel            `json:"parcels"`
}

// NextParcelName names the parcel at zero-based position n: "Parcel A",
// "Parcel B", ... and "Parcel 27" onwards once the alphabet runs out.
func NextParcelName(n int) string {
	if n >= 0 && n < 26 {
		return fmt.Sprintf("Parcel %c", rune('A'+n))
	}
	return "Parcel " + strconv.Itoa(n+1)
}

// NewParcel returns an empty parcel at position n.
func NewParcel(n int) Parcel {
	return Parcel{
		ID:      strconv.Itoa(n + 1),
		Name:    NextParcelName(n),
		LandUse: DefaultLandUse,
	}
}

// DefaultParcels is the starting form: two empty residential parcels.
func DefaultParcels() []Parcel {
	return []Parcel{NewParcel(0), NewParcel(1)}
}
