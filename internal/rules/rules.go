// Package rules holds the registry's pure validation predicates. Nothing here
// reads the clock, a store or the context, so every result depends only on
// the arguments.
package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	subdivision "landregistry/internal/subdivision/models"
	dErrors "landregistry/pkg/domain-errors"
)

// MinParcels is the smallest number of parcels a subdivision may produce.
const MinParcels = 2

// SubdivisionResult summarises a valid subdivision.
type SubdivisionResult struct {
	Total          decimal.Decimal `json:"total_size"`
	Residue        decimal.Decimal `json:"residue_size"`
	NewParcelCount int             `json:"new_parcel_count"`
}

// Field pairs a form field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// RequireFields fails with CodeMissingField naming the first blank field.
func RequireFields(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return dErrors.Newf(dErrors.CodeMissingField, "%s is required", f.Name)
		}
	}
	return nil
}

// ValidateTransferRequest checks that the three transfer fields are present.
// Any non-blank string is accepted as an owner name.
func ValidateTransferRequest(landID, currentOwner, newOwner string) error {
	return RequireFields(
		Field{Name: "land_id", Value: landID},
		Field{Name: "current_owner", Value: currentOwner},
		Field{Name: "new_owner", Value: newOwner},
	)
}

// SumParcelSizes totals the parcel sizes, counting a missing size as zero.
func SumParcelSizes(parcels []subdivision.Parcel) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parcels {
		if p.Size.Valid {
			total = total.Add(p.Size.Decimal)
		}
	}
	return total
}

// ValidateSubdivision checks a proposed split of a plot of originalSize acres.
//
// Checks run in order: at least MinParcels parcels, total not above the
// original, then every parcel complete (name, size and coordinates). On
// success the residue is whatever the parcels leave over, and it becomes one
// extra parcel when positive.
func ValidateSubdivision(originalSize decimal.Decimal, parcels []subdivision.Parcel) (SubdivisionResult, error) {
	if len(parcels) < MinParcels {
		return SubdivisionResult{}, dErrors.Newf(dErrors.CodeTooFewParcels,
			"at least %d parcels are required, got %d", MinParcels, len(parcels))
	}

	total := SumParcelSizes(parcels)
	if total.GreaterThan(originalSize) {
		return SubdivisionResult{}, dErrors.Newf(dErrors.CodeExceedsOriginal,
			"parcels total %s acres, original is %s acres", total.String(), originalSize.String())
	}

	for i, p := range parcels {
		if !isComplete(p) {
			return SubdivisionResult{}, dErrors.Newf(dErrors.CodeIncompleteParcel,
				"parcel %d (%q) is missing name, size or coordinates", i+1, p.Name)
		}
	}

	residue := decimal.Max(decimal.Zero, originalSize.Sub(total))
	count := len(parcels)
	if residue.IsPositive() {
		count++
	}
	return SubdivisionResult{Total: total, Residue: residue, NewParcelCount: count}, nil
}

func isComplete(p subdivision.Parcel) bool {
	return p.Size.Valid &&
		strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Coordinates) != ""
}
