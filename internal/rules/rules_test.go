package rules

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subdivision "landregistry/internal/subdivision/models"
	dErrors "landregistry/pkg/domain-errors"
)

func parcel(name, size, coords string) subdivision.Parcel {
	p := subdivision.Parcel{Name: name, Coordinates: coords, LandUse: subdivision.DefaultLandUse}
	if size != "" {
		p.Size = decimal.NewNullDecimal(decimal.RequireFromString(size))
	}
	return p
}

func acres(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidateSubdivision(t *testing.T) {
	tests := []struct {
		name     string
		original string
		parcels  []subdivision.Parcel
		wantCode dErrors.Code
		residue  string
		count    int
	}{
		{
			name:     "residue becomes an extra parcel",
			original: "10",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "0.3,32.5"), parcel("Parcel B", "4", "0.4,32.6")},
			residue:  "3",
			count:    3,
		},
		{
			name:     "exact split has no residue",
			original: "7",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "x"), parcel("Parcel B", "4", "y")},
			residue:  "0",
			count:    2,
		},
		{
			name:     "parcels exceed original",
			original: "5",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "x"), parcel("Parcel B", "4", "y")},
			wantCode: dErrors.CodeExceedsOriginal,
		},
		{
			name:     "single parcel",
			original: "5",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "x")},
			wantCode: dErrors.CodeTooFewParcels,
		},
		{
			name:     "missing size",
			original: "5",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "x"), parcel("Parcel B", "", "y")},
			wantCode: dErrors.CodeIncompleteParcel,
		},
		{
			name:     "blank coordinates",
			original: "5",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "1", "x"), parcel("Parcel B", "1", "   ")},
			wantCode: dErrors.CodeIncompleteParcel,
		},
		{
			name:     "blank name",
			original: "5",
			parcels:  []subdivision.Parcel{parcel(" ", "1", "x"), parcel("Parcel B", "1", "y")},
			wantCode: dErrors.CodeIncompleteParcel,
		},
		{
			name:     "too few wins over exceeding",
			original: "1",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "x")},
			wantCode: dErrors.CodeTooFewParcels,
		},
		{
			name:     "exceeding wins over incomplete",
			original: "1",
			parcels:  []subdivision.Parcel{parcel("Parcel A", "3", "x"), parcel("Parcel B", "", "")},
			wantCode: dErrors.CodeExceedsOriginal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateSubdivision(acres(tt.original), tt.parcels)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, acres(tt.residue).Equal(result.Residue), "residue %s", result.Residue)
			assert.Equal(t, tt.count, result.NewParcelCount)
		})
	}
}

func TestValidateSubdivisionProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := range 500 {
		original := decimal.New(int64(rng.IntN(2000)), -2)
		n := rng.IntN(5)
		parcels := make([]subdivision.Parcel, n)
		complete := true
		sum := decimal.Zero
		for j := range parcels {
			p := subdivision.Parcel{Name: subdivision.NextParcelName(j), Coordinates: "0.3476,32.5825"}
			if rng.IntN(10) > 0 {
				size := decimal.New(int64(rng.IntN(800)), -2)
				p.Size = decimal.NewNullDecimal(size)
				sum = sum.Add(size)
			} else {
				complete = false
			}
			if rng.IntN(12) == 0 {
				p.Coordinates = ""
				complete = false
			}
			parcels[j] = p
		}

		result, err := ValidateSubdivision(original, parcels)
		again, errAgain := ValidateSubdivision(original, parcels)

		wantOK := n >= MinParcels && sum.LessThanOrEqual(original) && complete
		assert.Equal(t, wantOK, err == nil, "case %d: original=%s sum=%s n=%d complete=%v err=%v", i, original, sum, n, complete, err)
		assert.Equal(t, err, errAgain, "case %d not idempotent", i)
		assert.Equal(t, result, again, "case %d not idempotent", i)

		if err == nil {
			assert.False(t, result.Residue.IsNegative(), "case %d residue negative", i)
			assert.True(t, result.Residue.Equal(decimal.Max(decimal.Zero, original.Sub(sum))), "case %d residue", i)
			assert.True(t, result.Total.Equal(sum), "case %d total", i)
		}
	}
}

func TestValidateTransferRequest(t *testing.T) {
	assert.NoError(t, ValidateTransferRequest("LT-2024-001", "John Mukasa", "Jane Doe"))
	assert.NoError(t, ValidateTransferRequest("anything", "x", "y"))

	tests := []struct {
		name                    string
		landID, current, newOne string
		field                   string
	}{
		{"land id", "", "John", "Jane", "land_id"},
		{"current owner", "LT-1", "  ", "Jane", "current_owner"},
		{"new owner", "LT-1", "John", "\t", "new_owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransferRequest(tt.landID, tt.current, tt.newOne)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))
			assert.True(t, strings.Contains(err.Error(), tt.field))
		})
	}
}
