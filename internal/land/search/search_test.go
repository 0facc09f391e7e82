package search

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landregistry/internal/land/models"
	"landregistry/internal/land/seed"
	dErrors "landregistry/pkg/domain-errors"
)

func demoRecords(t *testing.T) []models.LandRecord {
	t.Helper()
	records, err := seed.Records()
	require.NoError(t, err)
	return records
}

func landIDs(records []models.LandRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.LandID
	}
	return ids
}

func TestFilter(t *testing.T) {
	records := demoRecords(t)

	tests := []struct {
		name  string
		field Field
		query string
		want  []string
	}{
		{"land id fragment", FieldLandID, "2024-002", []string{"LT-2024-002"}},
		{"land id prefix matches all", FieldLandID, "lt-2024", []string{"LT-2024-001", "LT-2024-002", "LT-2024-003"}},
		{"owner case-insensitive", FieldOwnerName, "NAKATO", []string{"LT-2024-002"}},
		{"owner no match", FieldOwnerName, "zzz", []string{}},
		{"location by district", FieldLocation, "wakiso", []string{"LT-2024-002"}},
		{"location by address", FieldLocation, "industrial area", []string{"LT-2024-003"}},
		{"gps", FieldGPS, "33.2044", []string{"LT-2024-003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(records, tt.field, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, landIDs(got))
		})
	}
}

func TestFilterRejectsBlankQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := Filter(demoRecords(t), FieldOwnerName, q)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeEmptyQuery))
	}
}

func TestFilterWithoutFieldSearchesLandID(t *testing.T) {
	got, err := Filter(demoRecords(t), "", "2024-002")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LT-2024-002", got[0].LandID)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("")
	require.NoError(t, err)
	assert.Equal(t, FieldLandID, f)

	f, err = ParseField("gps")
	require.NoError(t, err)
	assert.Equal(t, FieldGPS, f)

	_, err = ParseField("nin")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

// A record is returned iff its selected field contains the query.
func TestFilterContainment(t *testing.T) {
	records := demoRecords(t)
	rng := rand.New(rand.NewPCG(3, 5))
	alphabet := []rune("ltk-0123459ajmnoskd ")

	for i := range 300 {
		opt := Fields()[rng.IntN(len(Fields()))]
		n := 1 + rng.IntN(3)
		var b strings.Builder
		for range n {
			b.WriteRune(alphabet[rng.IntN(len(alphabet))])
		}
		query := b.String()
		if strings.TrimSpace(query) == "" {
			continue
		}

		got, err := Filter(records, opt.Value, query)
		require.NoError(t, err)

		included := map[string]bool{}
		for _, r := range got {
			included[r.LandID] = true
		}
		q := strings.ToLower(query)
		for _, r := range records {
			var want bool
			switch opt.Value {
			case FieldLandID:
				want = strings.Contains(strings.ToLower(r.LandID), q)
			case FieldOwnerName:
				want = strings.Contains(strings.ToLower(r.OwnerName), q)
			case FieldLocation:
				want = strings.Contains(strings.ToLower(r.Location), q) || strings.Contains(strings.ToLower(r.District), q)
			case FieldGPS:
				want = strings.Contains(strings.ToLower(r.GPSCoordinates), q)
			}
			assert.Equal(t, want, included[r.LandID], "case %d field=%s query=%q record=%s", i, opt.Value, query, r.LandID)
		}
	}
}
