// Package search filters land records by a single selectable field.
package search

import (
	"strings"

	"landregistry/internal/land/models"
	dErrors "landregistry/pkg/domain-errors"
)

// Field selects which part of a record a query is matched against.
type Field string

const (
	FieldLandID    Field = "landId"
	FieldOwnerName Field = "ownerName"
	FieldLocation  Field = "location"
	FieldGPS       Field = "gps"
)

// FieldOption is a selectable search field with its display label.
type FieldOption struct {
	Value Field  `json:"value"`
	Label string `json:"label"`
}

// Fields lists the search fields in display order.
func Fields() []FieldOption {
	return []FieldOption{
		{Value: FieldLandID, Label: "Land ID"},
		{Value: FieldOwnerName, Label: "Owner Name"},
		{Value: FieldLocation, Label: "Location"},
		{Value: FieldGPS, Label: "GPS Coordinates"},
	}
}

// ParseField validates a field name. An empty name selects FieldLandID.
func ParseField(s string) (Field, error) {
	if s == "" {
		return FieldLandID, nil
	}
	switch f := Field(s); f {
	case FieldLandID, FieldOwnerName, FieldLocation, FieldGPS:
		return f, nil
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown search field %q", s)
}

// Filter returns, in input order, the records whose selected field contains
// query as a case-insensitive substring. For FieldLocation either the
// location or the district may match. A blank query is rejected before any
// record is examined.
func Filter(records []models.LandRecord, field Field, query string) ([]models.LandRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, dErrors.New(dErrors.CodeEmptyQuery, "search query is required")
	}
	field, err := ParseField(string(field))
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]models.LandRecord, 0)
	for _, r := range records {
		if Matches(r, field, needle) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// Matches reports whether r matches an already lowercased needle.
func Matches(r models.LandRecord, field Field, needle string) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}
	switch field {
	case FieldLandID:
		return contains(r.LandID)
	case FieldOwnerName:
		return contains(r.OwnerName)
	case FieldLocation:
		return contains(r.Location) || contains(r.District)
	case FieldGPS:
		return contains(r.GPSCoordinates)
	}
	return false
}
