// Package seed loads the demonstration land records bundled with the binary.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"landregistry/internal/land/models"
	"landregistry/pkg/platform/sentinel"
)

const dateLayout = "2006-01-02"

//go:embed records.yaml
var recordsYAML []byte

type seedFile struct {
	Records []seedRecord `yaml:"records"`
}

type seedRecord struct {
	LandID           string   `yaml:"land_id"`
	OwnerName        string   `yaml:"owner_name"`
	OwnerNIN         string   `yaml:"owner_nin"`
	Location         string   `yaml:"location"`
	District         string   `yaml:"district"`
	SubCounty        string   `yaml:"sub_county"`
	Village          string   `yaml:"village"`
	Size             string   `yaml:"size"`
	Status           string   `yaml:"status"`
	RegistrationDate string   `yaml:"registration_date"`
	LastTransfer     string   `yaml:"last_transfer"`
	GPSCoordinates   string   `yaml:"gps_coordinates"`
	LandUse          string   `yaml:"land_use"`
	Documents        []string `yaml:"documents"`
}

// Records returns the bundled demonstration records.
func Records() ([]models.LandRecord, error) {
	return Parse(recordsYAML)
}

// Parse decodes a seed document.
func Parse(data []byte) ([]models.LandRecord, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	records := make([]models.LandRecord, 0, len(file.Records))
	for i, r := range file.Records {
		record, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("seed record %d (%s): %w", i, r.LandID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r seedRecord) toModel() (models.LandRecord, error) {
	size, err := decimal.NewFromString(r.Size)
	if err != nil {
		return models.LandRecord{}, fmt.Errorf("size: %w", err)
	}
	status := models.Status(r.Status)
	if !status.IsValid() {
		return models.LandRecord{}, fmt.Errorf("unknown status %q", r.Status)
	}
	registered, err := time.Parse(dateLayout, r.RegistrationDate)
	if err != nil {
		return models.LandRecord{}, fmt.Errorf("registration_date: %w", err)
	}

	record := models.LandRecord{
		LandID:           r.LandID,
		OwnerName:        r.OwnerName,
		OwnerNIN:         r.OwnerNIN,
		Location:         r.Location,
		District:         r.District,
		SubCounty:        r.SubCounty,
		Village:          r.Village,
		Size:             size,
		Status:           status,
		RegistrationDate: registered,
		GPSCoordinates:   r.GPSCoordinates,
		LandUse:          r.LandUse,
		Documents:        r.Documents,
	}
	if r.LastTransfer != "" {
		last, err := time.Parse(dateLayout, r.LastTransfer)
		if err != nil {
			return models.LandRecord{}, fmt.Errorf("last_transfer: %w", err)
		}
		record.LastTransfer = &last
	}
	return record, nil
}

// Creator is the slice of a land store the seeder needs.
type Creator interface {
	Create(ctx context.Context, record *models.LandRecord) error
}

// Load inserts every bundled record, skipping ones already present so it
// can run on every start against a durable store.
func Load(ctx context.Context, store Creator) (int, error) {
	records, err := Records()
	if err != nil {
		return 0, err
	}
	inserted := 0
	for i := range records {
		err := store.Create(ctx, &records[i])
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, sentinel.ErrConflict):
		default:
			return inserted, fmt.Errorf("seed %s: %w", records[i].LandID, err)
		}
	}
	return inserted, nil
}
