package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"landregistry/internal/land/models"
	platformpg "landregistry/internal/platform/postgres"
	"landregistry/pkg/platform/sentinel"
	txcontext "landregistry/pkg/platform/tx"
)

const uniqueViolation = "23505"

const selectColumns = `
	land_id, owner_name, owner_nin, location, district, sub_county, village,
	size_acres, status, registration_date, last_transfer, gps_coordinates,
	land_use, documents`

// Store persists land records in the land_records table. Writes join the
// transaction carried on the context when there is one.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) execer(ctx context.Context) txcontext.Executor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Create(ctx context.Context, record *models.LandRecord) error {
	query := `
		INSERT INTO land_records (
			land_id, owner_name, owner_nin, location, district, sub_county, village,
			size_acres, status, registration_date, last_transfer, gps_coordinates,
			land_use, documents
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		record.LandID,
		record.OwnerName,
		record.OwnerNIN,
		record.Location,
		record.District,
		record.SubCounty,
		record.Village,
		record.Size,
		string(record.Status),
		record.RegistrationDate,
		nullTime(record.LastTransfer),
		record.GPSCoordinates,
		record.LandUse,
		pq.Array(documents(record.Documents)),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("land %s: %w", record.LandID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert land record: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, landID string) (*models.LandRecord, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM land_records WHERE upper(land_id) = upper($1)`, landID)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("land %s: %w", landID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find land record: %w", err)
	}
	return record, nil
}

func (s *Store) List(ctx context.Context) ([]models.LandRecord, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM land_records ORDER BY land_id`)
	if err != nil {
		return nil, fmt.Errorf("list land records: %w", err)
	}
	defer rows.Close()

	out := make([]models.LandRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan land record: %w", err)
		}
		out = append(out, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate land records: %w", err)
	}
	return out, nil
}

// Update locks the row, applies fn and writes the result back, all inside
// one transaction. An enclosing transaction on ctx is reused.
func (s *Store) Update(ctx context.Context, landID string, fn func(*models.LandRecord) error) (*models.LandRecord, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.update(ctx, landID, fn)
	}

	var record *models.LandRecord
	err := platformpg.RunInTx(ctx, s.db, func(ctx context.Context) error {
		var err error
		record, err = s.update(ctx, landID, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) update(ctx context.Context, landID string, fn func(*models.LandRecord) error) (*models.LandRecord, error) {
	exec := s.execer(ctx)
	row := exec.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM land_records WHERE upper(land_id) = upper($1) FOR UPDATE`, landID)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("land %s: %w", landID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock land record: %w", err)
	}

	if err := fn(record); err != nil {
		return nil, err
	}

	query := `
		UPDATE land_records SET
			owner_name = $2, owner_nin = $3, location = $4, district = $5,
			sub_county = $6, village = $7, size_acres = $8, status = $9,
			last_transfer = $10, gps_coordinates = $11, land_use = $12, documents = $13
		WHERE upper(land_id) = upper($1)
	`
	_, err = exec.ExecContext(ctx, query,
		record.LandID,
		record.OwnerName,
		record.OwnerNIN,
		record.Location,
		record.District,
		record.SubCounty,
		record.Village,
		record.Size,
		string(record.Status),
		nullTime(record.LastTransfer),
		record.GPSCoordinates,
		record.LandUse,
		pq.Array(documents(record.Documents)),
	)
	if err != nil {
		return nil, fmt.Errorf("update land record: %w", err)
	}
	return record, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.LandRecord, error) {
	var (
		record       models.LandRecord
		status       string
		lastTransfer sql.NullTime
		docs         []string
	)
	err := row.Scan(
		&record.LandID,
		&record.OwnerName,
		&record.OwnerNIN,
		&record.Location,
		&record.District,
		&record.SubCounty,
		&record.Village,
		&record.Size,
		&status,
		&record.RegistrationDate,
		&lastTransfer,
		&record.GPSCoordinates,
		&record.LandUse,
		pq.Array(&docs),
	)
	if err != nil {
		return nil, err
	}
	record.Status = models.Status(status)
	if lastTransfer.Valid {
		t := lastTransfer.Time
		record.LastTransfer = &t
	}
	if len(docs) > 0 {
		record.Documents = docs
	}
	return &record, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// documents never sends NULL; the column is NOT NULL with an empty default.
func documents(docs []string) []string {
	if docs == nil {
		return []string{}
	}
	return docs
}
