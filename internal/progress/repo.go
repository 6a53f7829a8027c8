package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores a new progress entry. Entries are append-only, there is no
// update or delete.
func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entry.ID = uuid.New()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO progress_entry
				(id, user_id, timestamp, weight_kg, body_fat_percent, waist_cm, chest_cm, arms_cm, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		entry.ID, entry.UserID, entry.Timestamp, entry.WeightKg,
		entry.BodyFatPercent, entry.WaistCm, entry.ChestCm, entry.ArmsCm, entry.Notes,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("entry.id", entry.ID.String()))
	return &entry, nil
}

type ListParams struct {
	UserID uuid.UUID
	Page   int
	Size   int
}

// List returns a page of entries, most recent first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if params.Page < 1 || params.Size < 1 {
		return nil, errors.New("invalid page or size")
	}
	limit := params.Size
	offset := (params.Page - 1) * params.Size

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, timestamp, weight_kg, body_fat_percent, waist_cm, chest_cm, arms_cm, notes
			FROM progress_entry
			WHERE user_id = $1
			ORDER BY timestamp DESC
			LIMIT $2 OFFSET $3;`,
		params.UserID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll returns all entries for the user in ascending timestamp order,
// the order the projector expects.
func (r *Repo) ListAll(ctx context.Context, userID uuid.UUID) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, timestamp, weight_kg, body_fat_percent, waist_cm, chest_cm, arms_cm, notes
			FROM progress_entry
			WHERE user_id = $1
			ORDER BY timestamp ASC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *Repo) Count(ctx context.Context, userID uuid.UUID) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM progress_entry WHERE user_id = $1;`,
		userID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Timestamp, &e.WeightKg,
			&e.BodyFatPercent, &e.WaistCm, &e.ChestCm, &e.ArmsCm, &e.Notes,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
