package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"github.com/google/uuid"
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

func (r *Repo) Add(ctx context.Context, plan Plan) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	warmupJson, err := json.Marshal(plan.Warmup)
	if err != nil {
		return nil, fmt.Errorf("marshal warmup: %w", err)
	}
	exercisesJson, err := json.Marshal(plan.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}
	cooldownJson, err := json.Marshal(plan.Cooldown)
	if err != nil {
		return nil, fmt.Errorf("marshal cooldown: %w", err)
	}

	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_plan
				(id, user_id, type, location, experience, duration_minutes,
				 warmup, exercises, cooldown, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		plan.ID, plan.UserID, plan.Type, plan.Location, plan.Experience,
		plan.DurationMinutes, warmupJson, exercisesJson, cooldownJson, plan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("plan.id", plan.ID.String()))
	return &plan, nil
}

type ListParams struct {
	UserID uuid.UUID
	Page   int
	Size   int
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("page", params.Page),
		attribute.Int("size", params.Size),
	)

	if params.Page < 1 || params.Size < 1 {
		return nil, errors.New("invalid page or size")
	}
	limit := params.Size
	offset := (params.Page - 1) * params.Size

	rows, err := r.db.Query(
		ctx,
		`SELECT
				id, user_id, type, location, experience, duration_minutes,
				warmup, exercises, cooldown, created_at
			FROM workout_plan
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3;`,
		params.UserID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var plan Plan
		var warmupJson, exercisesJson, cooldownJson []byte
		if err := rows.Scan(
			&plan.ID, &plan.UserID, &plan.Type, &plan.Location, &plan.Experience,
			&plan.DurationMinutes, &warmupJson, &exercisesJson, &cooldownJson,
			&plan.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(warmupJson, &plan.Warmup); err != nil {
			return nil, fmt.Errorf("unmarshal warmup: %w", err)
		}
		if err := json.Unmarshal(exercisesJson, &plan.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises: %w", err)
		}
		if err := json.Unmarshal(cooldownJson, &plan.Cooldown); err != nil {
			return nil, fmt.Errorf("unmarshal cooldown: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repo) Count(ctx context.Context, userID uuid.UUID) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_plan WHERE user_id = $1;`,
		userID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
