package meal

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
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meal.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	daysJson, err := json.Marshal(plan.Days)
	if err != nil {
		return nil, fmt.Errorf("marshal days: %w", err)
	}

	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO meal_plan
				(id, user_id, diet_preference, calorie_target, days, created_at)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		plan.ID, plan.UserID, plan.DietPreference, plan.CalorieTarget, daysJson, plan.CreatedAt,
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
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meal.list")
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
		`SELECT id, user_id, diet_preference, calorie_target, days, created_at
			FROM meal_plan
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
		var daysJson []byte
		if err := rows.Scan(
			&plan.ID, &plan.UserID, &plan.DietPreference, &plan.CalorieTarget,
			&daysJson, &plan.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(daysJson, &plan.Days); err != nil {
			return nil, fmt.Errorf("unmarshal days: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repo) Count(ctx context.Context, userID uuid.UUID) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meal.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM meal_plan WHERE user_id = $1;`,
		userID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
