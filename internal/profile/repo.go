package profile

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Save stores the profile for the given user, one row per user,
// overwritten wholesale.
func (r *Repo) Save(ctx context.Context, profile UserProfile) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", profile.UserID.String()))

	now := time.Now()
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO user_profile
				(id, user_id, name, age, sex, height_cm, weight_kg, goal_weight_kg,
				 activity_level, goal, experience, diet_preference, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
			ON CONFLICT (user_id) DO UPDATE SET
				name = $3, age = $4, sex = $5, height_cm = $6, weight_kg = $7,
				goal_weight_kg = $8, activity_level = $9, goal = $10,
				experience = $11, diet_preference = $12, updated_at = $13
			RETURNING id, created_at;`,
		uuid.New(), profile.UserID, profile.Name, profile.Age, profile.Sex,
		profile.HeightCm, profile.WeightKg, profile.GoalWeightKg,
		profile.ActivityLevel, profile.Goal, profile.Experience, profile.DietPreference,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&profile.ID, &profile.CreatedAt); err != nil {
		return nil, err
	}

	profile.UpdatedAt = now
	return &profile, nil
}

func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	var p UserProfile
	err = r.db.QueryRow(
		ctx,
		`SELECT
				id, user_id, name, age, sex, height_cm, weight_kg, goal_weight_kg,
				activity_level, goal, experience, diet_preference, created_at, updated_at
			FROM user_profile
			WHERE user_id = $1;`,
		userID,
	).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Age, &p.Sex, &p.HeightCm, &p.WeightKg,
		&p.GoalWeightKg, &p.ActivityLevel, &p.Goal, &p.Experience,
		&p.DietPreference, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}
