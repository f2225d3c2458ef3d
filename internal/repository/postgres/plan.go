package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

type PlanRepository struct {
	db *DB
}

func NewPlanRepository(db *DB) plan.Repository {
	return &PlanRepository{db: db}
}

// features are stored as a JSON array in a text column
func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	return string(b), err
}

func decodeFeatures(raw string, into *[]string) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), into)
}

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := r.db.Rebind(`
		SELECT id, name, price, duration, description, features, plan_type, created_at, updated_at
		FROM plans WHERE id = ?
	`)

	var p plan.Plan
	var features string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Description, &features, &p.PlanType,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.PlanNotFound(id)
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get plan", err)
	}
	decodeFeatures(features, &p.Features)
	return &p, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, duration, description, features, plan_type, created_at, updated_at
		FROM plans ORDER BY price ASC
	`)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list plans", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		var p plan.Plan
		var features string
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Description, &features,
			&p.PlanType, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to scan plan row", err)
		}
		decodeFeatures(features, &p.Features)
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read plan rows", err)
	}
	return plans, nil
}

func (r *PlanRepository) ListWithCounts(ctx context.Context) ([]*plan.WithCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.duration, p.description, p.features, p.plan_type,
		       p.created_at, p.updated_at, COUNT(s.id)
		FROM plans p
		LEFT JOIN subscriptions s ON s.plan_id = p.id AND s.status = 'active'
		GROUP BY p.id, p.name, p.price, p.duration, p.description, p.features, p.plan_type,
		         p.created_at, p.updated_at
		ORDER BY p.price ASC
	`)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list plans with counts", err)
	}
	defer rows.Close()

	var plans []*plan.WithCount
	for rows.Next() {
		var p plan.WithCount
		var features string
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Description, &features,
			&p.PlanType, &p.CreatedAt, &p.UpdatedAt, &p.Subscribers)
		if err != nil {
			return nil, errors.StorageUnavailable("Failed to scan plan row", err)
		}
		decodeFeatures(features, &p.Features)
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read plan rows", err)
	}
	return plans, nil
}

func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	features, err := encodeFeatures(p.Features)
	if err != nil {
		return errors.Internal("Failed to encode plan features", err)
	}

	query := r.db.Rebind(`
		INSERT INTO plans (name, price, duration, description, features, plan_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if r.db.DriverName() == "postgres" {
		err = r.db.QueryRowContext(ctx, query+" RETURNING id",
			p.Name, p.Price, p.DurationDays, p.Description, features, p.PlanType,
			p.CreatedAt, p.UpdatedAt,
		).Scan(&p.ID)
		if err != nil {
			return errors.StorageUnavailable("Failed to create plan", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Price, p.DurationDays, p.Description, features, p.PlanType,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.StorageUnavailable("Failed to create plan", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable("Failed to get plan ID", err)
	}
	return nil
}

func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	features, err := encodeFeatures(p.Features)
	if err != nil {
		return errors.Internal("Failed to encode plan features", err)
	}

	query := r.db.Rebind(`
		UPDATE plans
		SET name = ?, price = ?, duration = ?, description = ?, features = ?, plan_type = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Price, p.DurationDays, p.Description, features, p.PlanType, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return errors.StorageUnavailable("Failed to update plan", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.PlanNotFound(p.ID)
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM plans WHERE id = ?"), id)
	if err != nil {
		return errors.StorageUnavailable("Failed to delete plan", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.PlanNotFound(id)
	}
	return nil
}
