package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/nabin-thapa/gighub/internal/domain/category"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) category.Repository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`)

	if r.db.DriverName() == "postgres" {
		err := r.db.QueryRowContext(ctx, query+" RETURNING id",
			c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			return errors.StorageUnavailable("Failed to create category", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return errors.StorageUnavailable("Failed to create category", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable("Failed to get category ID", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	query := r.db.Rebind(`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ?`)

	var c category.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Category")
	}
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to get category", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list categories", err)
	}
	defer rows.Close()

	var cats []*category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, errors.StorageUnavailable("Failed to scan category row", err)
		}
		cats = append(cats, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read category rows", err)
	}
	return cats, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	c.UpdatedAt = time.Now()

	query := r.db.Rebind(`UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		return errors.StorageUnavailable("Failed to update category", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Category")
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StorageUnavailable("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM freelancer_categories WHERE category_id = ?"), id); err != nil {
		return errors.StorageUnavailable("Failed to delete category tags", err)
	}

	res, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM categories WHERE id = ?"), id)
	if err != nil {
		return errors.StorageUnavailable("Failed to delete category", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Category")
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageUnavailable("Failed to commit transaction", err)
	}
	return nil
}

func (r *CategoryRepository) AddTag(ctx context.Context, freelancerID, categoryID int64) error {
	// Idempotent: re-tagging is a no-op
	var query string
	if r.db.DriverName() == "postgres" {
		query = r.db.Rebind(`
			INSERT INTO freelancer_categories (freelancer_id, category_id, created_at)
			VALUES (?, ?, ?) ON CONFLICT (freelancer_id, category_id) DO NOTHING
		`)
	} else {
		query = `
			INSERT OR IGNORE INTO freelancer_categories (freelancer_id, category_id, created_at)
			VALUES (?, ?, ?)
		`
	}
	if _, err := r.db.ExecContext(ctx, query, freelancerID, categoryID, time.Now()); err != nil {
		return errors.StorageUnavailable("Failed to tag freelancer", err)
	}
	return nil
}

func (r *CategoryRepository) RemoveTag(ctx context.Context, freelancerID, categoryID int64) error {
	query := r.db.Rebind(`DELETE FROM freelancer_categories WHERE freelancer_id = ? AND category_id = ?`)
	res, err := r.db.ExecContext(ctx, query, freelancerID, categoryID)
	if err != nil {
		return errors.StorageUnavailable("Failed to remove tag", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.StorageUnavailable("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Tag")
	}
	return nil
}

func (r *CategoryRepository) ListByFreelancer(ctx context.Context, freelancerID int64) ([]*category.Category, error) {
	query := r.db.Rebind(`
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at
		FROM categories c
		JOIN freelancer_categories fc ON fc.category_id = c.id
		WHERE fc.freelancer_id = ?
		ORDER BY c.name ASC
	`)
	rows, err := r.db.QueryContext(ctx, query, freelancerID)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list freelancer categories", err)
	}
	defer rows.Close()

	var cats []*category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, errors.StorageUnavailable("Failed to scan category row", err)
		}
		cats = append(cats, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read category rows", err)
	}
	return cats, nil
}

func (r *CategoryRepository) ListFreelancers(ctx context.Context, categoryID int64) ([]*category.FreelancerSummary, error) {
	query := r.db.Rebind(`
		SELECT u.id, u.email, u.username, u.full_name
		FROM users u
		JOIN freelancer_categories fc ON fc.freelancer_id = u.id
		WHERE fc.category_id = ? AND u.is_deleted = FALSE
		ORDER BY u.username ASC
	`)
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, errors.StorageUnavailable("Failed to list tagged freelancers", err)
	}
	defer rows.Close()

	var out []*category.FreelancerSummary
	for rows.Next() {
		var f category.FreelancerSummary
		var fullName sql.NullString
		if err := rows.Scan(&f.FreelancerID, &f.Email, &f.Username, &fullName); err != nil {
			return nil, errors.StorageUnavailable("Failed to scan freelancer row", err)
		}
		if fullName.Valid {
			f.FullName = &fullName.String
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageUnavailable("Failed to read freelancer rows", err)
	}
	return out, nil
}
