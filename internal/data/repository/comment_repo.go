package repository

import (
	"context"
	"errors"
	"fmt"

	"staynest/internal/data/entity"
	"staynest/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByPropertyAndUser(ctx context.Context, propertyID, userID uuid.UUID) (*entity.Comment, error)
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// RatingSummary returns the average rating and number of comments on a property.
	RatingSummary(ctx context.Context, propertyID uuid.UUID) (float64, int64, error)
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, property_id, user_id, text, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.PropertyID,
		comment.UserID,
		comment.Text,
		comment.Rating,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("user_id", comment.UserID.String()),
			zap.String("property_id", comment.PropertyID.String()),
		)
		return fmt.Errorf("create comment on property %s by user %s: %w",
			comment.PropertyID, comment.UserID, translatePgError(err))
	}

	return nil
}

func (r *commentRepository) findOne(ctx context.Context, where string, args ...any) (*entity.Comment, error) {
	query := `
		SELECT id, property_id, user_id, text, rating, created_at, updated_at
		FROM comments
		WHERE ` + where

	var c entity.Comment
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.PropertyID,
		&c.UserID,
		&c.Text,
		&c.Rating,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find comment where %s: %w", where, err)
	}
	return &c, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *commentRepository) FindByPropertyAndUser(ctx context.Context, propertyID, userID uuid.UUID) (*entity.Comment, error) {
	return r.findOne(ctx, "property_id = $1 AND user_id = $2", propertyID, userID)
}

// FindByPropertyID lists a property's comments newest first, with author usernames.
func (r *commentRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Comment, error) {
	query := `
		SELECT c.id, c.property_id, c.user_id, c.text, c.rating,
		       c.created_at, c.updated_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.property_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		r.log.Error("Failed to find comments by property",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find comments of property %s: %w", propertyID, err)
	}
	defer rows.Close()

	comments := make([]*entity.Comment, 0)
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PropertyID,
			&c.UserID,
			&c.Text,
			&c.Rating,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Username,
		); err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return fmt.Errorf("delete comment %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete comment %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *commentRepository) RatingSummary(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) {
	query := `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM comments WHERE property_id = $1`

	var (
		avg   float64
		count int64
	)
	if err := r.db.QueryRow(ctx, query, propertyID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to summarize ratings",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return 0, 0, fmt.Errorf("rating summary of property %s: %w", propertyID, err)
	}
	return avg, count, nil
}
