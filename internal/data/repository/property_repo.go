package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staynest/internal/data/entity"
	"staynest/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Property list orderings.
const (
	SortNameAsc   = "nameAsc"
	SortNameDesc  = "nameDesc"
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
)

var propertyOrderBy = map[string]string{
	SortNameAsc:   "title ASC",
	SortNameDesc:  "title DESC",
	SortPriceAsc:  "price_per_night ASC",
	SortPriceDesc: "price_per_night DESC",
}

// PropertyFilter narrows List and Count. Zero values disable a criterion.
type PropertyFilter struct {
	Search    string
	City      string
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []string // property must offer all of them
	Sort      string
	Limit     int
	Offset    int
}

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindByTitle(ctx context.Context, title string) (*entity.Property, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]*entity.Property, error)
	Count(ctx context.Context, filter PropertyFilter) (int64, error)
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `id, title, description, address, city, state, country,
	price_per_night, amenities, images, owner_id, created_at, updated_at`

func scanProperty(row rowScanner) (*entity.Property, error) {
	var (
		p         entity.Property
		amenities []string
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Location.Address,
		&p.Location.City,
		&p.Location.State,
		&p.Location.Country,
		&p.PricePerNight,
		&amenities,
		&p.Images,
		&p.OwnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Amenities = make([]entity.Amenity, len(amenities))
	for i, a := range amenities {
		p.Amenities[i] = entity.Amenity(a)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		property.ID,
		property.Title,
		property.Description,
		property.Location.Address,
		property.Location.City,
		property.Location.State,
		property.Location.Country,
		property.PricePerNight,
		property.AmenityStrings(),
		property.Images,
		property.OwnerID,
		property.CreatedAt,
		property.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create property",
			zap.Error(err),
			zap.String("title", property.Title),
			zap.String("owner_id", property.OwnerID.String()),
		)
		return fmt.Errorf("create property %q: %w", property.Title, translatePgError(err))
	}

	return nil
}

func (r *propertyRepository) findOne(ctx context.Context, where string, arg any) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE ` + where

	property, err := scanProperty(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find property where %s: %w", where, err)
	}
	return property, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *propertyRepository) FindByTitle(ctx context.Context, title string) (*entity.Property, error) {
	return r.findOne(ctx, "title = $1", title)
}

func (r *propertyRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, ownerID)
}

// buildWhere renders filter into a WHERE clause and its positional args.
func buildWhere(filter PropertyFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+s+"%")
	}
	if c := strings.TrimSpace(filter.City); c != "" {
		add("city ILIKE $%d", c)
	}
	if filter.MinPrice != nil {
		add("price_per_night >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price_per_night <= $%d", *filter.MaxPrice)
	}
	if len(filter.Amenities) > 0 {
		add("amenities @> $%d::text[]", filter.Amenities)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]*entity.Property, error) {
	where, args := buildWhere(filter)

	orderBy, ok := propertyOrderBy[filter.Sort]
	if !ok {
		orderBy = "created_at DESC"
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM properties%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		propertyColumns, where, orderBy, len(args)-1, len(args))

	return r.queryMany(ctx, query, args...)
}

func (r *propertyRepository) Count(ctx context.Context, filter PropertyFilter) (int64, error) {
	where, args := buildWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties`+where, args...).Scan(&count); err != nil {
		r.log.Error("Database error counting properties", zap.Error(err))
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return count, nil
}

func (r *propertyRepository) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Property, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query properties", zap.Error(err))
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	properties := make([]*entity.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			r.log.Error("Failed to scan property row", zap.Error(err))
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}

	return properties, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, address = $4, city = $5, state = $6,
		    country = $7, price_per_night = $8, amenities = $9, images = $10,
		    updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		property.ID,
		property.Title,
		property.Description,
		property.Location.Address,
		property.Location.City,
		property.Location.State,
		property.Location.Country,
		property.PricePerNight,
		property.AmenityStrings(),
		property.Images,
		property.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update property",
			zap.Error(err),
			zap.String("property_id", property.ID.String()),
		)
		return fmt.Errorf("update property %s: %w", property.ID, translatePgError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update property %s: %w", property.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the property together with its bookings and comments.
func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete property",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("delete property %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete property %s: %w", id, ErrNotFound)
	}

	r.log.Info("Property deleted", zap.String("property_id", id.String()))
	return nil
}
