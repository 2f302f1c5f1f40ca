// Package wine persists the wine library in Postgres.
package wine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/atsuyamaru/wine-ec-email-composer/internal/database"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/fingerprint"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

var wineColumns = []string{
	"id", "fingerprint", "name", "producer", "country", "region",
	"grape_variety", "vintage", "price", "alcohol_content", "description",
	"source_file", "created_at", "updated_at", "deleted_at",
}

// Repository handles wine library persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new wine repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a wine record into the library
func (r *Repository) Create(ctx context.Context, record models.WineRecord) (*models.StoredWine, error) {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method": "Create",
		"name":   record.Name,
	})

	now := time.Now().UTC()
	stored := &models.StoredWine{
		ID:          uuid.New().String(),
		Fingerprint: fingerprint.ForRecord(record),
		WineRecord:  record,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("wines")
	sb.Cols("id", "fingerprint", "name", "producer", "country", "region",
		"grape_variety", "vintage", "price", "alcohol_content", "description",
		"source_file", "created_at", "updated_at")
	sb.Values(stored.ID, stored.Fingerprint, stored.Name, stored.Producer,
		stored.Country, stored.Region, stored.GrapeVariety, stored.Vintage,
		stored.Price, stored.AlcoholContent, stored.Description,
		stored.SourceFile, stored.CreatedAt, stored.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create wine")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create wine")
	}

	log.WithFields(map[string]any{"id": stored.ID}).Info("Created wine")
	return stored, nil
}

// Get retrieves a wine by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.StoredWine, error) {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(wineColumns...)
	sb.From("wines")
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var wine models.StoredWine
	if err := r.db.GetContext(ctx, &wine, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("wine %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get wine")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get wine")
	}

	return &wine, nil
}

// GetByFingerprint retrieves a wine by its fingerprint. Returns nil without
// error when no live row matches.
func (r *Repository) GetByFingerprint(ctx context.Context, fp string) (*models.StoredWine, error) {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.GetByFingerprint")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(wineColumns...)
	sb.From("wines")
	sb.Where(
		sb.Equal("fingerprint", fp),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var wine models.StoredWine
	if err := r.db.GetContext(ctx, &wine, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get wine by fingerprint")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get wine by fingerprint")
	}

	return &wine, nil
}

// normalizePaging clamps paging inputs: page floors at 1, page size
// defaults to 20 when unset and caps at 100 when the request asks for more.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// List retrieves a page of wines, newest first
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.StoredWine, int, error) {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.List")
	defer span.End()

	page, pageSize = normalizePaging(page, pageSize)
	offset := (page - 1) * pageSize

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("wines")
	countSb.Where(countSb.IsNull("deleted_at"))

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count wines")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count wines")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(wineColumns...)
	sb.From("wines")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var wines []models.StoredWine
	if err := r.db.SelectContext(ctx, &wines, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list wines")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list wines")
	}

	return wines, totalCount, nil
}

// ListBySource retrieves all wines whose source list contains the given
// source file
func (r *Repository) ListBySource(ctx context.Context, sourceFile string) ([]models.StoredWine, error) {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.ListBySource")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(wineColumns...)
	sb.From("wines")
	sb.Where(
		sb.Like("source_file", "%"+sourceFile+"%"),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var wines []models.StoredWine
	if err := r.db.SelectContext(ctx, &wines, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list wines by source")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list wines by source")
	}

	return wines, nil
}

// Update replaces a stored wine's record fields and refreshes its
// fingerprint
func (r *Repository) Update(ctx context.Context, id string, record models.WineRecord) (*models.StoredWine, error) {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.Update")
	defer span.End()

	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.WineRecord = record
	existing.Fingerprint = fingerprint.ForRecord(record)
	existing.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("wines")
	sb.Set(
		sb.Assign("fingerprint", existing.Fingerprint),
		sb.Assign("name", existing.Name),
		sb.Assign("producer", existing.Producer),
		sb.Assign("country", existing.Country),
		sb.Assign("region", existing.Region),
		sb.Assign("grape_variety", existing.GrapeVariety),
		sb.Assign("vintage", existing.Vintage),
		sb.Assign("price", existing.Price),
		sb.Assign("alcohol_content", existing.AlcoholContent),
		sb.Assign("description", existing.Description),
		sb.Assign("source_file", existing.SourceFile),
		sb.Assign("updated_at", existing.UpdatedAt),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update wine")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update wine")
	}

	return existing, nil
}

// Delete soft deletes a wine
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "wine.Repository.Delete")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("wines")
	sb.Set(sb.Assign("deleted_at", now))
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete wine")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete wine")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("wine %s not found", id))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deleted wine")
	return nil
}
