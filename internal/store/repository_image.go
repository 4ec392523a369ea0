package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
)

type imageRepository struct {
	*DB
	logger *logger.Logger
}

// NewImageRepository constructs an [ImageRepository] over the "images" table.
func NewImageRepository(db *DB, logger *logger.Logger) ImageRepository {
	logger.Debug().Msg("creating image repository")
	return &imageRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *imageRepository) SaveImage(ctx context.Context, image models.Image) error {
	log := logger.FromContext(ctx)

	query, args, err := psql.Insert("images").
		Columns(imageColumns...).
		Values(
			image.ImageID,
			image.UserID,
			image.Path,
			image.URL,
			image.ContentType,
			image.Category,
			image.Explicit,
			image.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*imageRepository.SaveImage").Str("image_id", image.ImageID).Msg("failed to save image")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *imageRepository) ListImages(ctx context.Context, userID string) ([]models.Image, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(imageColumns...).
		From("images").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.ListImages").Str("user_id", userID).Msg("failed to list images")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	images := make([]models.Image, 0, 16)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return images, nil
}

func (r *imageRepository) FindImage(ctx context.Context, imageID string) (models.Image, error) {
	query, args, err := psql.Select(imageColumns...).
		From("images").
		Where("image_id = ?", imageID).
		ToSql()
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	image, err := scanImage(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Image{}, ErrImageNotFound
	}

	return image, err
}

func (r *imageRepository) DeleteImage(ctx context.Context, imageID, userID string) error {
	query, args, err := psql.Delete("images").
		Where("image_id = ? AND user_id = ?", imageID, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrImageNotFound
	}

	return nil
}

func scanImage(row rowScanner) (models.Image, error) {
	var image models.Image
	err := row.Scan(
		&image.ImageID,
		&image.UserID,
		&image.Path,
		&image.URL,
		&image.ContentType,
		&image.Category,
		&image.Explicit,
		&image.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Image{}, err
	}
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return image, nil
}
