package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRepository_SaveAndList(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewImageRepository(db, logger.Nop())
	now := time.Now().UTC()

	image := models.Image{ImageID: "img-1", UserID: "u1", Path: "users/u1/img-1.png", URL: "https://cdn/x.png", ContentType: "image/png", Category: "nature", CreatedAt: now}

	mock.ExpectExec("INSERT INTO images").
		WithArgs("img-1", "u1", "users/u1/img-1.png", "https://cdn/x.png", "image/png", "nature", false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveImage(context.Background(), image))

	mock.ExpectQuery("SELECT (.+) FROM images WHERE user_id = (.+) ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(imageColumns).
			AddRow("img-1", "u1", "users/u1/img-1.png", "https://cdn/x.png", "image/png", "nature", false, now))

	images, err := repo.ListImages(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Image{image}, images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_FindImage_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewImageRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT (.+) FROM images WHERE image_id").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindImage(context.Background(), "img-x")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestImageRepository_DeleteImage(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewImageRepository(db, logger.Nop())

	mock.ExpectExec("DELETE FROM images WHERE image_id = (.+) AND user_id = (.+)").
		WithArgs("img-1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteImage(context.Background(), "img-1", "u1"))

	mock.ExpectExec("DELETE FROM images").
		WithArgs("img-1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteImage(context.Background(), "img-1", "u2"), ErrImageNotFound)
}
