package repositories

import (
	"github.com/chrischiuowo/space-room-api/internal/models"
	"gorm.io/gorm"
)

// UploadRepository defines the interface for upload record operations
type UploadRepository interface {
	CreateUpload(upload *models.Upload) error
	GetUploadByHash(hash string) (*models.Upload, error)
	DeleteUploadByHash(hash string) error
}

// PostgresUploadRepository implements UploadRepository for PostgreSQL
type PostgresUploadRepository struct {
	db *gorm.DB
}

// NewPostgresUploadRepository creates a new PostgresUploadRepository
func NewPostgresUploadRepository(db *gorm.DB) *PostgresUploadRepository {
	return &PostgresUploadRepository{db: db}
}

// CreateUpload creates a new upload record in PostgreSQL
func (r *PostgresUploadRepository) CreateUpload(upload *models.Upload) error {
	return r.db.Create(upload).Error
}

// GetUploadByHash retrieves an upload record by its delete hash
func (r *PostgresUploadRepository) GetUploadByHash(hash string) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.Where("hash = ?", hash).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// DeleteUploadByHash deletes an upload record by its delete hash
func (r *PostgresUploadRepository) DeleteUploadByHash(hash string) error {
	res := r.db.Where("hash = ?", hash).Delete(&models.Upload{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
