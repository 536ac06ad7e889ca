package repositories

import (
	"time"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"gorm.io/gorm"
)

// FollowJournalRepository defines the interface for the follow write-ahead
// journal backing the reconciliation pass.
type FollowJournalRepository interface {
	CreateIntent(intent *models.FollowIntent) error
	MarkApplied(id uint) error
	GetStalePending(olderThan time.Time, limit int) ([]models.FollowIntent, error)
}

// PostgresFollowJournalRepository implements FollowJournalRepository for PostgreSQL
type PostgresFollowJournalRepository struct {
	db *gorm.DB
}

// NewPostgresFollowJournalRepository creates a new PostgresFollowJournalRepository
func NewPostgresFollowJournalRepository(db *gorm.DB) *PostgresFollowJournalRepository {
	return &PostgresFollowJournalRepository{db: db}
}

// CreateIntent records a pending follow toggle before its Mongo writes
func (r *PostgresFollowJournalRepository) CreateIntent(intent *models.FollowIntent) error {
	intent.State = models.IntentPending
	return r.db.Create(intent).Error
}

// MarkApplied flips an intent to applied once both Mongo writes landed
func (r *PostgresFollowJournalRepository) MarkApplied(id uint) error {
	now := time.Now()
	res := r.db.Model(&models.FollowIntent{}).Where("id = ?", id).
		Updates(map[string]interface{}{"state": models.IntentApplied, "applied_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetStalePending retrieves pending intents created before olderThan,
// oldest first, for the reconciler to replay.
func (r *PostgresFollowJournalRepository) GetStalePending(olderThan time.Time, limit int) ([]models.FollowIntent, error) {
	var intents []models.FollowIntent
	err := r.db.Where("state = ? AND created_at < ?", models.IntentPending, olderThan).
		Order("created_at").Limit(limit).Find(&intents).Error
	return intents, err
}
