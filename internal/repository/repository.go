package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"webhook-inbox-go/internal/model"
)

// TopSendersLimit caps the number of senders returned by Stats
const TopSendersLimit = 10

// ErrStorageUnavailable is wrapped by every failure of the underlying database
var ErrStorageUnavailable = errors.New("storage unavailable")

// InsertResult tells whether Insert stored a new row
type InsertResult int

const (
	Created InsertResult = iota + 1
	Duplicate
)

func (r InsertResult) String() string {
	switch r {
	case Created:
		return "created"
	case Duplicate:
		return "duplicate"
	}
	return "unknown"
}

// ListFilter narrows List. Empty fields do not constrain the result.
type ListFilter struct {
	From  string
	Since string
	Query string
}

// MessageRepository stores messages keyed by message_id
type MessageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db, now: time.Now}
}

// Insert stores msg unless its message_id already exists. Existing rows are
// never modified. The primary key decides the race between concurrent
// inserts of the same id, so exactly one caller sees Created.
func (r *MessageRepository) Insert(ctx context.Context, msg *model.Message) (InsertResult, error) {
	row := *msg
	row.CreatedAt = r.now().UTC().Format(time.RFC3339Nano)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return 0, unavailable("failed to insert message", result.Error)
	}

	if result.RowsAffected == 0 {
		return Duplicate, nil
	}
	msg.CreatedAt = row.CreatedAt
	return Created, nil
}

// List returns one page of matching messages ordered by (ts, message_id)
// together with the number of matches across all pages.
func (r *MessageRepository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]model.Message, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, unavailable("failed to count messages", err)
	}

	rows := make([]model.Message, 0)
	err := r.filtered(ctx, filter).
		Order("ts ASC").
		Order("message_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, unavailable("failed to list messages", err)
	}

	return rows, total, nil
}

func (r *MessageRepository) filtered(ctx context.Context, filter ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Message{})

	if filter.From != "" {
		query = query.Where("from_address = ?", filter.From)
	}
	if filter.Since != "" {
		query = query.Where("ts >= ?", filter.Since)
	}
	if filter.Query != "" {
		query = query.Where(r.textContains(), filter.Query)
	}
	return query
}

// textContains is a case-sensitive substring match. LIKE is avoided because
// it ignores case in sqlite and mysql and treats % and _ as wildcards.
func (r *MessageRepository) textContains() string {
	switch r.db.Dialector.Name() {
	case "postgres":
		return "strpos(text, ?) > 0"
	case "mysql":
		return "INSTR(BINARY text, ?) > 0"
	default:
		return "instr(text, ?) > 0"
	}
}

// Stats aggregates the whole table
func (r *MessageRepository) Stats(ctx context.Context) (*model.Stats, error) {
	var agg struct {
		Total   int64
		Senders int64
		FirstTs *string
		LastTs  *string
	}
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT from_address) AS senders, MIN(ts) AS first_ts, MAX(ts) AS last_ts").
		Scan(&agg).Error
	if err != nil {
		return nil, unavailable("failed to aggregate messages", err)
	}

	top := make([]model.SenderCount, 0, TopSendersLimit)
	err = r.db.WithContext(ctx).Model(&model.Message{}).
		Select("from_address, COUNT(*) AS count").
		Group("from_address").
		Order("count DESC").
		Order("from_address ASC").
		Limit(TopSendersLimit).
		Scan(&top).Error
	if err != nil {
		return nil, unavailable("failed to count messages per sender", err)
	}

	return &model.Stats{
		TotalMessages:  agg.Total,
		SendersCount:   agg.Senders,
		TopSenders:     top,
		FirstTimestamp: agg.FirstTs,
		LastTimestamp:  agg.LastTs,
	}, nil
}

// Count returns the number of stored messages
func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Message{}).Count(&total).Error; err != nil {
		return 0, unavailable("failed to count messages", err)
	}
	return total, nil
}

// Ping checks that the database answers queries
func (r *MessageRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return unavailable("failed to get underlying SQL DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("database ping failed", err)
	}
	if err := r.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return unavailable("database query failed", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
