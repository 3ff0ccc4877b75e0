package message

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maizey-chat/services/chat-api/internal/domain/chat"
	"maizey-chat/services/chat-api/internal/infrastructure/database/entities"
	"maizey-chat/services/chat-api/internal/utils/platformerrors"
)

// Repository persists messages via PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

var _ chat.MessageRepository = (*Repository)(nil)

// NewRepository constructs the message repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate inserts the message unless the (conversation_id, message_id)
// pair already exists. On conflict the existing row wins and is returned with
// its original query/response/sources untouched.
func (r *Repository) GetOrCreate(ctx context.Context, msg *chat.Message) (*chat.Message, bool, error) {
	entity := entities.NewSchemaMessage(msg)

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "message_id"}},
			DoNothing: true,
		}).
		Create(entity)
	if res.Error != nil {
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create message",
			res.Error,
			"message-create",
		)
	}
	created := res.RowsAffected > 0

	var row entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND message_id = ?", msg.ConversationID, msg.MessageID).
		First(&row).Error; err != nil {
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload message",
			err,
			"message-reload",
		)
	}

	return row.EtoD(), created, nil
}

// ListByConversationID returns the conversation's messages oldest first.
func (r *Repository) ListByConversationID(ctx context.Context, conversationID uint) ([]*chat.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"message-list",
		)
	}

	msgs := make([]*chat.Message, 0, len(rows))
	for i := range rows {
		msgs = append(msgs, rows[i].EtoD())
	}
	return msgs, nil
}

// CountByConversationID counts messages in a conversation.
func (r *Repository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count messages",
			err,
			"message-count",
		)
	}
	return count, nil
}
