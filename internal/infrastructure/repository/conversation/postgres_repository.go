package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maizey-chat/services/chat-api/internal/domain/chat"
	"maizey-chat/services/chat-api/internal/infrastructure/database/entities"
	"maizey-chat/services/chat-api/internal/utils/platformerrors"
)

// Repository persists conversations via PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

var _ chat.ConversationRepository = (*Repository)(nil)

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate inserts the conversation unless its conversation_pk already
// exists. The insert races safely: on conflict with the unique index nothing
// is written and the surviving row is read back.
func (r *Repository) GetOrCreate(ctx context.Context, conv *chat.Conversation) (*chat.Conversation, bool, error) {
	entity := entities.NewSchemaConversation(conv)

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_pk"}},
			DoNothing: true,
		}).
		Create(entity)
	if res.Error != nil {
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			res.Error,
			"conversation-create",
		)
	}
	created := res.RowsAffected > 0

	var row entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("conversation_pk = ?", conv.ConversationPK).
		First(&row).Error; err != nil {
		return nil, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload conversation",
			err,
			"conversation-reload",
		)
	}

	return row.EtoD(), created, nil
}

// FindByConversationPK fetches a conversation by its Maizey pk.
func (r *Repository) FindByConversationPK(ctx context.Context, conversationPK int64) (*chat.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("conversation_pk = ?", conversationPK).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %d", conversationPK),
				nil,
				"conversation-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"conversation-fetch",
		)
	}

	return entity.EtoD(), nil
}

type conversationRow struct {
	entities.Conversation
	MessageCount int64
}

// ListWithMessageCount returns every conversation ordered by updated_at
// descending. The message count is computed at read time, never stored.
func (r *Repository) ListWithMessageCount(ctx context.Context) ([]*chat.Conversation, error) {
	var rows []conversationRow
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Select("conversations.*, (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = conversations.id) AS message_count").
		Order("updated_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"conversation-list",
		)
	}

	convs := make([]*chat.Conversation, 0, len(rows))
	for i := range rows {
		conv := rows[i].EtoD()
		conv.MessageCount = rows[i].MessageCount
		convs = append(convs, conv)
	}
	return convs, nil
}

// TouchUpdated sets updated_at and nothing else.
func (r *Repository) TouchUpdated(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to touch conversation",
			err,
			"conversation-touch",
		)
	}
	return nil
}
