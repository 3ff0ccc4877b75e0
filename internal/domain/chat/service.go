package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"maizey-chat/services/chat-api/internal/utils/platformerrors"
)

// Service describes the business logic surface for chat operations.
type Service interface {
	ListConversations(ctx context.Context) ([]*Conversation, error)
	CreateConversation(ctx context.Context) (*Conversation, error)
	ListMessages(ctx context.Context, conversationPK int64) ([]*Message, error)
	SendMessage(ctx context.Context, conversationPK int64, query string) (*RemoteMessage, error)

	EnsureConversation(ctx context.Context, remote *RemoteConversation) (*Conversation, bool, error)
	EnsureMessage(ctx context.Context, conv *Conversation, remote *RemoteMessage) (*Message, bool, error)
}

type service struct {
	conversations ConversationRepository
	messages      MessageRepository
	maizey        MaizeyGateway
	log           zerolog.Logger
	now           func() time.Time
}

// NewService wires the chat service with its repositories and the Maizey gateway.
func NewService(
	conversations ConversationRepository,
	messages MessageRepository,
	maizey MaizeyGateway,
	log zerolog.Logger,
) Service {
	return &service{
		conversations: conversations,
		messages:      messages,
		maizey:        maizey,
		log:           log.With().Str("component", "chat-service").Logger(),
		now:           time.Now,
	}
}

// ListConversations returns all conversations, most recently updated first,
// each carrying its message count.
func (s *service) ListConversations(ctx context.Context) ([]*Conversation, error) {
	convs, err := s.conversations.ListWithMessageCount(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list conversations")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return convs, nil
}

// CreateConversation creates a conversation on Maizey and reconciles it into
// local storage. Nothing is persisted when the remote call fails.
func (s *service) CreateConversation(ctx context.Context) (*Conversation, error) {
	remote, err := s.maizey.CreateConversation(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("maizey create conversation failed")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation on Maizey")
	}

	conv, created, err := s.EnsureConversation(ctx, remote)
	if err != nil {
		return nil, err
	}

	if created {
		conv.MessageCount = 0
		s.log.Info().Int64("conversation_pk", conv.ConversationPK).Msg("conversation created")
		return conv, nil
	}

	count, err := s.messages.CountByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count messages")
	}
	conv.MessageCount = count
	return conv, nil
}

// ListMessages returns the messages of the conversation with the given Maizey
// pk, oldest first.
func (s *service) ListMessages(ctx context.Context, conversationPK int64) ([]*Message, error) {
	conv, err := s.conversations.FindByConversationPK(ctx, conversationPK)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation not found")
	}

	msgs, err := s.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return msgs, nil
}

// SendMessage forwards query to Maizey and reconciles the answer into local
// storage. The remote payload is returned as-is; callers serialize it rather
// than the reconciled row.
func (s *service) SendMessage(ctx context.Context, conversationPK int64, query string) (*RemoteMessage, error) {
	conv, err := s.conversations.FindByConversationPK(ctx, conversationPK)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation not found")
	}

	remote, err := s.maizey.SendMessage(ctx, conversationPK, query)
	if err != nil {
		s.log.Warn().Err(err).Int64("conversation_pk", conversationPK).Msg("maizey send message failed")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to send message to Maizey")
	}

	if _, _, err := s.EnsureMessage(ctx, conv, remote); err != nil {
		return nil, err
	}
	return remote, nil
}

// EnsureConversation maps a remote conversation record onto a local row,
// creating it when absent. An existing row is returned unchanged: remote-side
// title or user changes are not propagated.
func (s *service) EnsureConversation(ctx context.Context, remote *RemoteConversation) (*Conversation, bool, error) {
	title := remote.Title
	if title == "" {
		title = DefaultTitle
	}

	conv, created, err := s.conversations.GetOrCreate(ctx, &Conversation{
		ConversationPK: remote.PK,
		Title:          title,
		UserID:         remote.UserID,
	})
	if err != nil {
		return nil, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to reconcile conversation")
	}
	return conv, created, nil
}

// EnsureMessage maps a remote message record onto a local row scoped to conv,
// creating it when absent. Each creation touches the parent conversation's
// updated timestamp; the touch is an explicit step here, not a persistence
// hook, so the side effect stays visible and testable.
func (s *service) EnsureMessage(ctx context.Context, conv *Conversation, remote *RemoteMessage) (*Message, bool, error) {
	sources := remote.Sources
	if sources == nil {
		sources = []Source{}
	}

	msg, created, err := s.messages.GetOrCreate(ctx, &Message{
		ConversationID: conv.ID,
		MessageID:      remote.ID,
		Query:          remote.Query,
		Response:       remote.Response,
		Sources:        sources,
	})
	if err != nil {
		return nil, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to reconcile message")
	}

	if created {
		if err := s.conversations.TouchUpdated(ctx, conv.ID, s.now()); err != nil {
			return nil, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to touch conversation")
		}
	}
	return msg, created, nil
}
