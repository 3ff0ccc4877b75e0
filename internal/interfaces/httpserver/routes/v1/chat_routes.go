package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maizey-chat/services/chat-api/internal/interfaces/httpserver/handlers"
	chatrequests "maizey-chat/services/chat-api/internal/interfaces/httpserver/requests/chat"
	"maizey-chat/services/chat-api/internal/interfaces/httpserver/responses"
	chatresponses "maizey-chat/services/chat-api/internal/interfaces/httpserver/responses/chat"
	"maizey-chat/services/chat-api/internal/utils/platformerrors"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.GET("/conversations", listConversations(handler))
	router.POST("/conversations", createConversation(handler))
	router.GET("/conversations/:conversation_pk/messages", listMessages(handler))
	router.POST("/conversations/:conversation_pk/messages/send", sendMessage(handler))
}

// conversationPKParam parses the :conversation_pk path segment. A value that
// is not an integer can never match a stored conversation, so it reports
// not-found rather than bad-request.
func conversationPKParam(c *gin.Context) (int64, bool) {
	pk, err := strconv.ParseInt(c.Param("conversation_pk"), 10, 64)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "conversation not found", "conversation-pk-invalid")
		return 0, false
	}
	return pk, true
}

// listConversations godoc
// @Summary      List conversations
// @Description  Returns every stored conversation ordered by most recent activity, each with its message count.
// @Tags         conversations
// @Produce      json
// @Success      200  {array}   chatresponses.ConversationResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/conversations [get]
func listConversations(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		convs, err := handler.ListConversations(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to list conversations")
			return
		}
		c.JSON(http.StatusOK, chatresponses.NewConversationListResponse(convs))
	}
}

// createConversation godoc
// @Summary      Create a conversation
// @Description  Opens a new conversation upstream and records it locally.
// @Tags         conversations
// @Produce      json
// @Success      201  {object}  chatresponses.ConversationResponse
// @Failure      502  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/conversations [post]
func createConversation(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := handler.CreateConversation(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to create conversation")
			return
		}
		c.JSON(http.StatusCreated, chatresponses.NewConversationResponse(conv))
	}
}

// listMessages godoc
// @Summary      List messages in a conversation
// @Description  Returns the stored transcript for a conversation in chronological order.
// @Tags         messages
// @Produce      json
// @Param        conversation_pk  path  int  true  "Upstream conversation identifier"
// @Success      200  {array}   chatresponses.MessageResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/conversations/{conversation_pk}/messages [get]
func listMessages(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		pk, ok := conversationPKParam(c)
		if !ok {
			return
		}
		msgs, err := handler.ListMessages(c.Request.Context(), pk)
		if err != nil {
			responses.HandleError(c, err, "failed to list messages")
			return
		}
		c.JSON(http.StatusOK, chatresponses.NewMessageListResponse(msgs, pk))
	}
}

// sendMessage godoc
// @Summary      Send a message
// @Description  Forwards the query to the upstream conversation, persists the exchange, and relays the upstream reply verbatim.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        conversation_pk  path  int                             true  "Upstream conversation identifier"
// @Param        request          body  chatrequests.SendMessageRequest true  "User query"
// @Success      201  {object}  object
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      502  {object}  responses.ErrorResponse
// @Router       /v1/conversations/{conversation_pk}/messages/send [post]
func sendMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		pk, ok := conversationPKParam(c)
		if !ok {
			return
		}

		var req chatrequests.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "query is required and must be at most 1000 characters", "send-message-bind")
			return
		}
		if !req.Validate() {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "query must not be blank", "send-message-blank")
			return
		}

		remote, err := handler.SendMessage(c.Request.Context(), pk, &req)
		if err != nil {
			responses.HandleError(c, err, "failed to send message")
			return
		}
		// Relay the upstream payload untouched.
		c.Data(http.StatusCreated, "application/json; charset=utf-8", remote.Raw)
	}
}
