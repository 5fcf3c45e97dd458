package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/price-chat/internal/api/dto"
	"github.com/unifiedui/price-chat/internal/api/middleware"
	domainerrors "github.com/unifiedui/price-chat/internal/domain/errors"
	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/services/chat"
)

const defaultArchiveLimit = 50

// ConversationService is the part of chat.Registry the handlers use.
type ConversationService interface {
	Create(ctx context.Context) (*chat.Conversation, error)
	Get(ctx context.Context, id string) (*chat.Conversation, error)
	Lookup(ctx context.Context, id string) (*chat.Conversation, error)
	Submit(ctx context.Context, id, input string) (*chat.Conversation, error)
	Reset(ctx context.Context, id string) error
	Archive(ctx context.Context, id string, limit, offset int64) ([]models.Record, error)
}

// ConversationsHandler handles conversation endpoints.
type ConversationsHandler struct {
	conversations ConversationService
}

// NewConversationsHandler creates a new ConversationsHandler.
func NewConversationsHandler(conversations ConversationService) *ConversationsHandler {
	return &ConversationsHandler{
		conversations: conversations,
	}
}

// CreateConversation handles POST /conversations
// @Summary Start a conversation
// @Description Creates a conversation seeded with the greeting
// @Tags Conversations
// @Produce json
// @Success 201 {object} dto.ConversationResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/price-chat/conversations [post]
func (h *ConversationsHandler) CreateConversation(c *gin.Context) {
	conv, err := h.conversations.Create(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to create conversation", err))
		return
	}

	logger := middleware.GetRequestLogger(c)
	logger.Info().Str("conversation_id", conv.ID()).Msg("conversation created")

	c.JSON(http.StatusCreated, newConversationResponse(conv))
}

// GetMessages handles GET /conversations/{conversationId}/messages
// @Summary Get messages
// @Description Returns the visible transcript of a conversation
// @Tags Conversations
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} dto.ConversationResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/price-chat/conversations/{conversationId}/messages [get]
func (h *ConversationsHandler) GetMessages(c *gin.Context) {
	conversationID := c.Param("conversationId")

	conv, err := h.conversations.Lookup(c.Request.Context(), conversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		middleware.HandleError(c, domainerrors.NewNotFoundError("conversation", conversationID))
		return
	}
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to load conversation", err))
		return
	}

	c.JSON(http.StatusOK, newConversationResponse(conv))
}

// SendMessage handles POST /conversations/{conversationId}/messages
// @Summary Send a message
// @Description Runs one question/answer cycle and returns the visible transcript
// @Tags Conversations
// @Accept json
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.ConversationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/price-chat/conversations/{conversationId}/messages [post]
func (h *ConversationsHandler) SendMessage(c *gin.Context) {
	conversationID := c.Param("conversationId")

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	conv, err := h.conversations.Submit(c.Request.Context(), conversationID, req.Content)
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		middleware.HandleError(c, domainerrors.NewValidationError("content is required", "content must not be blank"))
		return
	case errors.Is(err, chat.ErrBusy):
		middleware.HandleError(c, domainerrors.NewConversationBusyError(conversationID, err))
		return
	case err != nil:
		middleware.HandleError(c, domainerrors.NewInternalError("failed to process message", err))
		return
	}

	c.JSON(http.StatusOK, newConversationResponse(conv))
}

// DeleteConversation handles DELETE /conversations/{conversationId}
// @Summary Reset a conversation
// @Description Forgets the live transcript; archived messages are kept
// @Tags Conversations
// @Param conversationId path string true "Conversation ID"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/price-chat/conversations/{conversationId} [delete]
func (h *ConversationsHandler) DeleteConversation(c *gin.Context) {
	if err := h.conversations.Reset(c.Request.Context(), c.Param("conversationId")); err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to reset conversation", err))
		return
	}

	c.Status(http.StatusNoContent)
}

// GetArchive handles GET /conversations/{conversationId}/archive
// @Summary Get archived messages
// @Description Lists archived messages of a conversation with pagination
// @Tags Conversations
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param limit query int false "Maximum number of messages" default(50) minimum(1) maximum(200)
// @Param offset query int false "Offset for pagination" default(0) minimum(0)
// @Success 200 {object} dto.ArchiveResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/price-chat/conversations/{conversationId}/archive [get]
func (h *ConversationsHandler) GetArchive(c *gin.Context) {
	conversationID := c.Param("conversationId")

	var query dto.ArchiveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid query parameters", err.Error()))
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultArchiveLimit
	}

	records, err := h.conversations.Archive(c.Request.Context(), conversationID, query.Limit, query.Offset)
	if errors.Is(err, chat.ErrArchiveDisabled) {
		middleware.HandleError(c, domainerrors.NewServiceUnavailableError("archive", err))
		return
	}
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to list archived messages", err))
		return
	}

	c.JSON(http.StatusOK, dto.ArchiveResponse{
		ConversationID: conversationID,
		Messages:       records,
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
}

func newConversationResponse(conv *chat.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		ConversationID: conv.ID(),
		State:          conv.State().String(),
		Messages:       dto.NewMessageResponses(conv.Visible()),
	}
}
