package handlers

import (
	"errors"
	"net/http"

	dom "Social/internal/domain"
	"Social/internal/dto"
	"Social/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Create godoc
// @Summary      Post a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MessageRequest  true  "Message"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Create(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	m, err := h.svc.Post(c.Request.Context(), req.PostedBy, req.MessageText, req.TimePostedEpoch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageToResponse(m))
}

// List godoc
// @Summary      List all messages
// @Tags         messages
// @Produce      json
// @Success      200  {array}   dto.MessageResponse
// @Failure      500  {object}  map[string]string
// @Router       /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messagesToResponses(list))
}

// GetByID godoc
// @Summary      Get a message by ID
// @Description  An unknown id yields 200 with an empty body.
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /messages/{id} [get]
func (h *MessageHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusOK)
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageToResponse(m))
}

// Update godoc
// @Summary      Replace a message's text
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Message ID"
// @Param        body  body      dto.UpdateMessageRequest  true  "New text"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /messages/{id} [patch]
func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, req.MessageText)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageToResponse(m))
}

// Delete godoc
// @Summary      Delete a message
// @Description  Returns the deleted message; an unknown id yields 200 with an empty body.
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusOK)
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageToResponse(m))
}

// ListByAccount godoc
// @Summary      List messages posted by an account
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {array}   dto.MessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /accounts/{id}/messages [get]
func (h *MessageHandler) ListByAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListByAccount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messagesToResponses(list))
}

func messageToResponse(m dom.Message) dto.MessageResponse {
	return dto.MessageResponse{
		MessageID:       m.ID,
		PostedBy:        m.PostedBy,
		MessageText:     m.Text,
		TimePostedEpoch: m.PostedAt,
	}
}

// messagesToResponses never returns nil so empty lists encode as [].
func messagesToResponses(list []dom.Message) []dto.MessageResponse {
	return lo.Map(list, func(m dom.Message, _ int) dto.MessageResponse {
		return messageToResponse(m)
	})
}
