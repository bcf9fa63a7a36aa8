package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/ports"
)

// SubscriptionHandler exposes the subscription state machine over HTTP.
type SubscriptionHandler struct {
	service ports.SubscriptionManager
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(service ports.SubscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Subscribe handles POST /subscribe.
// A new address answers 201, a reactivated one 200.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	outcome, err := h.service.Subscribe(c.Request.Context(), req.Email, req.Timezone)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if outcome == domain.OutcomeResubscribed {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.MsgResubscribed})
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: dto.MsgCreated})
}

// Unsubscribe handles POST /unsubscribe.
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if _, err := h.service.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.MsgUnsubscribed})
}

// UnsubscribeByToken handles GET /unsubscribe?token=, the link in every email.
func (h *SubscriptionHandler) UnsubscribeByToken(c *gin.Context) {
	var q dto.TokenQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if _, err := h.service.UnsubscribeByToken(c.Request.Context(), q.Token); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.MsgUnsubscribed})
}

// RegisterRoutes mounts the subscription endpoints on rg. The limiters run
// before the handlers; nil skips limiting for that scope.
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup, subscribeLimit, unsubscribeLimit gin.HandlerFunc) {
	rg.POST("/subscribe", chain(subscribeLimit, h.Subscribe)...)
	rg.POST("/unsubscribe", chain(unsubscribeLimit, h.Unsubscribe)...)
	rg.GET("/unsubscribe", chain(unsubscribeLimit, h.UnsubscribeByToken)...)
}

func chain(limit, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{handler}
	}

	return []gin.HandlerFunc{limit, handler}
}
