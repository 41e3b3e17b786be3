package handlers

import (
	"log/slog"
	"net/http"

	"github.com/javieryacu/sinapsia-polirrubro/internal/api/middleware"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils/response"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, size := utils.ParsePagination(r)

		notifications, total, err := h.notificationService.ListNotifications(r.Context(), page, size)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     notifications,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}
