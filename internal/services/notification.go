package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
	"github.com/javieryacu/sinapsia-polirrubro/pkg/sendGrid"
)

type NotificationService struct {
	repo         repository.NotificationRepository
	emailService sendGrid.EmailService
	alertEmail   string
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendGrid.EmailService, alertEmail string) *NotificationService {
	return &NotificationService{repo: repo, emailService: emailService, alertEmail: alertEmail}
}

// AlertLowStock records a low-stock notification and mails the store
// owner. Called after a sale committed; failures are logged, never
// propagated, so the sale stays recorded.
func (n *NotificationService) AlertLowStock(ctx context.Context, product repository.StockLevel) {

	if n.alertEmail == "" {
		return
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeLowStock,
		Recipient: n.alertEmail,
		Subject:   fmt.Sprintf("Low stock: %s", product.Name),
		Content:   fmt.Sprintf("Product %q is down to %d units (minimum %d). Time to restock.", product.Name, product.Stock, product.MinStock),
		Status:    models.NotificationStatusPending,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		slog.Warn("Failed to record low-stock notification",
			slog.String("productId", product.ProductID.String()),
			slog.String("error", err.Error()))

		return
	}

	if err := n.sendEmail(ctx, notification); err != nil {
		slog.Warn("Failed to send low-stock alert",
			slog.String("productId", product.ProductID.String()),
			slog.String("error", err.Error()))
	}
}

func (n *NotificationService) sendEmail(ctx context.Context, notification *models.Notification) error {

	req := &models.EmailNotificationRequest{
		Subject:   notification.Subject,
		Content:   notification.Content,
		Recipient: notification.Recipient,
	}

	if err := n.emailService.Send(ctx, req); err != nil {

		_ = n.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusFailed, err.Error())

		return err
	}

	return n.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusSent, "")
}

func (n *NotificationService) ListNotifications(ctx context.Context, page, size int) ([]models.Notification, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 20
	}

	notifications, total, err := n.repo.ListNotifications(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}
