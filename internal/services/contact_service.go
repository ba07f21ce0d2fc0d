package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
)

var (
	ErrSubjectTooShort = errors.New("subject must be at least 3 characters")
	ErrMessageTooShort = errors.New("message must be at least 10 characters")
)

// ContactService stores inbound support messages for review in the admin
// panel. No outbound mail is sent from here.
type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) Submit(ctx context.Context, userID uuid.UUID, email string, req *dto.ContactRequest) error {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if len(subject) < 3 {
		return ErrSubjectTooShort
	}
	if len(message) < 10 {
		return ErrMessageTooShort
	}

	msg := models.ContactMessage{
		UserID:  userID,
		Email:   email,
		Subject: subject,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	return nil
}

// ListMessages returns stored contact messages for the admin panel.
func (s *ContactService) ListMessages(ctx context.Context, limit, offset int) ([]models.ContactMessage, int64, error) {
	var messages []models.ContactMessage
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
