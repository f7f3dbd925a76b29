package shop

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMessageLength = 5000

type MessageRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	ClientKey string `json:"-"`
}

// SubmitMessage stores a contact-form message. At least one of email and
// phone must be given so the shop can reply.
func (s *Service) SubmitMessage(ctx context.Context, req MessageRequest) (*Message, error) {
	const operation = "shop.Service.SubmitMessage"

	if err := s.allow(ctx, "message", req.ClientKey); err != nil {
		return nil, err
	}

	msg := &Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Body:    strings.TrimSpace(req.Body),
	}
	switch {
	case msg.Name == "":
		return nil, invalidInput("name", "is required")
	case msg.Body == "":
		return nil, invalidInput("body", "is required")
	case len([]rune(msg.Body)) > maxMessageLength:
		return nil, invalidInput("body", "is too long")
	case msg.Email == "" && msg.Phone == "":
		return nil, invalidInput("email", "or phone is required")
	case msg.Email != "" && !isValidEmail(msg.Email):
		return nil, invalidInput("email", "is not a valid address")
	case msg.Phone != "" && !IsValidPhoneNumber(msg.Phone):
		return nil, invalidInput("phone", "is not a valid phone number")
	}
	if msg.Phone != "" {
		msg.Phone = NormalizePhoneNumber(msg.Phone)
	}
	msg.ID = uuid.New()
	msg.CreatedAt = s.now()

	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	s.logger.Info("Contact message received", zap.String("message_id", msg.ID.String()))
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, unreadOnly bool) ([]Message, error) {
	list, err := s.messages.List(ctx, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("shop.Service.ListMessages: %w", err)
	}
	return list, nil
}

func (s *Service) GetMessage(ctx context.Context, id uuid.UUID) (*Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shop.Service.GetMessage: %w", err)
	}
	return msg, nil
}

func (s *Service) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	if err := s.messages.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("shop.Service.MarkMessageRead: %w", err)
	}
	return nil
}

func (s *Service) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		return fmt.Errorf("shop.Service.DeleteMessage: %w", err)
	}
	return nil
}

func isValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
