package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"propchain/internal/model"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectVerificationSubmitted = "verification.submitted"
	SubjectVerificationDecided   = "verification.decided"
)

// Publisher события верификации объектов
type Publisher interface {
	PublishSubmitted(ctx context.Context, pending *model.PendingVerification) error
	PublishDecided(ctx context.Context, item *model.VerificationHistoryItem) error
	SubscribeDecided(ctx context.Context, handler func(*VerificationDecidedMessage)) error
	Close()
}

// conn подмножество *nats.Conn, которое используется клиентом
type conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Close()
}

type natsClient struct {
	conn   conn
	logger *zap.Logger
}

func NewNATSClient(url string, logger *zap.Logger) (Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("propchain-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to NATS", zap.String("url", url))
	return &natsClient{
		conn:   nc,
		logger: logger,
	}, nil
}

type VerificationSubmittedMessage struct {
	PendingID   string    `json:"pending_id"`
	PropertyID  string    `json:"property_id"`
	Property    string    `json:"property"`
	OwnerWallet string    `json:"owner_wallet"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type VerificationDecidedMessage struct {
	HistoryID      string `json:"history_id"`
	PropertyID     string `json:"property_id"`
	Status         string `json:"status"`
	Note           string `json:"note,omitempty"`
	VerifierWallet string `json:"verifier_wallet"`
}

func (c *natsClient) publish(subject, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to marshal message", zap.Error(err), zap.String("subject", subject))
		return fmt.Errorf("failed to marshal %s message: %w", subject, err)
	}

	if err := c.conn.Publish(subject, data); err != nil {
		c.logger.Error("failed to publish message", zap.Error(err), zap.String("subject", subject), zap.String("id", key))
		return fmt.Errorf("failed to publish %s message: %w", subject, err)
	}

	c.logger.Info("message published", zap.String("subject", subject), zap.String("id", key))
	return nil
}

func (c *natsClient) PublishSubmitted(ctx context.Context, pending *model.PendingVerification) error {
	return c.publish(SubjectVerificationSubmitted, pending.ID, VerificationSubmittedMessage{
		PendingID:   pending.ID,
		PropertyID:  pending.PropertyID,
		Property:    pending.PropertyName,
		OwnerWallet: pending.OwnerWallet,
		SubmittedAt: pending.SubmittedAt,
	})
}

func (c *natsClient) PublishDecided(ctx context.Context, item *model.VerificationHistoryItem) error {
	msg := VerificationDecidedMessage{
		HistoryID:      item.ID,
		PropertyID:     item.PropertyID,
		Status:         string(item.Status),
		VerifierWallet: item.VerifierWallet,
	}
	if item.Note != nil {
		msg.Note = *item.Note
	}
	return c.publish(SubjectVerificationDecided, item.ID, msg)
}

func (c *natsClient) SubscribeDecided(ctx context.Context, handler func(*VerificationDecidedMessage)) error {
	_, err := c.conn.Subscribe(SubjectVerificationDecided, func(msg *nats.Msg) {
		var decided VerificationDecidedMessage
		if err := json.Unmarshal(msg.Data, &decided); err != nil {
			c.logger.Error("failed to unmarshal verification decided message", zap.Error(err))
			return
		}

		handler(&decided)
		c.logger.Info("verification decided message processed", zap.String("history_id", decided.HistoryID), zap.String("status", decided.Status))
	})
	if err != nil {
		c.logger.Error("failed to subscribe to verification decided", zap.Error(err))
		return fmt.Errorf("failed to subscribe to verification decided: %w", err)
	}

	c.logger.Info("subscribed to verification decided messages")
	return nil
}

func (c *natsClient) Close() {
	if c.conn != nil {
		c.conn.Close()
		c.logger.Info("NATS connection closed")
	}
}

// NewNoop издатель для запуска без NATS: события только пишутся в лог
func NewNoop(logger *zap.Logger) Publisher {
	return noopPublisher{logger: logger}
}

type noopPublisher struct {
	logger *zap.Logger
}

func (p noopPublisher) PublishSubmitted(ctx context.Context, pending *model.PendingVerification) error {
	p.logger.Debug("nats disabled, event dropped", zap.String("subject", SubjectVerificationSubmitted), zap.String("id", pending.ID))
	return nil
}

func (p noopPublisher) PublishDecided(ctx context.Context, item *model.VerificationHistoryItem) error {
	p.logger.Debug("nats disabled, event dropped", zap.String("subject", SubjectVerificationDecided), zap.String("id", item.ID))
	return nil
}

func (p noopPublisher) SubscribeDecided(ctx context.Context, handler func(*VerificationDecidedMessage)) error {
	return nil
}

func (p noopPublisher) Close() {}
