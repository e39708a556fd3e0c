package notification

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const BudgetAlertRoutingKey = "budget.alert"

type Publisher interface {
	PublishBudgetAlert(ctx context.Context, msg BudgetAlertMessage) error
}

// Sender is the transport used by AmqpPublisher, implemented by amqp.Client.
type Sender interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type AmqpPublisher struct {
	sender Sender
}

func NewAmqpPublisher(sender Sender) *AmqpPublisher {
	return &AmqpPublisher{sender: sender}
}

func (p *AmqpPublisher) PublishBudgetAlert(ctx context.Context, msg BudgetAlertMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := p.sender.Publish(ctx, BudgetAlertRoutingKey, body); err != nil {
		return fmt.Errorf("failed to publish budget alert for user %s: %w", msg.UserUid, err)
	}
	return nil
}

// LogPublisher only logs alerts. Used when no message broker is configured.
type LogPublisher struct{}

func (LogPublisher) PublishBudgetAlert(ctx context.Context, msg BudgetAlertMessage) error {
	log.WithFields(log.Fields{
		"user":    msg.UserUid,
		"level":   msg.Level,
		"percent": msg.BudgetUsedPercent,
	}).Info("Budget alert")
	return nil
}
