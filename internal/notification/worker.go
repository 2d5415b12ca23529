package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"

	"forklift-fleet-backend/internal/metrics"
	"forklift-fleet-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Subscriptions is the part of the store the workers need.
type Subscriptions interface {
	SubscriptionsForOperator(ctx context.Context, operatorID string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Alert reports that a certificate of an operator needs attention.
type Alert struct {
	OperatorID   string                  `json:"operatorId"`
	OperatorName string                  `json:"operatorName"`
	Certificate  string                  `json:"certificate"`
	Expiration   string                  `json:"expiration"`
	Status       model.CertificateStatus `json:"status"`
}

// Message is the human readable text of the alert.
func (a Alert) Message() string {
	name := a.OperatorName
	if name == "" {
		name = a.OperatorID
	}
	cert := strings.ToUpper(a.Certificate)
	switch a.Status {
	case model.CertificateExpired:
		return fmt.Sprintf("%s certificate of %s expired on %s", cert, name, a.Expiration)
	case model.CertificateWarning:
		return fmt.Sprintf("%s certificate of %s expires on %s", cert, name, a.Expiration)
	default:
		return fmt.Sprintf("%s certificate of %s is regular again", cert, name)
	}
}

type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Alert
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	subs    Subscriptions
	webpush *webpush.Options
	sender  NotificationSender
	metrics *metrics.Metrics
}

// NewWorkerPool creates a new worker pool. m may be nil.
func NewWorkerPool(size int, subs Subscriptions, webpushOptions *webpush.Options, m *metrics.Metrics) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size*4),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		metrics: m,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			log.Printf("Worker %d processing %s alert for operator %s", id, alert.Certificate, alert.OperatorID)
			wp.sendAlert(ctx, alert)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert. It blocks while the queue is full unless ctx
// ends first.
func (wp *WorkerPool) Dispatch(ctx context.Context, alert Alert) error {
	select {
	case wp.jobs <- alert:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool) sendAlert(ctx context.Context, alert Alert) {
	subscriptions, err := wp.subs.SubscriptionsForOperator(ctx, alert.OperatorID)
	if err != nil {
		log.Printf("Error fetching subscriptions for operator %s: %v", alert.OperatorID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	body, err := json.Marshal(payload{Title: "Certificate alert", Body: alert.Message(), Alert: alert})
	if err != nil {
		log.Printf("Error encoding alert for operator %s: %v", alert.OperatorID, err)
		return
	}

	log.Printf("Sending %d notifications for operator %s", len(subscriptions), alert.OperatorID)
	for _, sub := range subscriptions {
		wp.send(ctx, sub, body)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, body []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(body, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		wp.count("error")
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone:
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		wp.count("gone")
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	case resp.StatusCode >= 400:
		log.Printf("Push service rejected notification to %s: %s", sub.Endpoint, resp.Status)
		wp.count("rejected")
	default:
		wp.count("sent")
	}
}

func (wp *WorkerPool) count(outcome string) {
	if wp.metrics != nil {
		wp.metrics.AlertsSent.WithLabelValues(outcome).Inc()
	}
}
