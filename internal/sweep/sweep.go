// Package sweep periodically re-classifies operator certificates and raises
// alerts when their derived status changes.
package sweep

import (
	"context"
	"log"
	"sync"
	"time"

	"forklift-fleet-backend/internal/metrics"
	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/notification"
	"forklift-fleet-backend/internal/status"
)

// Operators lists every operator.
type Operators interface {
	List(ctx context.Context) ([]model.Operator, error)
}

// Dispatcher queues alerts for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert notification.Alert) error
}

// Result summarizes one sweep.
type Result struct {
	Checked int
	Drift   int
	Alerts  int
	Invalid int
}

// Service runs the certificate sweep.
type Service struct {
	operators  Operators
	classifier *status.Classifier
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	interval   time.Duration

	mu   sync.Mutex
	last map[certKey]model.CertificateStatus
}

type certKey struct {
	operator    string
	certificate string
}

// NewService creates a sweep service. dispatcher and m may be nil.
func NewService(operators Operators, classifier *status.Classifier, dispatcher Dispatcher, m *metrics.Metrics, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		operators:  operators,
		classifier: classifier,
		dispatcher: dispatcher,
		metrics:    m,
		interval:   interval,
		last:       make(map[certKey]model.CertificateStatus),
	}
}

// Run sweeps once right away and then on every interval until ctx ends.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting certificate sweep service...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Certificate sweep service shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SweepOnce classifies every certificate and dispatches an alert for each
// one whose derived status became warning or expired, or changed since the
// previous sweep.
func (s *Service) SweepOnce(ctx context.Context) Result {
	start := time.Now()
	var res Result

	operators, err := s.operators.List(ctx)
	if err != nil {
		log.Printf("Error listing operators for sweep: %v", err)
		return res
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listed := make(map[string]bool, len(operators))
	for _, op := range operators {
		listed[op.ID] = true
		report, err := status.CheckOperator(op, s.classifier)
		if err != nil {
			log.Printf("Skipping operator %s: %v", op.ID, err)
			res.Invalid++
			continue
		}
		res.Checked++

		for _, check := range report.Checks() {
			if check.Inconsistent {
				res.Drift++
				log.Printf("Operator %s %s certificate is stored as %q but is %q as of today",
					op.ID, check.Certificate, check.Stored, check.Derived)
			}
			key := certKey{operator: op.ID, certificate: check.Certificate}
			if !s.needsAlert(key, check.Derived) || s.dispatcher == nil {
				s.last[key] = check.Derived
				continue
			}
			// A failed dispatch leaves the previous status so the next sweep retries.
			if s.dispatch(ctx, op, check) {
				s.last[key] = check.Derived
				res.Alerts++
			}
		}
	}

	for key := range s.last {
		if !listed[key.operator] {
			delete(s.last, key)
		}
	}

	if s.metrics != nil {
		s.metrics.CertificateDrift.Set(float64(res.Drift))
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}
	log.Printf("Sweep complete: %d operators checked, %d drifted certificates, %d alerts, %d skipped",
		res.Checked, res.Drift, res.Alerts, res.Invalid)
	return res
}

// needsAlert reports whether derived deserves an alert given the status
// last recorded for key. Callers hold s.mu.
func (s *Service) needsAlert(key certKey, derived model.CertificateStatus) bool {
	prev, seen := s.last[key]
	if !seen {
		return derived == model.CertificateWarning || derived == model.CertificateExpired
	}
	return prev != derived
}

func (s *Service) dispatch(ctx context.Context, op model.Operator, check status.CertificateCheck) bool {
	err := s.dispatcher.Dispatch(ctx, notification.Alert{
		OperatorID:   op.ID,
		OperatorName: op.Name,
		Certificate:  check.Certificate,
		Expiration:   check.Expiration,
		Status:       check.Derived,
	})
	if err != nil {
		log.Printf("Error dispatching alert for operator %s: %v", op.ID, err)
		return false
	}
	return true
}
