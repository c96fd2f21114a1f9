package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/lure/internal/intel"
)

// Report is the payload posted to the scoring endpoint whenever a scam
// session produces new state worth reporting.
type Report struct {
	SessionID                 string       `json:"sessionId"`
	ScamDetected              bool         `json:"scamDetected"`
	TotalMessagesExchanged    int          `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int64        `json:"engagementDurationSeconds"`
	ExtractedIntelligence     intel.Record `json:"extractedIntelligence"`
	AgentNotes                string       `json:"agentNotes"`
	ScamType                  string       `json:"scamType"`
	ConfidenceLevel           float64      `json:"confidenceLevel"`
}

// Dispatcher delivers reports to the external endpoint off the request path.
// Delivery is best effort: a full queue or a failed POST is logged and
// dropped, never retried, and never surfaces to the caller.
type Dispatcher struct {
	url    string
	client *http.Client
	logger *slog.Logger

	queue chan Report
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(url string, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
		queue:  make(chan Report, 64),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

// Dispatch queues a report for delivery and reports whether an attempt was
// actually issued. It never blocks the caller: with no endpoint configured
// or a full queue the report is dropped and Dispatch returns false, so the
// caller knows the session is still unreported.
func (d *Dispatcher) Dispatch(report Report) bool {
	if d.url == "" {
		return false
	}
	select {
	case d.queue <- report:
		return true
	default:
		d.logger.Warn("callback queue full, dropping report", "session_id", report.SessionID)
		return false
	}
}

// Close drains the queue and stops the worker. Further Dispatch calls panic.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for report := range d.queue {
		if err := d.post(report); err != nil {
			d.logger.Warn("callback delivery failed",
				"session_id", report.SessionID,
				"error", err,
			)
			continue
		}
		d.logger.Info("callback delivered",
			"session_id", report.SessionID,
			"scam_type", report.ScamType,
		)
	}
}

func (d *Dispatcher) post(report Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
