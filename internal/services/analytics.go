package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// usageEvent is one line of the append-only usage log.
type usageEvent struct {
	Timestamp time.Time
	Event     string
	IP        string
}

// AnalyticsService records usage events best-effort. Track never blocks
// and never fails from the caller's point of view; the writer goroutine
// swallows every I/O error. Analytics must never affect the response path.
type AnalyticsService interface {
	Start()
	Stop()
	Track(event string, ip string)
}

type analyticsService struct {
	logPath  string
	events   chan usageEvent
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewAnalyticsService(logPath string) AnalyticsService {
	return &analyticsService{
		logPath:  logPath,
		events:   make(chan usageEvent, 256),
		stopChan: make(chan struct{}),
	}
}

// Start implements AnalyticsService.
func (a *analyticsService) Start() {
	a.wg.Add(1)
	go a.writeEvents()
}

// Stop implements AnalyticsService. Queued events are drained before the
// writer exits.
func (a *analyticsService) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopChan)
	})
	a.wg.Wait()
}

// Track implements AnalyticsService. Drops the event when the buffer is
// full or the service is stopped rather than blocking a request.
func (a *analyticsService) Track(event string, ip string) {
	ev := usageEvent{Timestamp: time.Now().UTC(), Event: event, IP: ip}

	select {
	case a.events <- ev:
	default:
	}
}

func (a *analyticsService) writeEvents() {
	defer a.wg.Done()

	for {
		select {
		case ev := <-a.events:
			a.appendLine(ev)
		case <-a.stopChan:
			// Drain whatever is still queued.
			for {
				select {
				case ev := <-a.events:
					a.appendLine(ev)
				default:
					return
				}
			}
		}
	}
}

// appendLine writes one `<timestamp> | <event> | ip=<addr>` line. Failures
// are logged and forgotten.
func (a *analyticsService) appendLine(ev usageEvent) {
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0755); err != nil {
		log.Printf("⚠️  Analytics: failed to create log directory: %v", err)
		return
	}

	f, err := os.OpenFile(a.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("⚠️  Analytics: failed to open usage log: %v", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s | %s", ev.Timestamp.Format(time.RFC3339Nano), ev.Event)
	if ev.IP != "" && ev.IP != "unknown" {
		line += fmt.Sprintf(" | ip=%s", ev.IP)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		log.Printf("⚠️  Analytics: failed to write usage log: %v", err)
	}
}
