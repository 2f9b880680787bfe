package sensors

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-report-agent/internal/metrics"
)

// Appender receives formatted history blocks.
type Appender interface {
	Append(entry string) error
}

// Options configures the MQTT connection.
type Options struct {
	Broker   string
	ClientID string
	Interval time.Duration
}

// Logger subscribes to the station topics and periodically appends the
// latest values to the history file.
type Logger struct {
	client   mqtt.Client
	latest   *Latest
	history  Appender
	interval time.Duration
	now      func() time.Time
}

// NewLogger returns a Logger for the default station sensors.
func NewLogger(opts Options, history Appender) *Logger {
	l := &Logger{
		latest:   NewLatest(Station),
		history:  history,
		interval: opts.Interval,
		now:      time.Now,
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(l.subscribe).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("WARN: history logger: connection to broker lost: %v", err)
		})
	l.client = mqtt.NewClient(clientOpts)
	return l
}

// Connect opens the broker connection. Subscriptions are (re)made on every
// successful connect.
func (l *Logger) Connect() error {
	token := l.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker: %w", token.Error())
	}
	return nil
}

func (l *Logger) subscribe(c mqtt.Client) {
	filters := make(map[string]byte, len(l.latest.sensors))
	for _, s := range l.latest.sensors {
		filters[s.Topic] = 0
	}

	token := c.SubscribeMultiple(filters, l.handleMessage)
	if token.Wait() && token.Error() != nil {
		log.Printf("ERROR: history logger: subscribe failed: %v", token.Error())
		return
	}
	log.Printf("INFO: history logger: subscribed to %d topics", len(filters))
}

func (l *Logger) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	raw := strings.TrimSpace(string(msg.Payload()))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("WARN: history logger: ignoring non-numeric payload %q on %s", raw, msg.Topic())
		return
	}
	l.latest.Set(msg.Topic(), v)
}

// Flush appends one history block with the latest values, if any.
func (l *Logger) Flush() error {
	entry, ok := l.latest.Entry(l.now())
	if !ok {
		return nil
	}
	if err := l.history.Append(entry); err != nil {
		return err
	}
	metrics.HistoryEntries.Inc()
	return nil
}

// Run flushes every interval until ctx is cancelled.
func (l *Logger) Run(ctx context.Context) {
	interval := l.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Flush(); err != nil {
				log.Printf("ERROR: history logger: %v", err)
				continue
			}
			log.Println("DEBUG: history logger: entry saved")
		}
	}
}

// Close disconnects from the broker.
func (l *Logger) Close() {
	if l.client.IsConnected() {
		l.client.Disconnect(250)
	}
}
