// Package sensors records the weather station's MQTT readings into the
// history file the report agent analyses.
package sensors

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-report-agent/internal/report"
)

// Sensor is one station channel published on its own MQTT topic.
type Sensor struct {
	Label string
	Unit  string
	Topic string
}

// Station lists the channels of the weather station, in history order.
var Station = []Sensor{
	{Label: "Temperatura", Unit: "°C", Topic: "clima/temperatura"},
	{Label: "Presión", Unit: "hPa", Topic: "clima/presion"},
	{Label: "Humedad", Unit: "%", Topic: "clima/humedad"},
	{Label: "Humedad suelo", Unit: "%", Topic: "clima/humedad_suelo"},
	{Label: "Luz", Unit: "lux", Topic: "clima/lux"},
	{Label: "Vibración", Unit: "Hz", Topic: "clima/vibracion"},
}

// timestampLayout renders instants as ISO 8601 with the UTC-5 offset.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// Latest keeps the most recent value received for each sensor.
type Latest struct {
	mu      sync.Mutex
	sensors []Sensor
	values  map[string]float64
}

// NewLatest returns an empty Latest for sensors.
func NewLatest(sensors []Sensor) *Latest {
	return &Latest{
		sensors: sensors,
		values:  make(map[string]float64),
	}
}

// Set records v for the sensor publishing on topic. Unknown topics are ignored.
func (l *Latest) Set(topic string, v float64) bool {
	for _, s := range l.sensors {
		if s.Topic == topic {
			l.mu.Lock()
			l.values[s.Label] = v
			l.mu.Unlock()
			return true
		}
	}
	return false
}

// Entry formats the current values as one history block. It returns false
// when no sensor has reported yet.
func (l *Latest) Entry(at time.Time) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(at.In(report.Zone).Format(timestampLayout))
	b.WriteString(":\n")
	for _, s := range l.sensors {
		v, ok := l.values[s.Label]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s: %s %s\n", s.Label, formatValue(v), s.Unit)
	}
	b.WriteString("\n")
	return b.String(), true
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
