package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Condition is the single-token summary of the day's weather, e.g. "Dia Soleado".
type Condition string

// Trend classifies how a variable evolved over the analysed window.
type Trend string

const (
	TrendIncreasing Trend = "en aumento"
	TrendDecreasing Trend = "en descenso"
	TrendStable     Trend = "estable"
)

// Valid reports whether t is one of the three recognised trend labels.
func (t Trend) Valid() bool {
	switch t {
	case TrendIncreasing, TrendDecreasing, TrendStable:
		return true
	}
	return false
}

// Keys of the six variables every report describes.
const (
	VarTemperature  = "temperatura"
	VarPressure     = "presion"
	VarHumidity     = "humedad_relativa"
	VarLuminosity   = "luminosidad"
	VarSoilHumidity = "humedad_suelo"
	VarVibration    = "vibracion"
)

// Variables lists the metric keys in the order they are described to the model.
var Variables = []string{
	VarTemperature,
	VarPressure,
	VarHumidity,
	VarLuminosity,
	VarSoilHumidity,
	VarVibration,
}

// Report is the daily summary produced by the language model.
//
// Decoding is lenient: keys the model adds, and values that do not fit the
// typed field, are kept verbatim and written back on encode. Keys the model
// left out stay out. See document.go.
type Report struct {
	Fecha            string              `json:"fecha"`
	Resumen          string              `json:"resumen"`
	CondicionGeneral Condition           `json:"condicion_general"`
	Variables        map[string]Variable `json:"variables"`
	Anomalias        []string            `json:"anomalias"`
	Observaciones    string              `json:"observaciones"`

	extra  map[string]json.RawMessage
	absent map[string]bool
}

// Variable holds the statistics the model computed for one metric.
type Variable struct {
	Promedio  Measure `json:"promedio"`
	Max       Measure `json:"max"`
	Min       Measure `json:"min"`
	Tendencia Trend   `json:"tendencia"`
}

// Measure keeps the raw JSON value the model returned for a statistic.
// Models return plain numbers most of the time but occasionally a string
// with units ("21.4 °C"); both survive a save/load cycle unchanged.
type Measure struct {
	raw json.RawMessage
}

// NewMeasure returns a numeric Measure.
func NewMeasure(v float64) Measure {
	return Measure{raw: json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64))}
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Measure) UnmarshalJSON(data []byte) error {
	m.raw = append(m.raw[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Measure) MarshalJSON() ([]byte, error) {
	if len(m.raw) == 0 {
		return []byte("null"), nil
	}
	return m.raw, nil
}

// Float returns the numeric value of the measure. Strings are parsed up to
// the first non-numeric token, so "21.4 °C" yields 21.4.
func (m Measure) Float() (float64, bool) {
	raw := bytes.TrimSpace(m.raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	fields := strings.Fields(strings.ReplaceAll(s, ",", "."))
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
