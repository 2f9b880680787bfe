package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

const (
	keyFecha            = "fecha"
	keyResumen          = "resumen"
	keyCondicionGeneral = "condicion_general"
	keyVariables        = "variables"
	keyAnomalias        = "anomalias"
	keyObservaciones    = "observaciones"
)

// typedKeys is the encode order of the typed fields.
var typedKeys = []string{
	keyFecha,
	keyResumen,
	keyCondicionGeneral,
	keyVariables,
	keyAnomalias,
	keyObservaciones,
}

var errNotObject = errors.New("report must be a JSON object")

// Extra returns the raw value of a key that is not held by a typed field,
// either because the field does not exist or because the value did not fit it.
func (r Report) Extra(key string) (json.RawMessage, bool) {
	v, ok := r.extra[key]
	return v, ok
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Report) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return errNotObject
	}

	*r = Report{}
	for key, raw := range doc {
		if r.decodeField(key, raw) {
			continue
		}
		// fecha is always replaced before saving; an off-type value is dropped.
		if key == keyFecha {
			continue
		}
		if r.extra == nil {
			r.extra = make(map[string]json.RawMessage)
		}
		r.extra[key] = raw
	}

	for _, key := range typedKeys {
		if _, ok := doc[key]; ok || key == keyFecha {
			continue
		}
		if r.absent == nil {
			r.absent = make(map[string]bool)
		}
		r.absent[key] = true
	}
	return nil
}

func (r *Report) decodeField(key string, raw json.RawMessage) bool {
	switch key {
	case keyFecha:
		return decodeInto(raw, &r.Fecha)
	case keyResumen:
		return decodeInto(raw, &r.Resumen)
	case keyCondicionGeneral:
		return decodeInto(raw, &r.CondicionGeneral)
	case keyVariables:
		return decodeInto(raw, &r.Variables)
	case keyAnomalias:
		return decodeInto(raw, &r.Anomalias)
	case keyObservaciones:
		return decodeInto(raw, &r.Observaciones)
	}
	return false
}

func decodeInto[T any](raw json.RawMessage, dst *T) bool {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

// MarshalJSON implements json.Marshaler. Typed fields come first in a fixed
// order, followed by extra keys sorted by name.
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeKey := func(key string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := encode(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for _, key := range typedKeys {
		if key != keyFecha {
			if r.absent[key] {
				continue
			}
			if _, ok := r.extra[key]; ok {
				continue
			}
		}
		value, err := encode(r.typedValue(key))
		if err != nil {
			return nil, err
		}
		if err := writeKey(key, value); err != nil {
			return nil, err
		}
	}

	extraKeys := make([]string, 0, len(r.extra))
	for key := range r.extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		if err := writeKey(key, r.extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Report) typedValue(key string) any {
	switch key {
	case keyFecha:
		return r.Fecha
	case keyResumen:
		return r.Resumen
	case keyCondicionGeneral:
		return r.CondicionGeneral
	case keyVariables:
		return r.Variables
	case keyAnomalias:
		return r.Anomalias
	default:
		return r.Observaciones
	}
}

// encode marshals v without HTML escaping so report text stays literal.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
