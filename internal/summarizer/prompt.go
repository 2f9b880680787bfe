package summarizer

import (
	"fmt"
	"strings"

	"github.com/i474232898/weather-report-agent/internal/report"
)

const systemPrompt = "Eres un experto meteorólogo que responde en formato JSON."

const promptTemplate = `Analiza los siguientes datos meteorológicos de las últimas 24 horas. Cada bloque comienza con una marca de tiempo en formato ISO 8601.

Datos:
---
%s
---

Genera un informe en formato JSON que contenga:
1. "fecha": la fecha de hoy en formato YYYY-MM-DD.
2. "resumen": un texto corto y legible que describa el clima del día.
3. "condicion_general": una única expresión que resuma la condición del día (ej. "Dia Soleado", "Dia Lluvioso", "Dia Nublado", "Dia Parcialmente Nublado").
4. "variables": un objeto con una entrada para %s. Para cada variable calcula:
   - "promedio": el valor medio.
   - "max": el valor máximo.
   - "min": el valor mínimo.
   - "tendencia": %s.
5. "anomalias": una lista de strings con cualquier cambio brusco o evento inusual (ej. "Caída abrupta de luminosidad a las 18:01").
6. "observaciones": una interpretación final de las condiciones generales (ej. "Condiciones favorables para precipitaciones nocturnas.").

Responde únicamente con el objeto JSON, sin texto adicional.`

// buildPrompt embeds the raw history text in the analysis instructions.
func buildPrompt(history string) string {
	keys := make([]string, len(report.Variables))
	for i, v := range report.Variables {
		keys[i] = fmt.Sprintf("%q", v)
	}
	trends := fmt.Sprintf("exactamente uno de %q, %q o %q",
		report.TrendIncreasing, report.TrendDecreasing, report.TrendStable)

	return fmt.Sprintf(promptTemplate, history, strings.Join(keys, ", "), trends)
}
