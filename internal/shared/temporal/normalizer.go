// Package temporal convierte cadenas de fecha/hora heterogéneas en instantes UTC canónicos.
package temporal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	sharedDomain "github.com/davicafu/billingbridge/internal/shared/domain"
)

// Kind selecciona la política de relleno y el truncado de la salida.
type Kind string

const (
	Instant Kind = "instant"
	Date    Kind = "date"
)

// DateLayout es el formato yyyy-MM-dd que espera el motor para pagos.
const DateLayout = "2006-01-02"

// offsetLayouts: ISO-8601 con zona explícita.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
}

// fallbackLayouts se interpretan siempre como UTC. El orden importa.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// Normalizer es inmutable y seguro para uso concurrente.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer crea un normalizador con el reloj del sistema.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerWithClock permite fijar el reloj en tests.
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize devuelve el instante UTC de input. Vacío no es error: se rellena con el
// instante actual (Instant) o con hoy a medianoche UTC (Date).
func (n *Normalizer) Normalize(input string, kind Kind) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return truncate(n.now().UTC(), kind), nil
	}

	t, ok := Parse(s)
	if !ok {
		return time.Time{}, &sharedDomain.FormatError{Input: input, Kind: string(kind)}
	}
	return truncate(t, kind), nil
}

// Parse aplica las reglas en orden y se detiene en la primera que reconoce s.
// El resultado siempre está en UTC.
func Parse(s string) (time.Time, bool) {
	// (a) ISO-8601 con offset
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	// (b) patrones sin offset: la hora ya es UTC, no local
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	// (c) último recurso
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// ParseOrZero es para datos que ya vienen del motor: vacío o ilegible → time.Time{}.
func ParseOrZero(s string) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, _ := Parse(strings.TrimSpace(s))
	return t
}

// EpochSeconds es el formato de timestamp de eventos en el motor.
func EpochSeconds(t time.Time) int64 {
	return t.Unix()
}

// FormatDate devuelve yyyy-MM-dd en UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func truncate(t time.Time, kind Kind) time.Time {
	if kind != Date {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
