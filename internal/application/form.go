package application

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/ports"
)

// ErrSubmitInFlight is returned when a submission starts while another
// one on the same bridge has not finished.
var ErrSubmitInFlight = errors.New("submission already in flight")

// CoerceNumeric converts free-form user input into the number a form
// field submits. Anything that does not parse, including the empty
// string, becomes 0; the submission proceeds with that value rather
// than being rejected.
func CoerceNumeric(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CoerceInt applies the same policy for integer fields.
func CoerceInt(raw string) int {
	return int(CoerceNumeric(raw))
}

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumeric
	FieldInteger
)

type Field struct {
	Name  string
	Kind  FieldKind
	Value string
}

// Form collects raw string inputs and coerces them into the typed
// payload a dispatch sends. Fields keep insertion order; setting an
// existing name overwrites in place.
type Form struct {
	fields []Field
}

func (f *Form) Set(name string, kind FieldKind, value string) *Form {
	for i := range f.fields {
		if f.fields[i].Name == name {
			f.fields[i].Kind = kind
			f.fields[i].Value = value
			return f
		}
	}
	f.fields = append(f.fields, Field{Name: name, Kind: kind, Value: value})
	return f
}

func (f *Form) SetText(name, value string) *Form {
	return f.Set(name, FieldText, value)
}

func (f *Form) SetNumeric(name, value string) *Form {
	return f.Set(name, FieldNumeric, value)
}

func (f *Form) SetInteger(name, value string) *Form {
	return f.Set(name, FieldInteger, value)
}

// Payload produces the typed mapping for dispatch. Numeric fields go
// through CoerceNumeric so the wire never carries NaN or raw strings
// where the server expects numbers.
func (f *Form) Payload() map[string]any {
	payload := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		switch field.Kind {
		case FieldNumeric:
			payload[field.Name] = CoerceNumeric(field.Value)
		case FieldInteger:
			payload[field.Name] = CoerceInt(field.Value)
		default:
			payload[field.Name] = field.Value
		}
	}
	return payload
}

// Notifier surfaces outcome messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// FormBridge runs the shared submit flow for create and edit forms:
// coerce the fields, dispatch, and on success refresh the backing
// collection. At most one submission is in flight per bridge; a second
// submit while the first is pending fails fast instead of double
// posting.
type FormBridge struct {
	dispatcher ports.FormDispatcher
	notifier   Notifier
	logger     *zap.Logger

	gate chan struct{}
}

func NewFormBridge(dispatcher ports.FormDispatcher, notifier Notifier, logger *zap.Logger) *FormBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	gate := make(chan struct{}, 1)
	gate <- struct{}{}
	return &FormBridge{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		gate:       gate,
	}
}

// Submit posts the form and reports the server's verdict. refresh, when
// non-nil, runs after a successful submission so list views catch up
// with the mutation. The in-flight gate is released on every path,
// including dispatch errors.
func (b *FormBridge) Submit(ctx context.Context, method, path string, form *Form, refresh func(context.Context) error) (ports.ServerResult, error) {
	select {
	case <-b.gate:
	default:
		return ports.ServerResult{}, ErrSubmitInFlight
	}
	defer func() { b.gate <- struct{}{} }()

	result, err := b.dispatcher.Dispatch(ctx, method, path, form.Payload())
	if err != nil {
		b.logger.Warn("form dispatch failed", zap.String("path", path), zap.Error(err))
		if b.notifier != nil {
			b.notifier.Error("Network error. Please try again.")
		}
		return ports.ServerResult{}, err
	}

	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Operation failed"
		}
		if b.notifier != nil {
			b.notifier.Error(message)
		}
		return result, nil
	}

	if refresh != nil {
		if err := refresh(ctx); err != nil {
			b.logger.Warn("refresh after submit failed", zap.String("path", path), zap.Error(err))
		}
	}
	if b.notifier != nil {
		message := result.Message
		if message == "" {
			message = "Saved"
		}
		b.notifier.Success(message)
	}
	return result, nil
}
