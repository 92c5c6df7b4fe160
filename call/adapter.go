package call

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
)

const tracerName = "github.com/opd-ai/commsbridge/call"

// Adapter runs bridge operations and reduces their outcome to a status code.
type Adapter struct {
	last   *LastError
	tracer trace.Tracer
}

// NewAdapter creates an adapter that reports failures into last. A nil
// provider uses the global OpenTelemetry provider.
func NewAdapter(last *LastError, tp trace.TracerProvider) *Adapter {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Adapter{last: last, tracer: tp.Tracer(tracerName)}
}

// Do runs work and returns its status. Panics inside work are recovered and
// reported as internal failures.
func (a *Adapter) Do(ctx context.Context, op string, work func() error) (code status.Code) {
	_, span := a.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("commsbridge.operation", op)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := status.New(status.KindInternal).
				Op(op).
				Value(r).
				Detail("panic: %v", r).
				Build()
			logrus.WithFields(logrus.Fields{
				"function": op,
				"panic":    fmt.Sprint(r),
				"stack":    string(debug.Stack()),
			}).Error("Recovered panic in bridge call")
			code = a.fail(span, op, err)
		}
	}()

	if err := work(); err != nil {
		return a.fail(span, op, err)
	}

	span.SetAttributes(attribute.String("commsbridge.status", status.OK.String()))
	span.SetStatus(codes.Ok, "")
	return status.OK
}

func (a *Adapter) fail(span trace.Span, op string, err error) status.Code {
	code := status.CodeOf(err)
	msg := fmt.Sprintf("%s: %v", op, err)
	a.last.Set(msg)

	span.RecordError(err)
	span.SetAttributes(attribute.String("commsbridge.status", code.String()))
	span.SetStatus(codes.Error, msg)

	entry := logrus.WithFields(logrus.Fields{
		"function": op,
		"status":   code.String(),
		"error":    err.Error(),
	})
	if code == status.Internal {
		entry.Error("Bridge call failed")
	} else {
		entry.Warn("Bridge call failed")
	}
	return code
}

// Await blocks until f settles and returns its outcome. A nil future is an
// internal error.
func Await[T any](f *sdk.Future[T]) (T, error) {
	if f == nil {
		var zero T
		return zero, status.New(status.KindInternal).Detail("sdk returned no future").Build()
	}
	return f.Wait()
}

// Wait blocks until a value-less future settles.
func Wait(f *sdk.Future[struct{}]) error {
	_, err := Await(f)
	return err
}
