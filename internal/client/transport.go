package client

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/wolfeidau/surplus/internal/client"

// loggingTransport logs, traces and meters every API round trip.
type loggingTransport struct {
	next http.RoundTripper
}

func newLoggingTransport(next http.RoundTripper) http.RoundTripper {
	return &loggingTransport{next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	ctx, span := otel.Tracer(tracerName).Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.next.RoundTrip(req)

	elapsed := time.Since(started)
	m := telemetry.GetMetrics()
	attrs := []attribute.KeyValue{attribute.String("method", req.Method)}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		m.APIRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		m.APIRequestErrorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

		log.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", req.Header.Get(RequestIDHeader)).
			Dur("duration", elapsed).
			Msg("api call")

		return nil, err
	}

	attrs = append(attrs, attribute.String("status", strconv.Itoa(resp.StatusCode)))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	m.APIRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.APIRequestDuration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(attrs...))

	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		m.APIRequestErrorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Bool("cached", FromCache(resp)).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Dur("duration", elapsed).
		Msg("api call")

	return resp, nil
}
