package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks the span failed and records err on it.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// SetFindings records finding counts on the span.
func SetFindings(span trace.Span, errorCount, warningCount int) {
	span.SetAttributes(
		attribute.Int(ErrorCountKey, errorCount),
		attribute.Int(WarningCountKey, warningCount),
	)
}
