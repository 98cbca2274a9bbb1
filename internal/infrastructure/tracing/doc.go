/*
Package tracing provides lightweight request tracing for the desktop server.

Every REST request and every inbound stream message runs inside a span. Spans
carry a trace id that is either continued from the X-Trace-ID header or freshly
minted, and are logged through zap by a buffered background collector.

# Usage

	tracer := tracing.New("desktop", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "ws.command")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Propagation

  - X-Trace-ID: identifier for the entire request flow
  - X-Span-ID: identifier for the current operation

Both are echoed on every response so renderers can correlate feedback with
server logs.
*/
package tracing
