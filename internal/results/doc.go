// Package results collects per-request outcomes from the load units and
// aggregates them into a bounded buffer and cumulative counters.
//
// # Event Flow
//
// Load units emit [Row] and [Done] events on a single channel. One
// [Aggregator] goroutine consumes that channel, so buffer eviction and
// counter updates are never applied concurrently:
//
//	events := make(chan results.Event, 64)
//	agg := results.NewAggregator(results.AggregatorOptions{OnCapacity: eng.Stop})
//	go agg.Consume(events)
//
// Readers take consistent copies via [Aggregator.Snapshot].
//
// # Buffering
//
// The buffer keeps the most recent rows, newest first, capped at
// [DefaultBufferSize] entries. Old rows are evicted; the [Summary] counters
// keep growing regardless.
//
// # Capacity Stop
//
// When the cumulative sent count reaches the configured absolute maximum the
// aggregator invokes its OnCapacity callback once and drops every later row.
// This is a safety net independent of each unit's assigned count.
//
// # CSV Export
//
// [WriteCSV] serializes buffered rows oldest first with the header
// "timestamp,unitId,statusCode,timeMs,snippet,error". [ExportFile] adds an
// advisory file lock so concurrent exports to one path cannot interleave.
package results
