// Package roster turns the decoded token stream of a weekly Sitzungsdienst
// roster into sorted assignment records.
//
// Flow: pages -> Section -> date buckets -> Segment -> blocks -> Split ->
// spans -> field classification -> AssembleBlock -> MergeDefects -> SortRecords.
package roster

import (
	"log/slog"
	"time"
)

// Extractor runs the extraction flow. It holds no per-document state, so one
// Extractor may be used for any number of documents.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns an Extractor logging to logger (slog.Default if nil).
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract converts pages into sorted records. An empty result is valid.
func (e *Extractor) Extract(pages []Page) []AssignmentRecord {
	start := time.Now()

	buckets := Section(pages, e.logger)

	var (
		raw    []AssignmentRecord
		blocks int
	)
	for _, date := range buckets.Dates() {
		for _, b := range Segment(buckets.Tokens(date)) {
			blocks++
			raw = append(raw, AssembleBlock(date, b)...)
		}
	}

	records := MergeDefects(raw)
	SortRecords(records)

	e.logger.Debug("extract.ok",
		"pages", len(pages),
		"dates", buckets.Len(),
		"blocks", blocks,
		"raw_records", len(raw),
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return records
}
