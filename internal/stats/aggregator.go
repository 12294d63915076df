package stats

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ademuri/streaming-history-tools/internal/history"
	"github.com/ademuri/streaming-history-tools/internal/logging"
	"github.com/ademuri/streaming-history-tools/internal/metrics"
)

// RunStats describes one aggregation pass.
type RunStats struct {
	ID          string        `json:"id"`
	FilesSeen   int           `json:"filesSeen"`
	FilesParsed int           `json:"filesParsed"`
	FilesFailed int           `json:"filesFailed"`
	Records     int           `json:"records"`
	Skipped     int           `json:"skippedElements"`
	Events      int           `json:"events"`
	Duration    time.Duration `json:"duration"`
}

// Run walks root once and hands every event to each collector in the order
// given. A file that cannot be opened or parsed, or whose events make a
// collector fail, is logged and abandoned; events it already produced stay
// counted. Run does not finalize the collectors. Only a failure to walk root
// is returned.
func Run(root string, collectors ...Collector) (RunStats, error) {
	start := time.Now()
	run := RunStats{ID: uuid.NewString()[:8]}
	log := logging.With().Str("run", run.ID).Str("folder", root).Logger()

	err := history.Walk(root, func(path string) error {
		run.FilesSeen++
		events, skipped, err := runFile(path, collectors, log)
		run.Records += events + skipped
		run.Skipped += skipped
		run.Events += events
		if err != nil {
			run.FilesFailed++
			log.Warn().Str("file", path).Err(err).Msg("abandoning file")
			return nil
		}
		run.FilesParsed++
		return nil
	})
	run.Duration = time.Since(start)
	metrics.RecordAggregation(run.Duration, run.FilesParsed, run.FilesFailed, run.Events)
	if err != nil {
		return run, err
	}

	log.Info().
		Int("files", run.FilesSeen).
		Int("failed", run.FilesFailed).
		Int("events", run.Events).
		Dur("duration", run.Duration).
		Msg("aggregation complete")
	return run, nil
}

// runFile streams one file through the collectors, returning how many events
// were dispatched and how many non-object elements were passed over.
func runFile(path string, collectors []Collector, log zerolog.Logger) (events, skipped int, err error) {
	log.Debug().Str("file", path).Msg("reading")

	s, err := history.OpenStream(path)
	if err != nil {
		return 0, 0, err
	}
	defer s.Close()

	for s.Next() {
		ev := history.Normalize(s.Record())
		events++
		for _, c := range collectors {
			if err := c.Collect(ev); err != nil {
				return events, s.Skipped(), fmt.Errorf("event %d: %w", s.Records(), err)
			}
		}
	}
	return events, s.Skipped(), s.Err()
}
