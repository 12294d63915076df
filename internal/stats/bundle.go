package stats

import (
	"fmt"
	"time"
)

// Bundle is the finalized output of one pass. It is read-only once returned.
type Bundle struct {
	Folder     string    `json:"folder"`
	ComputedAt time.Time `json:"computedAt"`
	Run        RunStats  `json:"run"`

	Top     *TopCollector     `json:"-"`
	General *GeneralCollector `json:"-"`
	Daily   *DailyCollector   `json:"-"`
	Yearly  *YearlyCollector  `json:"-"`
}

// Compute runs a full pass over folder with the standard collectors, in the
// order top, general, daily, yearly, and finalizes them.
func Compute(folder string) (*Bundle, error) {
	b := &Bundle{
		Folder:  folder,
		Top:     NewTopCollector(),
		General: NewGeneralCollector(),
		Daily:   NewDailyCollector(),
		Yearly:  NewYearlyCollector(),
	}

	run, err := Run(folder, b.collectors()...)
	if err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", folder, err)
	}
	for _, c := range b.collectors() {
		c.Finalize()
	}

	b.Run = run
	b.ComputedAt = time.Now()
	return b, nil
}

func (b *Bundle) collectors() []Collector {
	return []Collector{b.Top, b.General, b.Daily, b.Yearly}
}

// AllStats is the serializable view of every statistic in a bundle.
type AllStats struct {
	Top     TopStats      `json:"topStats"`
	General GeneralStats  `json:"generalStats"`
	Days    []DailyStats  `json:"topDays"`
	Years   []YearlyStats `json:"topYears"`
	Run     RunStats      `json:"run"`
}

func (b *Bundle) All() AllStats {
	return AllStats{
		Top:     b.Top.Result(),
		General: b.General.Result(),
		Days:    b.Daily.DaysByHours(0),
		Years:   b.Yearly.Years(),
		Run:     b.Run,
	}
}
