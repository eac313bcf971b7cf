package ingest

import (
	"time"

	"github.com/rickgao/pricedata/internal/model"
)

// RoutePolicy holds the staleness thresholds that steer routing.
type RoutePolicy struct {
	// StalenessThresholdDays: beyond this many days without data an
	// instrument is routed to a full backfill.
	StalenessThresholdDays int

	// HorizonYears bounds how far back a full backfill reaches.
	HorizonYears int
}

// Plan is the routing decision for one instrument.
type Plan struct {
	Mode     model.FetchMode
	Start    time.Time
	End      time.Time
	UpToDate bool // true when no fetch is needed at all
}

// Route decides between an incremental (short) and a backfill (long) fetch
// for one instrument.
//
// No stored data, or data older than the staleness threshold, selects long
// mode over the full horizon. Otherwise short mode covers the days after the
// last stored trade date; if that start would be tomorrow or later the
// instrument is already current and no fetch happens.
func Route(inst model.Instrument, today time.Time, p RoutePolicy) Plan {
	today = model.DateOf(today)

	if inst.LastTradeDate == nil || model.DaysBetween(*inst.LastTradeDate, today) > p.StalenessThresholdDays {
		return Plan{
			Mode:  model.FetchLong,
			Start: today.AddDate(-p.HorizonYears, 0, 0),
			End:   today,
		}
	}

	start := inst.LastTradeDate.AddDate(0, 0, 1)
	if start.After(today) {
		return Plan{Mode: model.FetchShort, UpToDate: true}
	}
	return Plan{Mode: model.FetchShort, Start: start, End: today}
}
