package ingest

import (
	"testing"
	"time"

	"github.com/rickgao/pricedata/internal/model"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestRoute(t *testing.T) {
	today := model.Date(2024, 7, 1)
	policy := RoutePolicy{StalenessThresholdDays: 183, HorizonYears: 5}

	t.Run("no stored data selects long mode over the horizon", func(t *testing.T) {
		plan := Route(model.Instrument{Symbol: "AAPL"}, today, policy)
		if plan.Mode != model.FetchLong {
			t.Fatalf("Mode = %s, want long", plan.Mode)
		}
		if !plan.Start.Equal(model.Date(2019, 7, 1)) || !plan.End.Equal(today) {
			t.Errorf("range = %s..%s, want 2019-07-01..2024-07-01",
				model.FormatDate(plan.Start), model.FormatDate(plan.End))
		}
	})

	t.Run("staleness strictly beyond threshold selects long mode", func(t *testing.T) {
		last := today.AddDate(0, 0, -184)
		plan := Route(model.Instrument{Symbol: "AAPL", LastTradeDate: datePtr(last)}, today, policy)
		if plan.Mode != model.FetchLong {
			t.Errorf("Mode = %s, want long (184 days > 183 threshold)", plan.Mode)
		}
	})

	t.Run("staleness at threshold stays short", func(t *testing.T) {
		last := today.AddDate(0, 0, -183)
		plan := Route(model.Instrument{Symbol: "AAPL", LastTradeDate: datePtr(last)}, today, policy)
		if plan.Mode != model.FetchShort {
			t.Fatalf("Mode = %s, want short (183 days is within threshold)", plan.Mode)
		}
		if !plan.Start.Equal(last.AddDate(0, 0, 1)) || !plan.End.Equal(today) {
			t.Errorf("range = %s..%s, want day-after-last..today",
				model.FormatDate(plan.Start), model.FormatDate(plan.End))
		}
	})

	t.Run("current data needs no fetch", func(t *testing.T) {
		plan := Route(model.Instrument{Symbol: "AAPL", LastTradeDate: datePtr(today)}, today, policy)
		if !plan.UpToDate {
			t.Error("UpToDate = false, want true when last trade date is today")
		}
		if plan.Mode != model.FetchShort {
			t.Errorf("Mode = %s, want short", plan.Mode)
		}
	})

	t.Run("yesterday's data fetches exactly today", func(t *testing.T) {
		last := today.AddDate(0, 0, -1)
		plan := Route(model.Instrument{Symbol: "AAPL", LastTradeDate: datePtr(last)}, today, policy)
		if plan.UpToDate {
			t.Fatal("UpToDate = true, want a one-day fetch")
		}
		if !plan.Start.Equal(today) || !plan.End.Equal(today) {
			t.Errorf("range = %s..%s, want today..today",
				model.FormatDate(plan.Start), model.FormatDate(plan.End))
		}
	})
}
