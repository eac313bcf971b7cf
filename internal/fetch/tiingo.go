package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/pricedata/internal/model"
)

// ProviderTiingo is the provider code for Tiingo in configuration and in the
// market.data_provider table.
const ProviderTiingo = "TIINGO"

// tiingoBar mirrors one element of the Tiingo daily price response. All
// numeric fields are optional on the wire.
type tiingoBar struct {
	Date     string           `json:"date"`
	Open     *decimal.Decimal `json:"open"`
	High     *decimal.Decimal `json:"high"`
	Low      *decimal.Decimal `json:"low"`
	Close    *decimal.Decimal `json:"close"`
	AdjClose *decimal.Decimal `json:"adjClose"`
	Volume   *int64           `json:"volume"`
}

func (b *tiingoBar) complete() bool {
	return b.Open != nil && b.High != nil && b.Low != nil &&
		b.Close != nil && b.AdjClose != nil && b.Volume != nil
}

// TiingoConfig holds the Tiingo-specific settings.
type TiingoConfig struct {
	BaseURL    string // Static default, overridable via the provider table
	Token      string // API token; empty is a configuration error
	ReplaceDot bool   // Replace '.' with '-' in symbols (share classes)
}

// Tiingo fetches daily bars from the Tiingo EOD API.
type Tiingo struct {
	client
	cfg  TiingoConfig
	urls BaseURLSource
}

// NewTiingo creates a Tiingo fetcher. urls may be nil, in which case the
// static base URL from cfg is always used.
func NewTiingo(cfg TiingoConfig, urls BaseURLSource, opts ...Option) *Tiingo {
	return &Tiingo{
		client: newClient(ProviderTiingo, opts...),
		cfg:    cfg,
		urls:   urls,
	}
}

// GetDaily implements Fetcher.
func (t *Tiingo) GetDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	if err := validateArgs(symbol, start, end); err != nil {
		return nil, err
	}
	if t.cfg.Token == "" {
		return nil, &ConfigError{Field: "tiingo token"}
	}

	base, err := t.resolveBaseURL(ctx)
	if err != nil {
		return nil, err
	}

	sym := NormalizeSymbol(symbol, t.cfg.ReplaceDot)
	reqURL := fmt.Sprintf("%s/tiingo/daily/%s/prices?startDate=%s&endDate=%s&format=json",
		base, url.PathEscape(sym), model.FormatDate(start), model.FormatDate(end))

	resp, err := t.getJSON(ctx, reqURL, func(r *http.Request) {
		r.Header.Set("Authorization", "Token "+t.cfg.Token)
	})
	if err != nil {
		return nil, err
	}

	if rem := resp.header.Get("X-RateLimit-Remaining"); rem != "" {
		t.logger.Debug("tiingo rate limit",
			"remaining", rem,
			"limit", resp.header.Get("X-RateLimit-Limit"),
		)
	}

	if resp.noContent() {
		return nil, nil
	}

	var raw []tiingoBar
	if err := t.decodeJSON(resp, sym, &raw); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(raw))
	for i := range raw {
		b := &raw[i]
		date, err := parseTiingoDate(b.Date)
		if err != nil {
			return nil, &DeserializationError{
				Provider: ProviderTiingo,
				Err:      fmt.Errorf("bar %d: bad date %q", i, b.Date),
				Body:     truncate(string(resp.body), maxDiagnosticBody),
			}
		}

		if !b.complete() {
			t.logger.Warn("null field in tiingo bar, aborting batch",
				"symbol", sym,
				"date", model.FormatDate(date),
				"start", model.FormatDate(start),
				"end", model.FormatDate(end),
			)
			break
		}

		bars = append(bars, model.PriceBar{
			TradeDate: date,
			Open:      *b.Open,
			High:      *b.High,
			Low:       *b.Low,
			Close:     *b.Close,
			AdjClose:  *b.AdjClose,
			Volume:    *b.Volume,
		})
	}

	bars = NormalizeBars(bars)
	if len(bars) == 0 {
		t.logger.Info("tiingo returned no bars",
			"symbol", sym,
			"start", model.FormatDate(start),
			"end", model.FormatDate(end),
		)
	}
	return bars, nil
}

// resolveBaseURL prefers a per-provider override from the lookup table and
// falls through to the static default.
func (t *Tiingo) resolveBaseURL(ctx context.Context) (string, error) {
	if t.urls != nil {
		u, ok, err := t.urls.BaseURL(ctx, ProviderTiingo)
		if err != nil {
			return "", fmt.Errorf("resolve tiingo base url: %w", err)
		}
		if ok {
			return trimSlash(u), nil
		}
	}
	if t.cfg.BaseURL == "" {
		return "", &ConfigError{Field: "tiingo base url"}
	}
	return trimSlash(t.cfg.BaseURL), nil
}

// parseTiingoDate accepts the full timestamp Tiingo emits as well as a bare
// calendar date.
func parseTiingoDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return model.DateOf(ts), nil
	}
	return model.ParseDate(s)
}

func trimSlash(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}
