package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/pricedata/internal/model"
)

// ProviderEODHD is the provider code for EOD Historical Data.
const ProviderEODHD = "EODHD"

// eodhdBar mirrors one element of the EODHD end-of-day response.
type eodhdBar struct {
	Date     string           `json:"date"`
	Open     *decimal.Decimal `json:"open"`
	High     *decimal.Decimal `json:"high"`
	Low      *decimal.Decimal `json:"low"`
	Close    *decimal.Decimal `json:"close"`
	AdjClose *decimal.Decimal `json:"adjusted_close"`
	Volume   *int64           `json:"volume"`
}

func (b *eodhdBar) complete() bool {
	return b.Open != nil && b.High != nil && b.Low != nil &&
		b.Close != nil && b.AdjClose != nil && b.Volume != nil
}

// EODHDConfig holds the EODHD-specific settings.
type EODHDConfig struct {
	BaseURL    string
	Token      string
	ReplaceDot bool
}

// EODHD fetches daily bars from the EOD Historical Data API.
type EODHD struct {
	client
	cfg  EODHDConfig
	urls BaseURLSource
}

// NewEODHD creates an EODHD fetcher. urls may be nil.
func NewEODHD(cfg EODHDConfig, urls BaseURLSource, opts ...Option) *EODHD {
	return &EODHD{
		client: newClient(ProviderEODHD, opts...),
		cfg:    cfg,
		urls:   urls,
	}
}

// GetDaily implements Fetcher.
func (e *EODHD) GetDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	if err := validateArgs(symbol, start, end); err != nil {
		return nil, err
	}
	if e.cfg.Token == "" {
		return nil, &ConfigError{Field: "eodhd token"}
	}

	base, err := e.resolveBaseURL(ctx)
	if err != nil {
		return nil, err
	}

	sym := NormalizeSymbol(symbol, e.cfg.ReplaceDot)
	query := url.Values{}
	query.Set("from", model.FormatDate(start))
	query.Set("to", model.FormatDate(end))
	query.Set("period", "d")
	query.Set("fmt", "json")
	query.Set("api_token", e.cfg.Token)
	reqURL := fmt.Sprintf("%s/api/eod/%s?%s", base, url.PathEscape(sym), query.Encode())

	resp, err := e.getJSON(ctx, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if resp.noContent() {
		return nil, nil
	}

	var raw []eodhdBar
	if err := e.decodeJSON(resp, sym, &raw); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(raw))
	for i := range raw {
		b := &raw[i]
		date, err := model.ParseDate(b.Date)
		if err != nil {
			return nil, &DeserializationError{
				Provider: ProviderEODHD,
				Err:      fmt.Errorf("bar %d: bad date %q", i, b.Date),
				Body:     truncate(string(resp.body), maxDiagnosticBody),
			}
		}

		if !b.complete() {
			e.logger.Warn("null field in eodhd bar, aborting batch",
				"symbol", sym,
				"date", model.FormatDate(date),
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

	return NormalizeBars(bars), nil
}

func (e *EODHD) resolveBaseURL(ctx context.Context) (string, error) {
	if e.urls != nil {
		u, ok, err := e.urls.BaseURL(ctx, ProviderEODHD)
		if err != nil {
			return "", fmt.Errorf("resolve eodhd base url: %w", err)
		}
		if ok {
			return trimSlash(u), nil
		}
	}
	if e.cfg.BaseURL == "" {
		return "", &ConfigError{Field: "eodhd base url"}
	}
	return trimSlash(e.cfg.BaseURL), nil
}
