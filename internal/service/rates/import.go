package rates

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/metrics"
)

var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ImportRateTiers scrapes a tariff table from url (or the configured url) and upserts its tiers.
func (s *Service) ImportRateTiers(ctx context.Context, url string) (tiers []*domain.RateTier, err error) {
	defer func() {
		metrics.ObserveRateImport(err)
	}()

	if url == "" {
		url = s.opts.ImportURL
	}
	if url == "" {
		return nil, fmt.Errorf("%w: no tariff url configured", constants.ErrInvalidInput)
	}

	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetchDocument: %w", err)
	}

	tiers, err = parseTariffTable(doc)
	if err != nil {
		return nil, fmt.Errorf("parseTariffTable: %w", err)
	}

	if err := s.validate(ctx, Deref(tiers)); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceRateTiers(ctx, tiers); err != nil {
		return nil, fmt.Errorf("store.ReplaceRateTiers: %w", err)
	}

	logger.Infof(ctx, "imported %d rate tiers from %s", len(tiers), url)
	return tiers, nil
}

func (s *Service) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	var resp *http.Response
	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = s.opts.HTTPClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				err := fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
				if resp.StatusCode < http.StatusInternalServerError {
					return backoff.Permanent(err)
				}
				return err
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), s.opts.ImportRetries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	return doc, nil
}

// parseTariffTable reads rows shaped like | 0-30 | 7.85 | description |.
// Rows whose first cell is not a unit range are skipped.
func parseTariffTable(doc *goquery.Document) ([]*domain.RateTier, error) {
	tiers := make([]*domain.RateTier, 0, 8)

	var err error
	doc.Find("table tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			// header
			return true
		}

		tier, ok := parseRange(cells.Eq(0).Text())
		if !ok {
			return true
		}

		rate, parseErr := parseRate(cells.Eq(1).Text())
		if parseErr != nil {
			err = fmt.Errorf("failed to parse rate of %s: %w", cells.Eq(0).Text(), parseErr)
			return false
		}
		tier.Rate = rate

		if cells.Length() > 2 {
			tier.Description = strings.TrimSpace(cells.Eq(2).Text())
		}
		tier.IsActive = true

		tiers = append(tiers, tier)
		return true
	})
	if err != nil {
		return nil, err
	}

	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no rate tiers found on page", constants.ErrNoRatesConfigured)
	}

	return tiers, nil
}

func parseRange(text string) (*domain.RateTier, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.NewReplacer("–", "-", "—", "-", "kwh", "", "units", "", ",", "").Replace(s)

	nums := numberRe.FindAllString(s, -1)
	switch {
	case len(nums) == 1 && (strings.HasPrefix(s, "above") || strings.HasPrefix(s, "over") || strings.HasPrefix(s, ">")):
		n, err := strconv.ParseFloat(nums[0], 64)
		if err != nil {
			return nil, false
		}
		return &domain.RateTier{Lower: n + 1, Upper: domain.UnboundedUpper, Unbounded: true}, true

	case len(nums) == 1 && strings.HasSuffix(strings.TrimSpace(s), "+"):
		n, err := strconv.ParseFloat(nums[0], 64)
		if err != nil {
			return nil, false
		}
		return &domain.RateTier{Lower: n, Upper: domain.UnboundedUpper, Unbounded: true}, true

	case len(nums) == 2 && strings.Contains(s, "-"):
		lower, err := strconv.ParseFloat(nums[0], 64)
		if err != nil {
			return nil, false
		}
		upper, err := strconv.ParseFloat(nums[1], 64)
		if err != nil {
			return nil, false
		}
		tier := &domain.RateTier{Lower: lower, Upper: upper}
		normalize(tier)
		return tier, true
	}

	return nil, false
}

func parseRate(text string) (float64, error) {
	match := numberRe.FindString(strings.ReplaceAll(text, " ", ""))
	if match == "" {
		return 0, fmt.Errorf("no number in %q", text)
	}
	return strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
}
