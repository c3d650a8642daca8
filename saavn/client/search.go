package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/SamuelAdmand/JioSaavn-DL/cache"
	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/httputil"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

// ErrFetch marks a transport-level catalog failure. Callers surface it to
// the user and never retry automatically.
var ErrFetch = errors.New("catalog request failed")

type Client struct {
	conf    config.Saavn
	cache   *cache.Cache
	limiter *rate.Limiter
}

func New(conf config.Saavn, c *cache.Cache) *Client {
	return &Client{
		conf:    conf,
		cache:   c,
		limiter: rate.NewLimiter(rate.Limit(conf.SearchRPS), 1),
	}
}

// Search returns the canonical track records for one result page.
func (c *Client) Search(
	ctx context.Context,
	logger zerolog.Logger,
	query string,
	page, limit int,
) ([]types.Track, error) {
	key := fmt.Sprintf("%s|%d|%d", query, page, limit)
	item, err := c.cache.SearchResults.Fetch(
		key,
		cache.DefaultSearchResultsTTL,
		func() ([]types.Track, error) { return c.search(ctx, logger, query, page, limit) },
	)
	if nil != err {
		return nil, err
	}

	return item.Value(), nil
}

func (c *Client) search(
	ctx context.Context,
	logger zerolog.Logger,
	query string,
	page, limit int,
) (tracks []types.Track, err error) {
	if err := c.limiter.Wait(ctx); nil != err {
		return nil, fmt.Errorf("wait for search rate limiter: %w", err)
	}

	reqURL, err := url.Parse(c.conf.SearchURL)
	if nil != err {
		return nil, fmt.Errorf("parse search URL %s: %v", c.conf.SearchURL, err)
	}

	reqParams := make(url.Values, 3)
	reqParams.Add("query", query)
	reqParams.Add("page", strconv.Itoa(page))
	reqParams.Add("limit", strconv.Itoa(limit))
	reqURL.RawQuery = reqParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if nil != err {
		logger.Error().Err(err).Msg("Failed to create search request")
		return nil, fmt.Errorf("create search request: %v", err)
	}

	req.Header.Add("Accept", "application/json")

	httpClient := http.Client{ //nolint:exhaustruct
		Timeout: time.Duration(c.conf.Timeouts.Search) * time.Second,
	}
	resp, err := httpClient.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}

		logger.Error().Err(err).Msg("Failed to send search request")

		return nil, fmt.Errorf("%w: send search request: %v", ErrFetch, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("close search response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		respBytes, err := httputil.ReadOptionalResponseBody(resp)
		if nil != err {
			logger.Error().Err(err).Int("status_code", code).Msg("Failed to read response body")
			return nil, fmt.Errorf("read response body: %v", err)
		}

		logger.Error().Int("status_code", code).Bytes("response_body", respBytes).Msg("Unexpected search response status code")

		if msg, msgErr := httputil.ErrorMessageOf(respBytes); nil == msgErr && len(msg) > 0 {
			return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrFetch, code, msg)
		}

		return nil, fmt.Errorf("%w: unexpected status code %d", ErrFetch, code)
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		logger.Error().Err(err).Msg("Failed to read 200 response body")
		return nil, fmt.Errorf("read 200 response body: %v", err)
	}

	if !gjson.ValidBytes(respBytes) {
		return nil, errors.New("invalid search 200 response json")
	}

	results := gjson.GetBytes(respBytes, "data.results")
	if !results.Exists() {
		results = gjson.GetBytes(respBytes, "results")
	}
	if !results.IsArray() {
		return nil, nil
	}

	for _, r := range results.Array() {
		track, ok := c.normalizeTrack(logger, r)
		if !ok {
			logger.Warn().Str("raw", r.Raw).Msg("Skipping track record without a usable id")
			continue
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}
