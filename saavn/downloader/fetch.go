package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamuelAdmand/JioSaavn-DL/cache"
	"github.com/SamuelAdmand/JioSaavn-DL/httputil"
)

// ErrAudioFetch marks a failed audio payload fetch. Unlike cover fetch
// failures it is fatal to the enhanced download and triggers the direct
// fallback in the orchestrator.
var ErrAudioFetch = errors.New("audio fetch failed")

func (d *Downloader) fetchAudio(
	ctx context.Context,
	logger zerolog.Logger,
	audioURL string,
) (b []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if nil != err {
		logger.Error().Err(err).Msg("Failed to create fetch audio request")
		return nil, "", fmt.Errorf("create fetch audio request: %v", err)
	}

	client := http.Client{ //nolint:exhaustruct
		Timeout: time.Duration(d.conf.Timeouts.FetchAudio) * time.Second,
	}
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, "", context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return nil, "", context.Canceled
		}

		logger.Error().Err(err).Msg("Failed to send fetch audio request")

		return nil, "", fmt.Errorf("%w: send request: %v", ErrAudioFetch, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("close fetch audio response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		logger.Error().Int("status_code", code).Msg("Unexpected fetch audio response status code")
		return nil, "", fmt.Errorf("%w: unexpected status code %d", ErrAudioFetch, code)
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		logger.Error().Err(err).Msg("Failed to read fetch audio response body")
		return nil, "", fmt.Errorf("%w: read response body: %v", ErrAudioFetch, err)
	}

	return respBytes, httputil.ContentTypeOf(resp), nil
}

// getCover retrieves cover art through the cover cache. A nil result with a
// nil error is impossible; callers treat any error as "no cover".
func (d *Downloader) getCover(
	ctx context.Context,
	logger zerolog.Logger,
	coverURL string,
) ([]byte, error) {
	cachedCover, err := d.cache.Covers.Fetch(
		coverURL,
		cache.DefaultCoverTTL,
		func() ([]byte, error) { return d.downloadCover(ctx, logger, coverURL) },
	)
	if nil != err {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}

	return cachedCover.Value(), nil
}

func (d *Downloader) downloadCover(
	ctx context.Context,
	logger zerolog.Logger,
	coverURL string,
) (b []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if nil != err {
		logger.Error().Err(err).Msg("Failed to create fetch cover request")
		return nil, fmt.Errorf("create fetch cover request: %v", err)
	}

	client := http.Client{ //nolint:exhaustruct
		Timeout: time.Duration(d.conf.Timeouts.FetchCover) * time.Second,
	}
	resp, err := client.Do(req)
	if nil != err {
		return nil, fmt.Errorf("send fetch cover request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("close fetch cover response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("unexpected fetch cover status code %d", code)
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		return nil, fmt.Errorf("read fetch cover response body: %v", err)
	}

	return respBytes, nil
}
