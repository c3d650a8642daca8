package downloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/SamuelAdmand/JioSaavn-DL/cache"
	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/ratelimit"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/crypto"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/fs"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

type Downloader struct {
	dir       fs.DownloadsDir
	conf      config.Saavn
	honestExt bool
	cache     *cache.Cache
}

func New(dir fs.DownloadsDir, conf config.Saavn, dlConf config.Downloads, c *cache.Cache) *Downloader {
	return &Downloader{
		dir:       dir,
		conf:      conf,
		honestExt: dlConf.HonestExtensions,
		cache:     c,
	}
}

// Artifact describes a completed enhanced download.
type Artifact struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
	Quality     string
}

func (a *Artifact) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("path", a.Path).
		Str("content_type", a.ContentType).
		Int64("size", a.Size).
		Str("quality", a.Quality)
}

// Download runs the enhanced pipeline for one track: resolve the media
// link, fetch audio and cover concurrently, embed the tag block, and write
// the artifact. Cover failures degrade to a coverless artifact; audio
// failures surface as ErrAudioFetch for the caller's direct fallback.
func (d *Downloader) Download(
	ctx context.Context,
	logger zerolog.Logger,
	track types.Track,
	bitrate types.Bitrate,
) (a *Artifact, err error) {
	link, err := Resolve(track, bitrate)
	if nil != err {
		return nil, err
	}

	time.Sleep(ratelimit.AudioFetchSleep())

	var (
		audio       []byte
		contentType string
		cover       []byte
	)

	wg, wgctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		b, ct, err := d.fetchAudio(wgctx, logger, link.URL)
		if nil != err {
			return err
		}
		audio, contentType = b, ct

		return nil
	})
	wg.Go(func() error {
		coverURL := crypto.HighResImageURL(track.CoverURL())
		if len(coverURL) == 0 {
			return nil
		}

		b, err := d.getCover(wgctx, logger, coverURL)
		if nil != err {
			// Non-fatal: the tag block simply omits the picture frame.
			logger.Warn().Err(err).Str("track_id", track.ID).Msg("Failed to fetch cover art")
			return nil
		}
		cover = b

		return nil
	})
	if err := wg.Wait(); nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}

		return nil, err
	}

	out, filename, outType := d.Embed(logger, audio, contentType, cover, track)

	artifact := d.dir.Artifact(filename)
	if err := artifact.Write(out); nil != err {
		return nil, fmt.Errorf("write artifact: %v", err)
	}

	return &Artifact{
		Path:        artifact.Path,
		Filename:    filename,
		ContentType: outType,
		Size:        int64(len(out)),
		Quality:     link.Quality,
	}, nil
}
