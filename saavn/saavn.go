package saavn

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/SamuelAdmand/JioSaavn-DL/cache"
	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/client"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/downloader"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/fs"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/player"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
	"github.com/SamuelAdmand/JioSaavn-DL/unit"
)

var (
	ErrFetch              = client.ErrFetch
	ErrNoPlayableSource   = downloader.ErrNoPlayableSource
	ErrDownloadInProgress = errors.New("download already in progress for track")
)

// Client sequences search, locate, fetch, tag, and save, and owns the
// session download-status map.
type Client struct {
	catalog *client.Client
	dl      *downloader.Downloader
	Player  *player.Player
	worker  *worker

	mux       sync.Mutex
	downloads map[string]types.DownloadItem
}

func NewClient(conf *config.Config) *Client {
	var (
		c     = cache.New()
		dlDir = fs.DownloadsDirFrom(conf.Downloads.Dir)
	)

	return &Client{
		catalog:   client.New(conf.Saavn, c),
		dl:        downloader.New(dlDir, conf.Saavn, conf.Downloads, c),
		Player:    player.New(),
		worker:    newWorker(conf.Downloads.Concurrency),
		mux:       sync.Mutex{},
		downloads: make(map[string]types.DownloadItem),
	}
}

func (c *Client) Search(
	ctx context.Context,
	logger zerolog.Logger,
	query string,
	page, limit int,
) ([]types.Track, error) {
	tracks, err := c.catalog.Search(ctx, logger, query, page, limit)
	if nil != err {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	return tracks, nil
}

// TryDownloadTrack runs the download pipeline for one track. A second
// request for the same track id while one is in flight is a no-op and
// returns ErrDownloadInProgress. Every path past the in-flight guard ends
// in a successful-looking terminal state: either an enhanced local
// artifact (Done) or a hand-off of the remote URL (Done Direct).
func (c *Client) TryDownloadTrack(
	ctx context.Context,
	logger zerolog.Logger,
	track types.Track,
	bitrate types.Bitrate,
) error {
	link, err := downloader.Resolve(track, bitrate)
	if nil != err {
		logger.Error().Err(err).Str("track_id", track.ID).Msg("No download link found for track")
		return err
	}

	if !c.beginDownload(track, link.Quality) {
		logger.Debug().Str("track_id", track.ID).Msg("Download already in progress")
		return ErrDownloadInProgress
	}

	if err := c.worker.acquire(ctx); nil != err {
		c.completeDirect(track.ID, link.URL)
		return err
	}
	defer c.worker.release()

	artifact, err := c.dl.Download(ctx, logger, track, bitrate)
	if nil != err {
		// Degrade to handing the remote URL over rather than surfacing a
		// dead end; the Direct label keeps the distinction visible.
		logger.Warn().Err(err).Str("track_id", track.ID).Str("url", link.URL).Msg("Enhanced download failed, falling back to direct link")
		c.completeDirect(track.ID, link.URL)

		return nil
	}

	logger.Info().Dict("artifact", artifact.ToDict()).Msg("Track downloaded")
	c.completeDone(track.ID, artifact)

	return nil
}

// ResolveStreamURL locates the playable URL for a track without
// downloading it.
func (c *Client) ResolveStreamURL(track types.Track, bitrate types.Bitrate) (string, error) {
	link, err := downloader.Resolve(track, bitrate)
	if nil != err {
		return "", err
	}

	return link.URL, nil
}

// Downloads returns a point-in-time snapshot of the status map, ordered by
// track name for stable rendering.
func (c *Client) Downloads() []types.DownloadItem {
	c.mux.Lock()
	defer c.mux.Unlock()

	items := make([]types.DownloadItem, 0, len(c.downloads))
	for _, item := range c.downloads {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return items
}

// beginDownload atomically checks the in-flight guard and registers the
// Downloading record. Records are always replaced whole, never mutated.
func (c *Client) beginDownload(track types.Track, quality string) bool {
	c.mux.Lock()
	defer c.mux.Unlock()

	if item, ok := c.downloads[track.ID]; ok && item.Status == types.StatusDownloading {
		return false
	}

	c.downloads[track.ID] = types.DownloadItem{
		ID:           track.ID,
		Name:         track.Name,
		Album:        track.Album.Name,
		Image:        track.ThumbnailURL(),
		Status:       types.StatusDownloading,
		Size:         quality,
		ArtifactPath: "",
		DirectURL:    "",
	}

	return true
}

func (c *Client) completeDone(trackID string, artifact *downloader.Artifact) {
	c.mux.Lock()
	defer c.mux.Unlock()

	item := c.downloads[trackID]
	item.Status = types.StatusDone
	item.Size = fmt.Sprintf("%s · %s", artifact.Quality, unit.FormatBytes(artifact.Size))
	item.ArtifactPath = artifact.Path
	c.downloads[trackID] = item
}

func (c *Client) completeDirect(trackID, directURL string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	item := c.downloads[trackID]
	item.Status = types.StatusDoneDirect
	item.Size = "Direct"
	item.DirectURL = directURL
	c.downloads[trackID] = item
}
