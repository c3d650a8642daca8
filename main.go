package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/constants"
	"github.com/SamuelAdmand/JioSaavn-DL/log"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/player"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

// defaultQuery mirrors the landing search of the original client.
const defaultQuery = "New Hits"

func main() {
	logger := log.NewDefault()

	//nolint:exhaustruct
	app := &cli.Command{
		Name:    "jiosaavn-dl",
		Version: constants.Version,
		Metadata: map[string]any{
			"compiled_at": constants.CompileTime,
		},
		Suggest:                    true,
		Usage:                      "JioSaavn catalog search, playback, and tagged downloads",
		EnableShellCompletion:      true,
		ShellCompletionCommandName: "shell-completion",
		AllowExtFlags:              false,
		Flags: []cli.Flag{
			//nolint:exhaustruct
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Config file path",
				Required: false,
			},
		},
		Commands: []*cli.Command{
			//nolint:exhaustruct
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "[query]",
				Flags: []cli.Flag{
					//nolint:exhaustruct
					&cli.IntFlag{Name: "page", Usage: "Result page", Value: 1},
					//nolint:exhaustruct
					&cli.IntFlag{Name: "limit", Usage: "Results per page", Value: 20},
				},
				Action: searchAction,
			},
			//nolint:exhaustruct
			{
				Name:      "download",
				Usage:     "Search, pick a track, and download it with embedded tags",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					//nolint:exhaustruct
					&cli.IntFlag{Name: "page", Usage: "Result page", Value: 1},
					//nolint:exhaustruct
					&cli.IntFlag{Name: "limit", Usage: "Results per page", Value: 20},
					//nolint:exhaustruct
					&cli.StringFlag{Name: "bitrate", Usage: "Requested quality tier (12, 48, 96, 160, 320)"},
					//nolint:exhaustruct
					&cli.IntFlag{Name: "pick", Usage: "1-based result index, skips the interactive picker"},
				},
				Action: downloadAction,
			},
			//nolint:exhaustruct
			{
				Name:      "play",
				Usage:     "Search, pick a track, and stream it",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					//nolint:exhaustruct
					&cli.IntFlag{Name: "page", Usage: "Result page", Value: 1},
					//nolint:exhaustruct
					&cli.IntFlag{Name: "limit", Usage: "Results per page", Value: 20},
					//nolint:exhaustruct
					&cli.StringFlag{Name: "bitrate", Usage: "Requested quality tier (12, 48, 96, 160, 320)"},
					//nolint:exhaustruct
					&cli.IntFlag{Name: "pick", Usage: "1-based result index, skips the interactive picker"},
				},
				Action: playAction,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); nil != err {
		if errors.Is(err, context.Canceled) {
			logger.Trace().Msg("Application was canceled")
			os.Exit(1)
		}

		logger.Error().Err(err).Msg("Application exited with error")
		os.Exit(10)
	}
}

func setup(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	logger := log.NewDefault()

	if err := godotenv.Load(); nil != err {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, logger, fmt.Errorf("load .env file: %v", err)
		}
		logger.Debug().Msg(".env file was not found")
	} else {
		logger.Debug().Msg(".env file was loaded")
	}

	conf, err := config.Load(cmd.String("config"))
	if nil != err {
		return nil, logger, fmt.Errorf("load config: %v", err)
	}

	logger = log.FromConfig(conf.Log)

	logger.Debug().Dict("config", conf.ToDict()).Msg("Config loaded")

	return conf, logger, nil
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, logger, err := setup(cmd)
	if nil != err {
		return err
	}

	query := cmd.Args().First()
	if len(query) == 0 {
		query = defaultQuery
	}

	c := saavn.NewClient(conf)

	tracks, err := c.Search(ctx, logger, query, int(cmd.Int("page")), int(cmd.Int("limit")))
	if nil != err {
		if errors.Is(err, saavn.ErrFetch) {
			logger.Error().Err(err).Msg("Search failed. The catalog endpoint may be unavailable.")
			return err
		}

		return fmt.Errorf("search: %w", err)
	}

	logger.Info().Int("count", len(tracks)).Str("query", query).Msg("Search finished")
	renderTracks(tracks)

	return nil
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, logger, err := setup(cmd)
	if nil != err {
		return err
	}

	bitrate, err := bitrateOf(cmd, conf)
	if nil != err {
		return err
	}

	c := saavn.NewClient(conf)

	track, err := pickTrack(ctx, logger, c, cmd)
	if nil != err {
		return err
	}

	logger.Info().Dict("track", track.ToDict()).Str("bitrate", bitrate.String()).Msg("Starting download")

	if err := c.TryDownloadTrack(ctx, logger, *track, bitrate); nil != err {
		if errors.Is(err, saavn.ErrNoPlayableSource) {
			logger.Error().Str("track", track.Name).Msg("No playable source found for track")
			return err
		}

		return fmt.Errorf("download track: %w", err)
	}

	renderDownloads(c.Downloads())

	return nil
}

func playAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, logger, err := setup(cmd)
	if nil != err {
		return err
	}

	bitrate, err := bitrateOf(cmd, conf)
	if nil != err {
		return err
	}

	c := saavn.NewClient(conf)

	track, err := pickTrack(ctx, logger, c, cmd)
	if nil != err {
		return err
	}

	streamURL, err := c.ResolveStreamURL(*track, bitrate)
	if nil != err {
		if errors.Is(err, saavn.ErrNoPlayableSource) {
			logger.Error().Str("track", track.Name).Msg("No playable source found for track")
			return err
		}

		return fmt.Errorf("resolve stream URL: %w", err)
	}

	if state := c.Player.Toggle(track.ID); state != player.StatePlaying {
		return nil
	}

	logger.Info().Str("track", track.Name).Str("artists", track.PrimaryArtists).Msg("Playing")
	defer c.Player.Stop()

	if err := player.Launch(ctx, logger, streamURL); nil != err {
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return fmt.Errorf("play track: %w", err)
	}

	return nil
}

func bitrateOf(cmd *cli.Command, conf *config.Config) (types.Bitrate, error) {
	s := cmd.String("bitrate")
	if len(s) == 0 {
		s = conf.Downloads.Bitrate
	}

	bitrate, err := types.ParseBitrate(s)
	if nil != err {
		return 0, err
	}

	return bitrate, nil
}

func pickTrack(
	ctx context.Context,
	logger zerolog.Logger,
	c *saavn.Client,
	cmd *cli.Command,
) (*types.Track, error) {
	query := cmd.Args().First()
	if len(query) == 0 {
		return nil, errors.New("a search query is required")
	}

	tracks, err := c.Search(ctx, logger, query, int(cmd.Int("page")), int(cmd.Int("limit")))
	if nil != err {
		return nil, fmt.Errorf("search: %w", err)
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("no results for %q", query)
	}

	if pick := int(cmd.Int("pick")); pick > 0 {
		if pick > len(tracks) {
			return nil, fmt.Errorf("pick %d is out of range, only %d results", pick, len(tracks))
		}

		return &tracks[pick-1], nil
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil, errors.New("no TTY detected, use --pick to select a result")
	}

	options := make([]string, len(tracks))
	for i, t := range tracks {
		options[i] = trackLine(t)
	}

	var idx int
	prompt := &survey.Select{ //nolint:exhaustruct
		Message:  "Pick a track:",
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &idx); nil != err {
		return nil, fmt.Errorf("pick track: %v", err)
	}

	return &tracks[idx], nil
}

func trackLine(t types.Track) string {
	return fmt.Sprintf(
		"%s - %s (%s) [%s]",
		t.Name,
		t.PrimaryArtists,
		t.Album.Name,
		types.FormatDuration(t.Duration),
	)
}

func renderTracks(tracks []types.Track) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		for _, t := range tracks {
			fmt.Println(trackLine(t))
		}

		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Track", "Artists", "Album", "Year", "Duration"})
	for i, track := range tracks {
		t.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			track.Name,
			track.PrimaryArtists,
			track.Album.Name,
			track.Year,
			types.FormatDuration(track.Duration),
		})
	}
	t.Render()
}

func renderDownloads(items []types.DownloadItem) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		for _, item := range items {
			fmt.Printf("%s [%s] %s\n", item.Name, item.Status, item.Size)
		}

		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Track", "Album", "Status", "Quality", "Location"})
	for _, item := range items {
		location := item.ArtifactPath
		if item.Status == types.StatusDoneDirect {
			location = item.DirectURL
		}
		t.AppendRow(table.Row{item.Name, item.Album, item.Status.String(), item.Size, location})
	}
	t.Render()
}
