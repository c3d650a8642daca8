package types

import (
	"strconv"

	"github.com/rs/zerolog"
)

type DownloadStatus int

const (
	StatusDownloading DownloadStatus = iota
	StatusDone
	// StatusDoneDirect marks a download that fell back to handing the
	// remote URL over to the user instead of producing a local artifact.
	StatusDoneDirect
)

func (s DownloadStatus) String() string {
	switch s {
	case StatusDownloading:
		return "Downloading"
	case StatusDone:
		return "Done"
	case StatusDoneDirect:
		return "Done (Direct)"
	}

	panic("unexpected download status: " + strconv.Itoa(int(s)))
}

// DownloadItem is the view of an in-flight or completed download. Records
// are replaced whole on every status change, never mutated in place.
type DownloadItem struct {
	ID           string
	Name         string
	Album        string
	Image        string
	Status       DownloadStatus
	Size         string // quality or size label, e.g. "320KBPS", "3.4 MB", "Direct"
	ArtifactPath string // set once Status is StatusDone
	DirectURL    string // set once Status is StatusDoneDirect
}

func (d DownloadItem) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("id", d.ID).
		Str("name", d.Name).
		Str("album", d.Album).
		Str("status", d.Status.String()).
		Str("size", d.Size)
}
