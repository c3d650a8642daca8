package types

import (
	"fmt"
	"strconv"
)

// Bitrate indexes the fixed download link ladder.
type Bitrate int

const (
	Bitrate12 Bitrate = iota
	Bitrate48
	Bitrate96
	Bitrate160
	Bitrate320
)

// Ladder is the fixed ordered set of quality tiers, ascending.
var Ladder = [...]Bitrate{Bitrate12, Bitrate48, Bitrate96, Bitrate160, Bitrate320}

func (b Bitrate) Kbps() int {
	switch b {
	case Bitrate12:
		return 12
	case Bitrate48:
		return 48
	case Bitrate96:
		return 96
	case Bitrate160:
		return 160
	case Bitrate320:
		return 320
	}

	panic("unexpected bitrate: " + strconv.Itoa(int(b)))
}

func (b Bitrate) String() string {
	return strconv.Itoa(b.Kbps()) + "kbps"
}

// Label is the user-facing quality label, e.g. "320KBPS".
func (b Bitrate) Label() string {
	return strconv.Itoa(b.Kbps()) + "KBPS"
}

// Suffix is the quality suffix embedded in decrypted media URLs.
func (b Bitrate) Suffix() string {
	return fmt.Sprintf("_%d.mp4", b.Kbps())
}

func ParseBitrate(s string) (Bitrate, error) {
	switch s {
	case "12":
		return Bitrate12, nil
	case "48":
		return Bitrate48, nil
	case "96":
		return Bitrate96, nil
	case "160":
		return Bitrate160, nil
	case "320":
		return Bitrate320, nil
	default:
		return 0, fmt.Errorf("invalid bitrate %q, expected one of: 12, 48, 96, 160, 320", s)
	}
}
