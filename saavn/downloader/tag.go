package downloader

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

// The payload's true encoding may be MP3 frames or AAC in an MP4 container,
// but ID3v2 is the only tag format broadly recognized for this catalog's
// output. The tag block is therefore always built standalone and prepended
// to the raw payload, never by parsing the payload, which keeps non-MP3
// bitstreams intact.
//
// Embed returns the final artifact bytes, its filename, and its content
// type. Tag construction failure degrades to the untagged raw payload with
// a codec-honest m4a name.
func (d *Downloader) Embed(
	logger zerolog.Logger,
	audio []byte,
	contentType string,
	cover []byte,
	track types.Track,
) (out []byte, filename string, outType string) {
	base := baseFilename(track)

	tagBlock, err := buildTagBlock(cover, track)
	if nil != err {
		logger.Warn().Err(err).Str("track_id", track.ID).Msg("Tag construction failed, emitting untagged artifact")
		return audio, base + ".m4a", "audio/mp4"
	}

	out = make([]byte, 0, len(tagBlock)+len(audio))
	out = append(out, tagBlock...)
	out = append(out, audio...)

	ext := d.outputExt(audio, contentType)

	return out, base + "." + ext, extContentType(ext)
}

// outputExt applies the extension policy. The default mode deliberately
// labels every tagged artifact ".mp3" regardless of true codec: common
// players select their demuxer by extension and are far more likely to both
// play the stream and honor the prepended ID3 block under an mp3 name.
// Strict players that validate codec against container may refuse the
// result; honest mode trades that compatibility for a truthful extension.
func (d *Downloader) outputExt(audio []byte, declaredType string) string {
	if !d.honestExt {
		return "mp3"
	}

	return sniffExt(audio, declaredType)
}

func sniffExt(audio []byte, declaredType string) string {
	if mimetype.Detect(audio).Is("audio/mpeg") {
		return "mp3"
	}

	if strings.Contains(declaredType, "mpeg") || strings.Contains(declaredType, "mp3") {
		return "mp3"
	}

	return "m4a"
}

func extContentType(ext string) string {
	switch ext {
	case "mp3":
		return "audio/mpeg"
	default:
		return "audio/mp4"
	}
}

func buildTagBlock(cover []byte, track types.Track) (b []byte, err error) {
	defer func() {
		if r := recover(); nil != r {
			err = fmt.Errorf("tag construction panicked: %v", r)
		}
	}()

	tag := id3v2.NewEmptyTag()
	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingUTF16)

	year := tagYear(track.Year)

	tag.SetTitle(track.Name)
	tag.SetArtist(track.PrimaryArtists)
	tag.SetAlbum(track.Album.Name)
	tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), track.PrimaryArtists)
	tag.AddTextFrame(tag.CommonID("Year"), tag.DefaultEncoding(), strconv.Itoa(year))
	tag.AddTextFrame(tag.CommonID("Publisher"), tag.DefaultEncoding(), track.Label)
	tag.AddTextFrame(tag.CommonID("Copyright message"), tag.DefaultEncoding(), fmt.Sprintf("© %d %s", year, track.Label))

	if track.Duration > 0 {
		tag.AddTextFrame(tag.CommonID("Length"), tag.DefaultEncoding(), strconv.Itoa(track.Duration*1000))
	}

	if len(cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    tag.DefaultEncoding(),
			MimeType:    mimetype.Detect(cover).String(),
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); nil != err {
		return nil, fmt.Errorf("write tag block: %v", err)
	}

	return buf.Bytes(), nil
}

func tagYear(year string) int {
	if y, err := strconv.Atoi(strings.TrimSpace(year)); nil == err && y > 0 {
		return y
	}

	return time.Now().Year()
}

var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

func sanitizeFilenamePart(s string) string {
	return strings.Trim(nonAlnumRe.ReplaceAllString(s, "_"), "_")
}

func baseFilename(track types.Track) string {
	return sanitizeFilenamePart(track.Name) + " - " + sanitizeFilenamePart(track.FirstPrimaryArtist())
}
