package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// StreamKind classifies a stream variant by what it carries.
type StreamKind string

const (
	// StreamProgressive carries both audio and video in one stream
	StreamProgressive StreamKind = "progressive"

	// StreamVideoOnly carries video without an audio track
	StreamVideoOnly StreamKind = "video-only"

	// StreamAudioOnly carries audio without a video track
	StreamAudioOnly StreamKind = "audio-only"
)

// StreamDescriptor describes one downloadable stream variant of a video.
// Values are immutable once fetched; Itag is the handle used to start a
// download of this exact variant.
type StreamDescriptor struct {
	VideoID       string
	Itag          int
	Kind          StreamKind
	MimeType      string
	Container     string // file extension derived from the MIME subtype
	QualityLabel  string // e.g. "720p", empty for audio-only
	Bitrate       int    // bits per second
	Width         int
	Height        int
	AudioChannels int
	ContentLength int64 // bytes, 0 when unknown
}

// Label renders a short human-readable description for picker widgets.
func (sd StreamDescriptor) Label() string {
	var parts []string
	switch sd.Kind {
	case StreamAudioOnly:
		if sd.Bitrate > 0 {
			parts = append(parts, fmt.Sprintf("%d kbps", sd.Bitrate/1000))
		}
	default:
		if sd.QualityLabel != "" {
			parts = append(parts, sd.QualityLabel)
		} else if sd.Height > 0 {
			parts = append(parts, fmt.Sprintf("%dp", sd.Height))
		}
	}
	if sd.Container != "" {
		parts = append(parts, sd.Container)
	}
	if sd.ContentLength > 0 {
		parts = append(parts, HumanBytes(sd.ContentLength))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("itag %d", sd.Itag)
	}
	return strings.Join(parts, " · ")
}

// Catalog is the result set of one fetch operation. It is replaced wholesale
// by the next fetch and never mutated in place.
type Catalog struct {
	URL      string
	VideoID  string
	Title    string
	Author   string
	Duration time.Duration
	Streams  []StreamDescriptor // ordered best-first within each kind
}

// VideoOnly returns the video-only variants in catalog order.
// An empty result is valid; some videos expose no adaptive video streams.
func (c *Catalog) VideoOnly() []StreamDescriptor {
	return c.streamsOfKind(StreamVideoOnly)
}

// AudioOnly returns the audio-only variants in catalog order.
func (c *Catalog) AudioOnly() []StreamDescriptor {
	return c.streamsOfKind(StreamAudioOnly)
}

// Progressive returns the combined audio+video variants in catalog order.
func (c *Catalog) Progressive() []StreamDescriptor {
	return c.streamsOfKind(StreamProgressive)
}

// BestVideo returns the highest-quality video-only variant, or nil.
func (c *Catalog) BestVideo() *StreamDescriptor {
	if v := c.VideoOnly(); len(v) > 0 {
		return &v[0]
	}
	return nil
}

// BestAudio returns the highest-bitrate audio-only variant, or nil.
func (c *Catalog) BestAudio() *StreamDescriptor {
	if a := c.AudioOnly(); len(a) > 0 {
		return &a[0]
	}
	return nil
}

func (c *Catalog) streamsOfKind(kind StreamKind) []StreamDescriptor {
	var out []StreamDescriptor
	for _, s := range c.Streams {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Mode selects what a download job produces.
type Mode string

const (
	// ModeAudioOnly downloads the audio stream and transcodes it
	ModeAudioOnly Mode = "audio"

	// ModeVideoOnly downloads the video stream and moves it into place
	ModeVideoOnly Mode = "video"

	// ModeMergeBoth downloads both streams and muxes them into one file
	ModeMergeBoth Mode = "merge"
)

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeAudioOnly || m == ModeVideoOnly || m == ModeMergeBoth
}

// NeedsAudio reports whether the mode requires an audio-only stream.
func (m Mode) NeedsAudio() bool {
	return m == ModeAudioOnly || m == ModeMergeBoth
}

// NeedsVideo reports whether the mode requires a video-only stream.
func (m Mode) NeedsVideo() bool {
	return m == ModeVideoOnly || m == ModeMergeBoth
}

// MergeContainer is the output container for merged downloads.
const MergeContainer = "mp4"

// DefaultBaseName is used when a sanitized title comes out empty.
const DefaultBaseName = "video"

// DownloadJob carries everything the worker needs for one download.
// It is created when the user starts a download, consumed entirely by the
// worker, and never persisted.
type DownloadJob struct {
	ID          string
	URL         string
	Title       string
	Duration    time.Duration
	Mode        Mode
	Audio       *StreamDescriptor // required when Mode.NeedsAudio()
	Video       *StreamDescriptor // required when Mode.NeedsVideo()
	DestDir     string
	AudioFormat string // output container for audio-only mode, e.g. "mp3"
	BaseName    string // sanitized filename stem
}

// Validate checks that the job is internally complete. It returns a
// *ConfigurationError describing the first problem found, before any
// background work is started.
func (j *DownloadJob) Validate() error {
	if !j.Mode.Valid() {
		return &ConfigurationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", string(j.Mode))}
	}
	if j.DestDir == "" {
		return &ConfigurationError{Field: "destination", Reason: "no destination directory selected"}
	}
	if j.BaseName == "" {
		return &ConfigurationError{Field: "filename", Reason: "output name is empty"}
	}
	if j.Mode.NeedsVideo() && j.Video == nil {
		return &ConfigurationError{Field: "video stream", Reason: "no video stream selected"}
	}
	if j.Mode.NeedsAudio() && j.Audio == nil {
		return &ConfigurationError{Field: "audio stream", Reason: "no audio stream selected"}
	}
	if j.Mode == ModeAudioOnly && j.AudioFormat == "" {
		return &ConfigurationError{Field: "audio format", Reason: "no audio output format selected"}
	}
	return nil
}

// OutputPath computes the final destination path for the job's mode.
func (j *DownloadJob) OutputPath() string {
	ext := MergeContainer
	switch j.Mode {
	case ModeAudioOnly:
		ext = j.AudioFormat
	case ModeVideoOnly:
		if j.Video != nil && j.Video.Container != "" {
			ext = j.Video.Container
		}
	}
	return filepath.Join(j.DestDir, j.BaseName+"."+ext)
}

// HumanBytes formats a byte count with a binary-unit suffix.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 4 {
		div *= unit
		exp++
	}
	suffix := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), suffix[exp])
}
