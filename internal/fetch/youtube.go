package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/model"
)

// Transfer constants
const (
	// Copy buffer size for stream downloads
	copyChunkSize = 128 * 1024

	// Base watch URL used to re-resolve a video by ID
	watchURLPrefix = "https://www.youtube.com/watch?v="
)

// YouTube implements Provider on github.com/kkdai/youtube/v2. It caches the
// most recently fetched video so stream downloads can resolve itags without
// another metadata round trip; the cache is replaced wholesale by each fetch.
type YouTube struct {
	client youtube.Client
	log    *zap.Logger

	mu        sync.Mutex
	lastVideo *youtube.Video
}

// NewYouTube creates a provider with the given HTTP timeout.
func NewYouTube(httpTimeout time.Duration, log *zap.Logger) *YouTube {
	return &YouTube{
		client: youtube.Client{
			HTTPClient: &http.Client{Timeout: httpTimeout},
		},
		log: log,
	}
}

// Fetch validates the URL shape, retrieves video metadata and maps the
// format list into a catalog. All failures come back as *FetchError.
func (y *YouTube) Fetch(ctx context.Context, rawURL string) (*model.Catalog, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	video, err := y.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: describeRemoteError(err)}
	}

	catalog := mapVideo(rawURL, video)
	if len(catalog.Streams) == 0 {
		return nil, &FetchError{URL: rawURL, Err: errors.New("no usable streams in response")}
	}

	y.mu.Lock()
	y.lastVideo = video
	y.mu.Unlock()

	y.log.Info("catalog fetched",
		zap.String("video_id", catalog.VideoID),
		zap.String("title", catalog.Title),
		zap.Int("streams", len(catalog.Streams)))

	return catalog, nil
}

// Download resolves the descriptor against the cached video (re-fetching by
// ID when the cache misses), opens the stream and copies it to dst with
// per-chunk progress and cancellation checks.
func (y *YouTube) Download(ctx context.Context, stream model.StreamDescriptor, dst io.Writer, onProgress func(written, total int64)) error {
	video, err := y.videoFor(ctx, stream.VideoID)
	if err != nil {
		return err
	}

	format := formatByItag(video, stream.Itag)
	if format == nil {
		return fmt.Errorf("stream itag %d is no longer available for video %s", stream.Itag, stream.VideoID)
	}

	reader, size, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", describeRemoteError(err))
	}
	defer reader.Close()

	if size == 0 {
		size = stream.ContentLength
	}

	return copyWithProgress(ctx, dst, reader, size, onProgress)
}

// videoFor returns the cached video when the ID matches, otherwise resolves
// the video again through its watch URL.
func (y *YouTube) videoFor(ctx context.Context, videoID string) (*youtube.Video, error) {
	y.mu.Lock()
	cached := y.lastVideo
	y.mu.Unlock()

	if cached != nil && cached.ID == videoID {
		return cached, nil
	}

	video, err := y.client.GetVideoContext(ctx, watchURLPrefix+videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video %s: %w", videoID, describeRemoteError(err))
	}

	y.mu.Lock()
	y.lastVideo = video
	y.mu.Unlock()

	return video, nil
}

// validateURL rejects obviously malformed input before any network call.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// describeRemoteError annotates known rejection shapes from the remote
// service while keeping the original error in the chain.
func describeRemoteError(err error) error {
	switch {
	case errors.Is(err, youtube.ErrVideoPrivate):
		return fmt.Errorf("video is private: %w", err)
	case errors.Is(err, youtube.ErrLoginRequired):
		return fmt.Errorf("video requires sign-in: %w", err)
	case errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return fmt.Errorf("video is not playable: %w", err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("invalid video ID: %w", err)
	}

	var playability *youtube.ErrPlayabiltyStatus
	if errors.As(err, &playability) {
		return fmt.Errorf("video rejected (%s): %w", playability.Reason, err)
	}

	var statusErr youtube.ErrUnexpectedStatusCode
	if errors.As(err, &statusErr) {
		return fmt.Errorf("unexpected HTTP status %d: %w", int(statusErr), err)
	}

	return err
}

// mapVideo converts the raw format list into the domain catalog.
func mapVideo(rawURL string, video *youtube.Video) *model.Catalog {
	catalog := &model.Catalog{
		URL:      rawURL,
		VideoID:  video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
	}

	for i := range video.Formats {
		f := &video.Formats[i]
		kind, usable := classifyFormat(f)
		if !usable {
			continue
		}
		catalog.Streams = append(catalog.Streams, model.StreamDescriptor{
			VideoID:       video.ID,
			Itag:          f.ItagNo,
			Kind:          kind,
			MimeType:      f.MimeType,
			Container:     containerFromMime(f.MimeType),
			QualityLabel:  f.QualityLabel,
			Bitrate:       bitrateForFormat(f),
			Width:         f.Width,
			Height:        f.Height,
			AudioChannels: f.AudioChannels,
			ContentLength: int64(f.ContentLength),
		})
	}

	sortStreams(catalog.Streams)
	return catalog
}

// classifyFormat determines the stream kind from the format's audio and
// video attributes. Formats with neither are unusable.
func classifyFormat(f *youtube.Format) (model.StreamKind, bool) {
	hasAudio := f.AudioChannels > 0
	hasVideo := f.Width > 0 || f.Height > 0

	switch {
	case hasAudio && hasVideo:
		return model.StreamProgressive, true
	case hasVideo:
		return model.StreamVideoOnly, true
	case hasAudio:
		return model.StreamAudioOnly, true
	default:
		return "", false
	}
}

// bitrateForFormat prefers the nominal bitrate, falling back to the average.
func bitrateForFormat(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// containerFromMime derives a file extension from the MIME subtype,
// e.g. "video/mp4; codecs=..." -> "mp4".
func containerFromMime(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	_, subtype, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok {
		return ""
	}
	subtype = strings.TrimSpace(subtype)
	if subtype == "3gpp" {
		return "3gp"
	}
	return subtype
}

// sortStreams orders the catalog best-first within each kind: video kinds by
// height then bitrate, audio by bitrate.
func sortStreams(streams []model.StreamDescriptor) {
	sort.SliceStable(streams, func(i, j int) bool {
		a, b := streams[i], streams[j]
		if a.Kind != b.Kind {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}
		if a.Kind == model.StreamAudioOnly {
			return a.Bitrate > b.Bitrate
		}
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.Bitrate > b.Bitrate
	})
}

func kindRank(kind model.StreamKind) int {
	switch kind {
	case model.StreamProgressive:
		return 0
	case model.StreamVideoOnly:
		return 1
	default:
		return 2
	}
}

func formatByItag(video *youtube.Video, itag int) *youtube.Format {
	for i := range video.Formats {
		if video.Formats[i].ItagNo == itag {
			return &video.Formats[i]
		}
	}
	return nil
}

// copyWithProgress copies src to dst in chunks, reporting cumulative bytes
// after each write and honoring cancellation between chunks.
func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, onProgress func(written, total int64)) error {
	buf := make([]byte, copyChunkSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write failed after %d bytes: %w", written, werr)
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written, total)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream read failed after %d bytes: %w", written, err)
		}
	}
}
