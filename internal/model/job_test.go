package model

import (
	"errors"
	"testing"
)

func testCatalog() *Catalog {
	return &Catalog{
		URL:     "https://www.youtube.com/watch?v=abc123def45",
		VideoID: "abc123def45",
		Title:   "Test Video",
		Streams: []StreamDescriptor{
			{Itag: 137, Kind: StreamVideoOnly, Container: "mp4", QualityLabel: "1080p", Height: 1080, Bitrate: 4_000_000},
			{Itag: 136, Kind: StreamVideoOnly, Container: "mp4", QualityLabel: "720p", Height: 720, Bitrate: 2_500_000},
			{Itag: 140, Kind: StreamAudioOnly, Container: "m4a", Bitrate: 128_000, AudioChannels: 2},
			{Itag: 249, Kind: StreamAudioOnly, Container: "webm", Bitrate: 50_000, AudioChannels: 2},
			{Itag: 18, Kind: StreamProgressive, Container: "mp4", QualityLabel: "360p", Height: 360, AudioChannels: 2},
		},
	}
}

func TestCatalog_KindSelectors(t *testing.T) {
	c := testCatalog()

	if got := len(c.VideoOnly()); got != 2 {
		t.Errorf("VideoOnly() returned %d streams, expected 2", got)
	}
	if got := len(c.AudioOnly()); got != 2 {
		t.Errorf("AudioOnly() returned %d streams, expected 2", got)
	}
	if got := len(c.Progressive()); got != 1 {
		t.Errorf("Progressive() returned %d streams, expected 1", got)
	}
}

func TestCatalog_KindSelectors_EmptySubsets(t *testing.T) {
	// Videos exposing zero audio-only or zero video-only variants are valid.
	c := &Catalog{Streams: []StreamDescriptor{
		{Itag: 18, Kind: StreamProgressive, Container: "mp4"},
	}}

	if got := c.AudioOnly(); got != nil {
		t.Errorf("AudioOnly() on progressive-only catalog = %v, expected nil", got)
	}
	if got := c.VideoOnly(); got != nil {
		t.Errorf("VideoOnly() on progressive-only catalog = %v, expected nil", got)
	}
	if c.BestAudio() != nil {
		t.Error("BestAudio() expected nil for catalog without audio-only streams")
	}
	if c.BestVideo() != nil {
		t.Error("BestVideo() expected nil for catalog without video-only streams")
	}
}

func TestCatalog_BestPicks(t *testing.T) {
	c := testCatalog()

	best := c.BestVideo()
	if best == nil || best.Itag != 137 {
		t.Fatalf("BestVideo() = %+v, expected itag 137", best)
	}

	audio := c.BestAudio()
	if audio == nil || audio.Itag != 140 {
		t.Fatalf("BestAudio() = %+v, expected itag 140", audio)
	}
}

func TestMode_Requirements(t *testing.T) {
	tests := []struct {
		mode       Mode
		valid      bool
		needsAudio bool
		needsVideo bool
	}{
		{ModeAudioOnly, true, true, false},
		{ModeVideoOnly, true, false, true},
		{ModeMergeBoth, true, true, true},
		{Mode("bogus"), false, false, false},
		{Mode(""), false, false, false},
	}

	for _, test := range tests {
		if got := test.mode.Valid(); got != test.valid {
			t.Errorf("Mode(%q).Valid() = %v, expected %v", test.mode, got, test.valid)
		}
		if got := test.mode.NeedsAudio(); got != test.needsAudio {
			t.Errorf("Mode(%q).NeedsAudio() = %v, expected %v", test.mode, got, test.needsAudio)
		}
		if got := test.mode.NeedsVideo(); got != test.needsVideo {
			t.Errorf("Mode(%q).NeedsVideo() = %v, expected %v", test.mode, got, test.needsVideo)
		}
	}
}

func TestDownloadJob_OutputPath(t *testing.T) {
	video := &StreamDescriptor{Itag: 136, Kind: StreamVideoOnly, Container: "webm"}
	audio := &StreamDescriptor{Itag: 140, Kind: StreamAudioOnly, Container: "m4a"}

	tests := []struct {
		name     string
		job      DownloadJob
		expected string
	}{
		{
			name:     "merge always muxes into mp4",
			job:      DownloadJob{Mode: ModeMergeBoth, DestDir: "/tmp/out", BaseName: "clip", Video: video, Audio: audio},
			expected: "/tmp/out/clip.mp4",
		},
		{
			name:     "video keeps the stream container",
			job:      DownloadJob{Mode: ModeVideoOnly, DestDir: "/tmp/out", BaseName: "clip", Video: video},
			expected: "/tmp/out/clip.webm",
		},
		{
			name:     "audio uses the requested format",
			job:      DownloadJob{Mode: ModeAudioOnly, DestDir: "/tmp/out", BaseName: "clip", Audio: audio, AudioFormat: "mp3"},
			expected: "/tmp/out/clip.mp3",
		},
	}

	for _, test := range tests {
		if got := test.job.OutputPath(); got != test.expected {
			t.Errorf("%s: OutputPath() = %s, expected %s", test.name, got, test.expected)
		}
	}
}

func TestDownloadJob_Validate(t *testing.T) {
	video := &StreamDescriptor{Itag: 136, Kind: StreamVideoOnly, Container: "mp4"}
	audio := &StreamDescriptor{Itag: 140, Kind: StreamAudioOnly, Container: "m4a"}

	valid := DownloadJob{
		Mode: ModeMergeBoth, DestDir: "/tmp/out", BaseName: "clip",
		Video: video, Audio: audio,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on complete job returned %v, expected nil", err)
	}

	tests := []struct {
		name  string
		job   DownloadJob
		field string
	}{
		{
			name:  "unknown mode",
			job:   DownloadJob{Mode: Mode("x"), DestDir: "/tmp", BaseName: "clip"},
			field: "mode",
		},
		{
			name:  "missing destination",
			job:   DownloadJob{Mode: ModeVideoOnly, BaseName: "clip", Video: video},
			field: "destination",
		},
		{
			name:  "missing base name",
			job:   DownloadJob{Mode: ModeVideoOnly, DestDir: "/tmp", Video: video},
			field: "filename",
		},
		{
			name:  "merge without video stream",
			job:   DownloadJob{Mode: ModeMergeBoth, DestDir: "/tmp", BaseName: "clip", Audio: audio},
			field: "video stream",
		},
		{
			name:  "merge without audio stream",
			job:   DownloadJob{Mode: ModeMergeBoth, DestDir: "/tmp", BaseName: "clip", Video: video},
			field: "audio stream",
		},
		{
			name:  "audio mode without output format",
			job:   DownloadJob{Mode: ModeAudioOnly, DestDir: "/tmp", BaseName: "clip", Audio: audio},
			field: "audio format",
		},
	}

	for _, test := range tests {
		err := test.job.Validate()
		if err == nil {
			t.Errorf("%s: Validate() = nil, expected error", test.name)
			continue
		}
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: Validate() returned %T, expected *ConfigurationError", test.name, err)
			continue
		}
		if cfgErr.Field != test.field {
			t.Errorf("%s: error field = %q, expected %q", test.name, cfgErr.Field, test.field)
		}
	}
}

func TestStreamDescriptor_Label(t *testing.T) {
	tests := []struct {
		desc     StreamDescriptor
		expected string
	}{
		{
			StreamDescriptor{Kind: StreamVideoOnly, QualityLabel: "720p", Container: "mp4", ContentLength: 47_500_000},
			"720p · mp4 · 45.3 MB",
		},
		{
			StreamDescriptor{Kind: StreamAudioOnly, Bitrate: 128_000, Container: "m4a"},
			"128 kbps · m4a",
		},
		{
			StreamDescriptor{Kind: StreamVideoOnly, Height: 480, Container: "webm"},
			"480p · webm",
		},
		{
			StreamDescriptor{Itag: 22},
			"itag 22",
		},
	}

	for _, test := range tests {
		if got := test.desc.Label(); got != test.expected {
			t.Errorf("Label() = %q, expected %q", got, test.expected)
		}
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{47_500_000, "45.3 MB"},
		{3_500_000_000, "3.3 GB"},
	}

	for _, test := range tests {
		if got := HumanBytes(test.n); got != test.expected {
			t.Errorf("HumanBytes(%d) = %q, expected %q", test.n, got, test.expected)
		}
	}
}
