package ffmpeg

// Package ffmpeg drives the external ffmpeg/ffprobe binaries: merging
// separate audio and video streams, transcoding audio into the requested
// container, probing media duration, and translating the machine-readable
// -progress output into fractions for the UI.
