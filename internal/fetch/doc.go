package fetch

// Package fetch retrieves the stream catalog for a video URL and downloads
// individual streams. The network protocol lives entirely in
// github.com/kkdai/youtube/v2; this package validates input, maps formats
// into domain descriptors, and reports byte progress during transfers.
