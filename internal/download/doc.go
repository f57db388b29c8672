package download

// Package download supervises yt-dlp operations. Each fetch or download runs in its
// own worker goroutine and reports to the interface over a channel created for that
// operation alone. At most one operation is active at a time.
