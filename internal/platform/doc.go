package platform

// Package platform contains OS integration glue: locating the yt-dlp executable,
// filesystem helpers, the default downloads directory and revealing files in the
// system file manager.
