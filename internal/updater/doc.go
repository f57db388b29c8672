// Package updater keeps the yt-dlp executable current. It resolves the installed
// and latest released versions, downloads the platform asset and installs it
// atomically into the managed tools location.
package updater
