// Package ytdlp drives the external yt-dlp executable.
//
// It contains the line parser that turns free-form tool output into progress and
// output-path observations, the stream multiplexer that drains a child process's
// stdout and stderr concurrently, and the Client that runs the version probe, the
// metadata dump and downloads.
package ytdlp
