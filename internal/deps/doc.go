// Package deps checks that the external programs podlinks shells out to
// (yt-dlp, ffmpeg, uvx) can be found on PATH.
package deps
