// Package acquire turns an episode reference into a local audio file.
//
// References are resolved in this order:
//   - an existing local file is used as-is
//   - a podcast feed (by URL shape, Content-Type, or ForceFeed) yields its
//     newest audio enclosure, which is then downloaded
//   - a direct audio URL is downloaded over HTTP
//   - anything else is handed to yt-dlp, which extracts and converts the
//     best available audio stream
//
// Every failure is returned; the pipeline treats acquisition errors as fatal.
package acquire
