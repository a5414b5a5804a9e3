package acquire

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"podlinks/internal/fileutil"
	"podlinks/internal/services"
	"podlinks/internal/textutil"
)

// download fetches an audio file over HTTP into the download directory. When
// title is empty the file is named after the last URL path segment.
func (s *Service) download(ctx context.Context, link, title string) (Artifact, error) {
	if err := os.MkdirAll(s.cfg.DownloadDir, 0o755); err != nil {
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "ensure download dir", s.cfg.DownloadDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrValidation, "acquire", "build request", link, err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Artifact{}, services.Wrap(services.ErrTimeout, "acquire", "download", link, err)
		}
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "download", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Artifact{}, services.Wrap(services.ErrNotFound, "acquire", "download", fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	name := fileNameFor(resp.Request.URL, title, resp.Header.Get("Content-Type"))
	dest := filepath.Join(s.cfg.DownloadDir, name)

	if _, err := fileutil.WriteAtomic(dest, resp.Body, 0o644); err != nil {
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "download", link, err)
	}

	if title == "" {
		title = titleFromPath(dest)
	}
	return Artifact{Path: dest, Title: title}, nil
}

func fileNameFor(u *url.URL, title, contentType string) string {
	base := path.Base(u.Path)
	ext := strings.ToLower(path.Ext(base))
	if !isAudioExt(ext) {
		ext = extForContentType(contentType)
	}
	stem := strings.TrimSpace(title)
	if stem == "" {
		stem = strings.TrimSuffix(base, path.Ext(base))
		if unescaped, err := url.PathUnescape(stem); err == nil {
			stem = unescaped
		}
	}
	if stem == "" || stem == "." || stem == "/" {
		stem = "episode"
	}
	return textutil.SanitizeFileName(stem) + ext
}

func extForContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".mp3"
	}
	switch mediaType {
	case "audio/mp4", "audio/x-m4a", "audio/m4a":
		return ".m4a"
	case "audio/aac":
		return ".aac"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	case "audio/opus":
		return ".opus"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	default:
		return ".mp3"
	}
}
