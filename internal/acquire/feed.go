package acquire

import (
	"context"
	"path"
	"strings"

	"github.com/mmcdole/gofeed"

	"podlinks/internal/logging"
	"podlinks/internal/services"
)

// fromFeed resolves a podcast feed to its newest episode with an audio
// enclosure and downloads that enclosure.
func (s *Service) fromFeed(ctx context.Context, feedURL string) (Artifact, error) {
	parser := gofeed.NewParser()
	parser.Client = s.client
	parser.UserAgent = s.cfg.UserAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "parse feed", feedURL, err)
	}

	item, enclosure := latestEpisode(feed)
	if item == nil {
		return Artifact{}, services.Wrap(services.ErrNotFound, "acquire", "parse feed", "no episode with an audio enclosure in "+feedURL, nil)
	}

	logging.WithContext(ctx, s.logger).Info("feed episode selected",
		logging.String("feed_title", strings.TrimSpace(feed.Title)),
		logging.String("episode_title", strings.TrimSpace(item.Title)),
		logging.String("enclosure", enclosure),
	)
	return s.download(ctx, enclosure, strings.TrimSpace(item.Title))
}

// latestEpisode picks the most recently published item that carries audio.
// Items without a parsed date rank behind dated ones and keep feed order.
func latestEpisode(feed *gofeed.Feed) (*gofeed.Item, string) {
	var (
		best          *gofeed.Item
		bestEnclosure string
	)
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		enclosure := audioEnclosure(item)
		if enclosure == "" {
			continue
		}
		if best == nil || newer(item, best) {
			best = item
			bestEnclosure = enclosure
		}
	}
	return best, bestEnclosure
}

func newer(a, b *gofeed.Item) bool {
	if a.PublishedParsed == nil {
		return false
	}
	if b.PublishedParsed == nil {
		return true
	}
	return a.PublishedParsed.After(*b.PublishedParsed)
}

func audioEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || strings.TrimSpace(enc.URL) == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enc.Type), "audio/") {
			return strings.TrimSpace(enc.URL)
		}
		if isAudioExt(path.Ext(strings.SplitN(enc.URL, "?", 2)[0])) {
			return strings.TrimSpace(enc.URL)
		}
	}
	return ""
}
