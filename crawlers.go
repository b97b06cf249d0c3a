package ogsite

import "strings"

// previewCrawlers maps User-Agent fragments of the link unfurlers that
// fetch og:image to a short label. Order matters: "slackbot" must be
// checked before the generic "bot".
var previewCrawlers = []struct{ pattern, name string }{
	{"facebookexternalhit", "facebook"},
	{"facebot", "facebook"},
	{"twitterbot", "twitter"},
	{"linkedinbot", "linkedin"},
	{"slackbot", "slack"},
	{"slack-imgproxy", "slack"},
	{"discordbot", "discord"},
	{"telegrambot", "telegram"},
	{"whatsapp", "whatsapp"},
	{"mastodon", "mastodon"},
	{"bluesky", "bluesky"},
	{"redditbot", "reddit"},
	{"skypeuripreview", "skype"},
	{"googlebot", "google"},
	{"bingbot", "bing"},
}

var genericBots = []string{"bot", "crawler", "spider", "crawl", "slurp", "preview"}

// CrawlerName labels the client that fetched a preview card: a known
// unfurler name, "other-bot" for unrecognised crawlers, or "browser".
func CrawlerName(ua string) string {
	ua = strings.ToLower(ua)
	for _, c := range previewCrawlers {
		if strings.Contains(ua, c.pattern) {
			return c.name
		}
	}
	for _, b := range genericBots {
		if strings.Contains(ua, b) {
			return "other-bot"
		}
	}
	if ua == "" {
		return "unknown"
	}
	return "browser"
}
