package ogsite

import "testing"

func TestCrawlerName(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", "facebook"},
		{"Twitterbot/1.0", "twitter"},
		{"LinkedInBot/1.0 (compatible; Mozilla/5.0; Apache-HttpClient +http://www.linkedin.com)", "linkedin"},
		{"Slackbot-LinkExpanding 1.0 (+https://api.slack.com/robots)", "slack"},
		{"Mozilla/5.0 (compatible; Discordbot/2.0; +https://discordapp.com)", "discord"},
		{"TelegramBot (like TwitterBot)", "telegram"},
		{"WhatsApp/2.23.20.0", "whatsapp"},
		{"Mozilla/5.0 (compatible; AhrefsBot/7.0)", "other-bot"},
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", "browser"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := CrawlerName(tt.ua); got != tt.want {
			t.Errorf("CrawlerName(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
