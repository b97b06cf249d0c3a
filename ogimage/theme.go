package ogimage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/ogsite/config"
	"github.com/eringen/ogsite/layout"
)

var topicNames = map[string]string{
	"tech":             "Technology",
	"marketing":        "Marketing",
	"entrepreneurship": "Entrepreneurship",
	"productivity":     "Productivity",
	"health":           "Health",
}

// Topics returns the topics that have a display name.
func Topics() []string {
	return []string{"tech", "marketing", "entrepreneurship", "productivity", "health"}
}

// TopicName returns the display name of topic. Unknown topics are title
// cased.
func TopicName(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	if name, ok := topicNames[t]; ok {
		return name
	}
	return cases.Title(language.English).String(strings.TrimSpace(topic))
}

// ThemeForTopic returns the palette configured for topic, or the site-wide
// palette when the topic has none.
func ThemeForTopic(theme config.Theme, topic string) layout.Theme {
	c, ok := theme.TopicColors(strings.ToLower(strings.TrimSpace(topic)))
	if !ok {
		c = theme.Colors
	}
	return layout.Theme{
		Name:          TopicName(topic),
		PrimaryColor:  c.Primary,
		GradientStart: c.GradientStart,
		GradientEnd:   c.GradientEnd,
	}
}
