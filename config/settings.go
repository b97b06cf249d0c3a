package config

// Settings is the typed view of the merged configuration tree. Leaves are
// strings: environment overrides always arrive as strings and missing
// values surface as "" at the point of use.
type Settings struct {
	App    App    `yaml:"app"`
	Theme  Theme  `yaml:"theme"`
	SEO    SEO    `yaml:"seo"`
	Site   Site   `yaml:"site"`
	Social Social `yaml:"social"`
	Legal  Legal  `yaml:"legal"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
}

type App struct {
	Name            string `yaml:"name"`
	ShortName       string `yaml:"shortName"`
	Description     string `yaml:"description"`
	BackgroundColor string `yaml:"backgroundColor"`
}

// Colors is one palette: an accent color and two gradient stops.
type Colors struct {
	Primary       string `yaml:"primary"`
	GradientStart string `yaml:"gradientStart"`
	GradientEnd   string `yaml:"gradientEnd"`
}

// Theme holds the site-wide palette plus optional per-topic palettes for
// blog posts.
type Theme struct {
	Colors `yaml:",inline"`
	Blog   map[string]Colors `yaml:"blog"`
}

type SEO struct {
	DefaultTitle       string `yaml:"defaultTitle"`
	TitleTemplate      string `yaml:"titleTemplate"`
	DefaultDescription string `yaml:"defaultDescription"`
	SiteName           string `yaml:"siteName"`
	Locale             string `yaml:"locale"`
	Type               string `yaml:"type"`
}

type Site struct {
	URL    string `yaml:"url"`
	Author string `yaml:"author"`
}

type Social struct {
	Twitter   string `yaml:"twitter"`
	GitHub    string `yaml:"github"`
	Discord   string `yaml:"discord"`
	YouTube   string `yaml:"youtube"`
	TikTok    string `yaml:"tiktok"`
	LinkedIn  string `yaml:"linkedin"`
	Instagram string `yaml:"instagram"`
	Telegram  string `yaml:"telegram"`
	Email     string `yaml:"email"`
	WhatsApp  string `yaml:"whatsapp"`
}

type Legal struct {
	ContactEmail string `yaml:"contactEmail"`
	DPOEmail     string `yaml:"dpoEmail"`
	CompanyName  string `yaml:"companyName"`
}

// Server configures the HTTP listener and on-disk locations.
type Server struct {
	Addr       string `yaml:"addr"`
	Database   string `yaml:"database"`
	ContentDir string `yaml:"contentDir"`
	StaticDir  string `yaml:"staticDir"`
	FontsURL   string `yaml:"fontsURL"`
}

// Log configures the process logger. An empty File logs to stderr.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TopicColors returns the palette configured for topic, if any. Keys are
// compared case-insensitively because environment overrides are lower-cased.
func (t Theme) TopicColors(topic string) (Colors, bool) {
	if c, ok := t.Blog[topic]; ok {
		return c, true
	}
	for k, c := range t.Blog {
		if equalFold(k, topic) {
			return c, true
		}
	}
	return Colors{}, false
}
