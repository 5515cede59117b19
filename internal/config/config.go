package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"VentureScanner/internal/domain"
)

const (
	configPathEnv     = "VENTURE_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	groqAPIKeyEnv     = "GROQ_API_KEY"
	groqModelEnv      = "GROQ_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	telegramAdminEnv  = "TELEGRAM_ADMIN_ID"
	searchAPIKeyEnv   = "SEARCH_API_KEY"
	unsplashKeyEnv    = "UNSPLASH_ACCESS_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Logging       LoggingConfig      `yaml:"logging"`
	Notifications NotificationConfig `yaml:"notifications"`
	Generator     GeneratorConfig    `yaml:"generator"`
	Search        SearchConfig       `yaml:"search"`
	Images        ImageConfig        `yaml:"images"`
	Feeds         []FeedConfig       `yaml:"feeds"`
	Sites         []SiteConfig       `yaml:"sites"`
	Editorial     EditorialConfig    `yaml:"editorial"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig controls slog verbosity and output encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to publish and notify.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	AdminID  string `yaml:"adminId"`
}

// GeneratorConfig defines how to contact the chat-completion API.
type GeneratorConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// SearchConfig describes the keyword-search API used for tracked entities
// and archive seeding.
type SearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Queries  []QueryConfig `yaml:"queries"`
}

// QueryConfig is one search query with its region tag.
type QueryConfig struct {
	Query  string        `yaml:"query"`
	Region domain.Region `yaml:"region"`
}

// ImageConfig wires the Unsplash fallback for draft illustrations.
type ImageConfig struct {
	UnsplashAccessKey string `yaml:"unsplashAccessKey"`
}

// FeedConfig is a single RSS/Atom feed to poll.
type FeedConfig struct {
	URL    string        `yaml:"url"`
	Region domain.Region `yaml:"region"`
}

// SiteConfig describes a scraped site with its article selector.
type SiteConfig struct {
	Name     string        `yaml:"name"`
	URL      string        `yaml:"url"`
	Selector string        `yaml:"selector"`
	Region   domain.Region `yaml:"region"`
}

// EditorialConfig carries every vocabulary the curation and feedback layers
// match against. Kept in configuration (not package globals) so tests can
// inject synthetic word lists.
type EditorialConfig struct {
	Keywords          []string                 `yaml:"keywords"`
	BlockedTopics     []string                 `yaml:"blockedTopics"`
	BlockedDomains    []string                 `yaml:"blockedDomains"`
	SkipTitlePatterns []string                 `yaml:"skipTitlePatterns"`
	VaguePhrases      []string                 `yaml:"vaguePhrases"`
	StageKeywords     []string                 `yaml:"stageKeywords"`
	PriorityMarkers   []string                 `yaml:"priorityMarkers"`
	ProhibitionMarker []string                 `yaml:"prohibitionMarkers"`
	RegionMentions    map[string]domain.Region `yaml:"regionMentions"`
	Tier1Entities     []string                 `yaml:"tier1Entities"`
	LocalEntities     []string                 `yaml:"localEntities"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

// Validate checks the preconditions that must hold before any processing.
func (c Config) Validate() error {
	for _, required := range []struct {
		name  string
		value string
	}{
		{"database dsn", c.Database.DSN},
		{"generator api key", c.Generator.APIKey},
		{"telegram bot token", c.Notifications.Telegram.BotToken},
		{"telegram chat id", c.Notifications.Telegram.ChatID},
	} {
		if required.value == "" {
			return fmt.Errorf("missing required setting: %s", required.name)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(telegramAdminEnv); v != "" {
		c.Notifications.Telegram.AdminID = v
	}

	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.Generator.APIKey = v
	}

	if v := os.Getenv(groqModelEnv); v != "" {
		c.Generator.Model = v
	}

	if v := os.Getenv(searchAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}

	if v := os.Getenv(unsplashKeyEnv); v != "" {
		c.Images.UnsplashAccessKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.AdminID != "" {
		base.Notifications.Telegram.AdminID = override.Notifications.Telegram.AdminID
	}

	if override.Generator.Endpoint != "" {
		base.Generator.Endpoint = override.Generator.Endpoint
	}
	if override.Generator.Model != "" {
		base.Generator.Model = override.Generator.Model
	}
	if override.Generator.APIKey != "" {
		base.Generator.APIKey = override.Generator.APIKey
	}
	if override.Generator.Temperature != 0 {
		base.Generator.Temperature = override.Generator.Temperature
	}
	if override.Generator.MaxTokens != 0 {
		base.Generator.MaxTokens = override.Generator.MaxTokens
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}
	if len(override.Search.Queries) > 0 {
		base.Search.Queries = override.Search.Queries
	}

	if override.Images.UnsplashAccessKey != "" {
		base.Images = override.Images
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	base.Editorial = mergeEditorial(base.Editorial, override.Editorial)

	return base
}

func mergeEditorial(base, override EditorialConfig) EditorialConfig {
	if len(override.Keywords) > 0 {
		base.Keywords = override.Keywords
	}
	if len(override.BlockedTopics) > 0 {
		base.BlockedTopics = override.BlockedTopics
	}
	if len(override.BlockedDomains) > 0 {
		base.BlockedDomains = override.BlockedDomains
	}
	if len(override.SkipTitlePatterns) > 0 {
		base.SkipTitlePatterns = override.SkipTitlePatterns
	}
	if len(override.VaguePhrases) > 0 {
		base.VaguePhrases = override.VaguePhrases
	}
	if len(override.StageKeywords) > 0 {
		base.StageKeywords = override.StageKeywords
	}
	if len(override.PriorityMarkers) > 0 {
		base.PriorityMarkers = override.PriorityMarkers
	}
	if len(override.ProhibitionMarker) > 0 {
		base.ProhibitionMarker = override.ProhibitionMarker
	}
	if len(override.RegionMentions) > 0 {
		base.RegionMentions = override.RegionMentions
	}
	if len(override.Tier1Entities) > 0 {
		base.Tier1Entities = override.Tier1Entities
	}
	if len(override.LocalEntities) > 0 {
		base.LocalEntities = override.LocalEntities
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: ""},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Generator: GeneratorConfig{
			Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.6,
			MaxTokens:   512,
		},
		Search: SearchConfig{
			Endpoint: "https://api.tavily.com/search",
			Queries: []QueryConfig{
				{Query: "Kazakhstan startup funding round", Region: domain.RegionKazakhstan},
				{Query: "Казахстан стартап инвестиции раунд", Region: domain.RegionKazakhstan},
				{Query: "Uzbekistan startup funding", Region: domain.RegionCentralAsia},
				{Query: "Central Asia venture capital", Region: domain.RegionCentralAsia},
				{Query: "AI startup raised million series seed", Region: domain.RegionWorld},
			},
		},
		Feeds: []FeedConfig{
			{URL: "https://kursiv.kz/feed/", Region: domain.RegionKazakhstan},
			{URL: "https://digitalbusiness.kz/feed/", Region: domain.RegionKazakhstan},
			{URL: "https://forbes.kz/rss", Region: domain.RegionKazakhstan},
			{URL: "https://spot.uz/ru/feed/", Region: domain.RegionCentralAsia},
			{URL: "https://techcrunch.com/feed/", Region: domain.RegionWorld},
			{URL: "https://news.crunchbase.com/feed/", Region: domain.RegionWorld},
		},
		Sites: []SiteConfig{
			{Name: "IT Park Uzbekistan", URL: "https://it-park.uz/ru/news", Selector: "article, .news-item", Region: domain.RegionCentralAsia},
			{Name: "Astana Hub", URL: "https://astanahub.com/ru/news/", Selector: "article", Region: domain.RegionKazakhstan},
		},
		Editorial: defaultEditorial(),
	}
}

func defaultEditorial() EditorialConfig {
	return EditorialConfig{
		Keywords: []string{
			"инвестиц", "стартап", "венчур", "фонд", "раунд", "привлек",
			"млн", "миллион", "сделка", "финансирование", "капитал", "акселератор",
			"investment", "startup", "venture", "fund", "series", "round",
			"raised", "million", "funding", "capital", "accelerator", "seed", "exit",
		},
		BlockedTopics: []string{
			"геополит", "военн", "армия", "криптовалют", "crypto", "bitcoin",
			"недвижимост", "real estate", "geopolit", "military",
		},
		BlockedDomains: []string{
			"crunchbase.com/organization", "tracxn.com", "instagram.com", "facebook.com",
			"linkedin.com", "twitter.com", "youtube.com", "t.me",
			"wikipedia.org", "pitchbook.com", "statista.com",
		},
		SkipTitlePatterns: []string{
			"top ", "list of", "rankings", "investors in", "firms in",
			"venture capital firms", "startup investors", "pdf", ".pptx",
		},
		VaguePhrases: []string{
			"эксперты считают", "по мнению аналитиков", "как известно",
			"в последнее время", "experts believe", "analysts say", "it is known",
		},
		StageKeywords: []string{
			"seed", "pre-seed", "сид", "ангел", "angel", "early-stage", "ранней стадии",
		},
		PriorityMarkers: []string{
			"больше", "приоритет", "фокус на", "чаще", "more", "prioritize", "focus on",
		},
		ProhibitionMarker: []string{
			"не ", "нельзя", "без ", "избега", "don't", "do not", "avoid", "without", "никогда",
		},
		RegionMentions: map[string]domain.Region{
			"казахстан":    domain.RegionKazakhstan,
			"kazakhstan":   domain.RegionKazakhstan,
			"астан":        domain.RegionKazakhstan,
			"алмат":        domain.RegionKazakhstan,
			"узбекистан":   domain.RegionCentralAsia,
			"uzbekistan":   domain.RegionCentralAsia,
			"кыргызстан":   domain.RegionCentralAsia,
			"таджикистан":  domain.RegionCentralAsia,
			"центральн":    domain.RegionCentralAsia,
			"central asia": domain.RegionCentralAsia,
			"мировы":       domain.RegionWorld,
			"глобальн":     domain.RegionWorld,
			"global":       domain.RegionWorld,
		},
		Tier1Entities: []string{
			"a16z", "Andreessen Horowitz", "Sequoia", "Y Combinator", "YC",
			"OpenAI", "Anthropic", "Google Ventures", "Accel",
		},
		LocalEntities: []string{
			"MA7 Ventures", "Tumar Ventures", "White Hill Capital", "Big Sky Ventures",
			"Most Ventures", "Axiom Capital", "Jas Ventures", "Astana Hub",
			"Kaspi", "Chocofamily", "Kolesa", "Arbuz.kz",
		},
	}
}
