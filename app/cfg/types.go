package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesFile     string
	Port            string
	WorkerCount     int
	HarvestInterval int
	CleanupInterval int
	RetentionCount  int
	MaxPerSource    int
	FeedLimit       int
	TranslateBatch  int
	APIAccessKey    string

	// Telegram digest
	TelegramToken  string
	TelegramChatID string
	DigestInterval int
	DigestSize     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
