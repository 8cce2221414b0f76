package cfg

type Cfg struct {
	// IO configuration
	InputFile  string
	OutputFile string

	// Ambient discovery context
	City  string
	State string

	// Normalization configuration
	CategoryRulesFile string

	// Seen-hash store configuration
	StoreBackend string
	RedisAddr    string
	RedisTTLDays int
	SQLitePath   string

	// Application metadata
	WorkerCount int
	Debug       bool
	Version     string
}
