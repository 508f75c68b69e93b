package model

import "time"

// Config holds all runtime settings for a run
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	Profile      ProfileConfig      `yaml:"profile" mapstructure:"profile"`
	Document     DocumentConfig     `yaml:"document" mapstructure:"document"`
	Index        IndexConfig        `yaml:"index" mapstructure:"index"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Sampling     SamplingConfig     `yaml:"sampling" mapstructure:"sampling"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HTTPConfig configures the shared transport
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"` // SEC requires a contact address
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries    int           `yaml:"max_retries" mapstructure:"max_retries"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig configures the paginated full-text search crawl
type SearchConfig struct {
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Query       string        `yaml:"query" mapstructure:"query"`
	TargetCount int           `yaml:"target_count" mapstructure:"target_count"`
	PageSize    int           `yaml:"page_size" mapstructure:"page_size"`
	PageDelay   time.Duration `yaml:"page_delay" mapstructure:"page_delay"`
}

// ProfileConfig configures the entity profile lookup
type ProfileConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"` // fmt template taking the 10-digit CIK
}

// DocumentConfig configures filing document retrieval
type DocumentConfig struct {
	TargetDocType   string `yaml:"target_doc_type" mapstructure:"target_doc_type"`
	ArchivesBaseURL string `yaml:"archives_base_url" mapstructure:"archives_base_url"`
}

// IndexConfig configures the quarterly master index download
type IndexConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	HeaderLines int    `yaml:"header_lines" mapstructure:"header_lines"`
}

// CacheConfig configures response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures document fetch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig configures the per-host token bucket
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// SamplingConfig configures the sampling reducer
type SamplingConfig struct {
	Seed int64 `yaml:"seed" mapstructure:"seed"` // 0 = non-reproducible
}

// OutputConfig configures reporting
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
	JSONPath string `yaml:"json_path,omitempty" mapstructure:"json_path"`
}

// AnnualReportForms are the 10-K family form types
var AnnualReportForms = []string{"10-K", "10-KT", "10KSB", "10KT405", "10KSB40", "10-K405"}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       60 * time.Second,
			UserAgent:     "edgarscan/0.1 (research contact@example.com)",
			MaxBodyBytes:  50_000_000,
			MaxRetries:    3,
			RespectRobots: false,
		},
		Search: SearchConfig{
			Endpoint: "https://api.sec-api.io",
			Query: `formType:("10-K","10-KT","10KSB","10KT405","10KSB40","10-K405") ` +
				`AND filedAt:[2023-01-01 TO 2023-12-31]`,
			TargetCount: 500,
			PageSize:    200,
			PageDelay:   time.Second,
		},
		Profile: ProfileConfig{
			Endpoint: "https://data.sec.gov/submissions/CIK%s.json",
		},
		Document: DocumentConfig{
			TargetDocType:   "10-K",
			ArchivesBaseURL: "https://www.sec.gov/Archives/",
		},
		Index: IndexConfig{
			BaseURL:     "https://www.sec.gov/Archives/edgar/full-index/",
			HeaderLines: 11,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".edgarscan-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 10,
			BurstSize:         1,
		},
	}
}
