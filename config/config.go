package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env        Env
	ListenAddr string

	// Crawl source
	ListingUrl string
	Source     string
	Category   string

	// Crawl behavior
	MinArticleId       int
	MaxPages           int
	BatchSize          int
	FetchAttempts      int
	FetchRetryInterval time.Duration
	NavigationTimeout  time.Duration
	ContentWaitTimeout time.Duration
	Headless           bool
	CrawlOnStartup     bool

	// Storage
	DataFile string

	// Optional S3 backup of the data file after a run. Disabled when the
	// bucket is empty.
	BackupS3Bucket     string
	AwsRegion          string
	AwsAccessKey       string
	AwsSecretAccessKey string
}

type Env int

const (
	EnvDevelopment Env = iota
	EnvTesting
	EnvProduction
)

func (e Env) IsDevOrTest() bool {
	return e == EnvDevelopment || e == EnvTesting
}

var Cfg Config

func init() {
	if isTesting {
		Cfg = testingConfig()
		return
	}

	if _, ok := os.LookupEnv("CTONEWS_ENV"); ok {
		Cfg = productionConfig()
	} else {
		Cfg = developmentConfig()
	}

	applyFileOverrides(&Cfg, "config.yaml")
}

// fileOverrides are the knobs worth turning without a rebuild. Everything
// else stays in code.
type fileOverrides struct {
	ListenAddr    *string `yaml:"listen_addr"`
	MinArticleId  *int    `yaml:"min_article_id"`
	MaxPages      *int    `yaml:"max_pages"`
	BatchSize     *int    `yaml:"batch_size"`
	Headless      *bool   `yaml:"headless"`
	DataFile      *string `yaml:"data_file"`
	BackupBucket  *string `yaml:"backup_s3_bucket"`
	CrawlOnBoot   *bool   `yaml:"crawl_on_startup"`
}

func applyFileOverrides(cfg *Config, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(content, &overrides); err != nil {
		panic(err)
	}

	if overrides.ListenAddr != nil {
		cfg.ListenAddr = *overrides.ListenAddr
	}
	if overrides.MinArticleId != nil {
		cfg.MinArticleId = *overrides.MinArticleId
	}
	if overrides.MaxPages != nil {
		cfg.MaxPages = *overrides.MaxPages
	}
	if overrides.BatchSize != nil {
		cfg.BatchSize = *overrides.BatchSize
	}
	if overrides.Headless != nil {
		cfg.Headless = *overrides.Headless
	}
	if overrides.DataFile != nil {
		cfg.DataFile = *overrides.DataFile
	}
	if overrides.BackupBucket != nil {
		cfg.BackupS3Bucket = *overrides.BackupBucket
	}
	if overrides.CrawlOnBoot != nil {
		cfg.CrawlOnStartup = *overrides.CrawlOnBoot
	}
}
