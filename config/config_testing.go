//go:build testing

package config

const isTesting = true

func testingConfig() Config {
	cfg := developmentConfig()
	cfg.Env = EnvTesting
	cfg.Headless = true
	cfg.CrawlOnStartup = false
	cfg.DataFile = "data/51cto_articles_test.json"
	return cfg
}
