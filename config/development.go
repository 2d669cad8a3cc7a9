package config

import "time"

func developmentConfig() Config {
	return Config{
		Env:        EnvDevelopment,
		ListenAddr: "localhost:8002",

		ListingUrl: "https://ost.51cto.com/postlist",
		Source:     "51CTO",
		Category:   "技术文章",

		MinArticleId:       33500,
		MaxPages:           999,
		BatchSize:          5,
		FetchAttempts:      2,
		FetchRetryInterval: 2 * time.Second,
		NavigationTimeout:  30 * time.Second,
		ContentWaitTimeout: 20 * time.Second,
		Headless:           false,
		CrawlOnStartup:     true,

		DataFile: "data/51cto_articles.json",

		BackupS3Bucket:     "",
		AwsRegion:          "us-west-2",
		AwsAccessKey:       "",
		AwsSecretAccessKey: "",
	}
}
