package config

import (
	"os"
	"time"
)

func productionConfig() Config {
	return Config{
		Env:        EnvProduction,
		ListenAddr: ":8002",

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
		Headless:           true,
		CrawlOnStartup:     true,

		DataFile: "data/51cto_articles.json",

		BackupS3Bucket:     os.Getenv("CTONEWS_BACKUP_BUCKET"),
		AwsRegion:          "us-west-2",
		AwsAccessKey:       os.Getenv("AWS_ACCESS_KEY_ID"),
		AwsSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}
