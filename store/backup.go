package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ctonews/config"
	"ctonews/log"
	"ctonews/oops"
)

// BackupToS3 uploads the current data file as a timestamped object. Called
// after successful runs when a backup bucket is configured.
func (s *Store) BackupToS3(ctx context.Context, logger log.Logger) error {
	bucket := config.Cfg.BackupS3Bucket
	if bucket == "" {
		return nil
	}

	s.mu.Lock()
	content, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if os.IsNotExist(err) {
		logger.Info().Msg("No data file to back up")
		return nil
	}
	if err != nil {
		return oops.Wrap(err)
	}

	creds := credentials.NewStaticCredentialsProvider(
		config.Cfg.AwsAccessKey, config.Cfg.AwsSecretAccessKey, "",
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx, awsconfig.WithCredentialsProvider(creds), awsconfig.WithRegion(config.Cfg.AwsRegion),
	)
	if err != nil {
		return oops.Wrap(err)
	}
	s3Client := s3.NewFromConfig(awsCfg)

	name := filepath.Base(s.path)
	key := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), name)
	//nolint:exhaustruct
	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return oops.Wrap(err)
	}

	logger.Info().Str("bucket", bucket).Str("key", key).Msg("Backed up data file")
	return nil
}
