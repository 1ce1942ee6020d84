// services/backup.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/netcafe-dev/cafebot/cafebot/store"
)

// BackupService ships periodic snapshots of every café record to a Spaces
// bucket. Backups are full-document JSON, one timestamped object per cycle,
// so restoring is copying one object back over the save file.
type BackupService struct {
	client   *s3.Client
	bucket   string
	prefix   string
	manager  *store.Manager
	interval time.Duration
	logger   *slog.Logger
}

func NewBackupService(spacesKey, spacesSecret, region, bucket, prefix string, manager *store.Manager, interval time.Duration) *BackupService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &BackupService{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		manager:  manager,
		interval: interval,
		logger:   slog.With(slog.String("service", "backup")),
	}
}

// Run uploads a snapshot on every interval until ctx is cancelled.
func (s *BackupService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.BackupOnce(ctx); err != nil {
				s.logger.Error("Backup cycle failed", slog.Any("error", err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// BackupOnce snapshots the store and uploads one object.
func (s *BackupService) BackupOnce(ctx context.Context) error {
	start := time.Now()

	records, err := s.manager.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot store: %w", err)
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("cafes-%s.json", time.Now().UTC().Format("20060102T150405"))
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup %s: %w", key, err)
	}

	s.logger.Info("Backup uploaded",
		slog.String("key", key),
		slog.Int("players", len(records)),
		slog.Int("bytes", len(payload)),
		slog.Duration("took", time.Since(start)))
	return nil
}
