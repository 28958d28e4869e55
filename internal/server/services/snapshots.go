package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"territorykeeper/internal/common"
	"territorykeeper/internal/dbx"
	"territorykeeper/internal/idgen"
	"territorykeeper/internal/server/config"
	"territorykeeper/internal/server/models"
	"territorykeeper/internal/server/repositories/repomanager"
)

// S3 call indirections, swappable in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// SnapshotService publishes immutable record snapshots and resolves share
// codes. When an S3 endpoint is configured, every snapshot is also archived
// to object storage and can be exported via a presigned GET link.
type SnapshotService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config

	// newShareID is a test seam for the share code generator.
	newShareID func() string
}

func NewSnapshotService(db *sql.DB, repomanager repomanager.RepositoryManager, config *config.Config) *SnapshotService {
	return &SnapshotService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		newShareID:  idgen.New,
	}
}

// GetRandomStorageKey builds a date-partitioned object key for an archived
// snapshot.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("snapshots/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *SnapshotService) archivingEnabled() bool {
	return s.config.S3BaseEndpoint != ""
}

func (s *SnapshotService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Publish stores the record document under a freshly minted share id and
// returns the id with the share URL. Every call mints a new id, so
// republishing never disturbs earlier links. The archive upload is best
// effort only when configured; the database row is the source of truth.
func (s *SnapshotService) Publish(ctx context.Context, ownerID string, data []byte) (*models.Snapshot, string, error) {
	snapshot := &models.Snapshot{
		ShareID:  s.newShareID(),
		OwnerID:  ownerID,
		Data:     data,
		SharedAt: time.Now(),
	}

	if s.archivingEnabled() {
		key, err := s.archive(ctx, data)
		if err != nil {
			return nil, "", fmt.Errorf("archiving snapshot: %w", err)
		}
		snapshot.StorageKey = key
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Snapshots(tx).Create(ctx, snapshot)
	})
	if err != nil {
		return nil, "", err
	}

	return snapshot, s.shareURL(snapshot.ShareID), nil
}

func (s *SnapshotService) archive(ctx context.Context, data []byte) (string, error) {
	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", err
	}

	key := GetRandomStorageKey()
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Resolve returns the snapshot published under shareID.
func (s *SnapshotService) Resolve(ctx context.Context, shareID string) (*models.Snapshot, error) {
	return s.repomanager.Snapshots(s.db).GetByShareID(ctx, shareID)
}

// ListByOwner returns everything the owner has published, newest first.
func (s *SnapshotService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Snapshot, error) {
	return s.repomanager.Snapshots(s.db).ListByOwner(ctx, ownerID)
}

// ExportURL returns a presigned GET link for the archived copy of the
// snapshot. Snapshots published while archiving was off have no archive.
func (s *SnapshotService) ExportURL(ctx context.Context, shareID string) (string, error) {
	snapshot, err := s.Resolve(ctx, shareID)
	if err != nil {
		return "", err
	}
	if snapshot.StorageKey == "" || !s.archivingEnabled() {
		return "", fmt.Errorf("%w: snapshot has no archived copy", common.ErrorNotFound)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(snapshot.StorageKey),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *SnapshotService) shareURL(shareID string) string {
	return s.config.ShareURLBase + "?" + common.ShareIDParam + "=" + url.QueryEscape(shareID)
}
