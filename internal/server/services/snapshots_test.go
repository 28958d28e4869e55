package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"territorykeeper/internal/common"
	"territorykeeper/internal/server/config"
	"territorykeeper/internal/server/models"
)

type fakeSnapshotsRepo struct {
	byShareID map[string]*models.Snapshot
	createErr error
}

func newFakeSnapshotsRepo() *fakeSnapshotsRepo {
	return &fakeSnapshotsRepo{byShareID: make(map[string]*models.Snapshot)}
}

func (f *fakeSnapshotsRepo) Create(ctx context.Context, snapshot *models.Snapshot) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byShareID[snapshot.ShareID] = snapshot
	return nil
}

func (f *fakeSnapshotsRepo) GetByShareID(ctx context.Context, shareID string) (*models.Snapshot, error) {
	s, ok := f.byShareID[shareID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeSnapshotsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Snapshot, error) {
	var out []*models.Snapshot
	for _, s := range f.byShareID {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func snapshotTestConfig(archiving bool) *config.Config {
	cfg := &config.Config{
		ShareURLBase: "http://127.0.0.1:8080/open",
		S3Region:     "us-east-1",
		S3Bucket:     "snapshots",
	}
	if archiving {
		cfg.S3RootUser = "minioadmin"
		cfg.S3RootPassword = "minioadmin"
		cfg.S3BaseEndpoint = "http://127.0.0.1:9000"
	}
	return cfg
}

func stubS3(t *testing.T) (putCalls *int, putKeys *[]string) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origPut := putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		putObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}

	var calls int
	var keys []string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		calls++
		keys = append(keys, aws.ToString(in.Key))
		if aws.ToString(in.Bucket) != "snapshots" {
			t.Fatalf("unexpected bucket %q", aws.ToString(in.Bucket))
		}
		return &s3.PutObjectOutput{}, nil
	}
	return &calls, &keys
}

func TestPublish_MintsFreshShareIDEachCall(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeSnapshotsRepo()
	s := NewSnapshotService(db, &fakeRepoManager{s: repo}, snapshotTestConfig(false))

	first, url1, err := s.Publish(context.Background(), "owner-1", []byte(`{"street":"Elm"}`))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	second, url2, err := s.Publish(context.Background(), "owner-1", []byte(`{"street":"Elm"}`))
	if err != nil {
		t.Fatalf("republish: %v", err)
	}

	if first.ShareID == second.ShareID {
		t.Fatalf("republish reused share id %q", first.ShareID)
	}
	if url1 == url2 {
		t.Fatalf("share URLs should differ: %q", url1)
	}
	if want := "http://127.0.0.1:8080/open?shareId=" + first.ShareID; url1 != want {
		t.Fatalf("share URL = %q, want %q", url1, want)
	}
	if first.SharedAt.IsZero() || time.Since(first.SharedAt) > time.Minute {
		t.Fatalf("SharedAt not set: %v", first.SharedAt)
	}
	if first.StorageKey != "" {
		t.Fatalf("archiving disabled but StorageKey = %q", first.StorageKey)
	}
}

func TestPublish_ArchivesWhenConfigured(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls, keys := stubS3(t)

	repo := newFakeSnapshotsRepo()
	s := NewSnapshotService(db, &fakeRepoManager{s: repo}, snapshotTestConfig(true))

	snap, _, err := s.Publish(context.Background(), "owner-1", []byte(`{}`))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("putObject calls = %d, want 1", *calls)
	}
	if snap.StorageKey == "" || snap.StorageKey != (*keys)[0] {
		t.Fatalf("storage key mismatch: %q vs %v", snap.StorageKey, *keys)
	}
}

func TestPublish_ArchiveErrorFailsPublish(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	_, _ = stubS3(t)
	origPut := putObject
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errBoom{}
	}
	t.Cleanup(func() { putObject = origPut })

	repo := newFakeSnapshotsRepo()
	s := NewSnapshotService(db, &fakeRepoManager{s: repo}, snapshotTestConfig(true))

	_, _, err := s.Publish(context.Background(), "owner-1", []byte(`{}`))
	if err == nil {
		t.Fatalf("expected archive error")
	}
	if len(repo.byShareID) != 0 {
		t.Fatalf("snapshot stored despite archive failure")
	}
}

func TestResolve_UnknownShareID(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewSnapshotService(db, &fakeRepoManager{s: newFakeSnapshotsRepo()}, snapshotTestConfig(false))

	_, err := s.Resolve(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestExportURL_NoArchivedCopy(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeSnapshotsRepo()
	repo.byShareID["abc"] = &models.Snapshot{ShareID: "abc", OwnerID: "o", Data: []byte(`{}`)}

	s := NewSnapshotService(db, &fakeRepoManager{s: repo}, snapshotTestConfig(false))

	_, err := s.ExportURL(context.Background(), "abc")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestExportURL_PresignsArchivedCopy(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	_, _ = stubS3(t)

	origNewPre := newS3PresignClient
	origPresign := presignGetObject
	t.Cleanup(func() {
		newS3PresignClient = origNewPre
		presignGetObject = origPresign
	})

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if aws.ToString(in.Key) != "snapshots/2026/1/2/key" {
			t.Fatalf("unexpected key %q", aws.ToString(in.Key))
		}
		return &v4.PresignedHTTPRequest{URL: "https://minio.local/snapshots/signed"}, nil
	}

	repo := newFakeSnapshotsRepo()
	repo.byShareID["abc"] = &models.Snapshot{
		ShareID:    "abc",
		OwnerID:    "o",
		Data:       []byte(`{}`),
		StorageKey: "snapshots/2026/1/2/key",
	}

	s := NewSnapshotService(db, &fakeRepoManager{s: repo}, snapshotTestConfig(true))

	url, err := s.ExportURL(context.Background(), "abc")
	if err != nil {
		t.Fatalf("export url: %v", err)
	}
	if url != "https://minio.local/snapshots/signed" {
		t.Fatalf("url = %q", url)
	}
}

func TestGetRandomStorageKey_DatePartitioned(t *testing.T) {
	key := GetRandomStorageKey()
	if key == "" || key == GetRandomStorageKey() {
		t.Fatalf("keys should be unique and non-empty: %q", key)
	}
}
