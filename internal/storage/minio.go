package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const avatarPrefix = "avatars/"

// AvatarStore keeps user avatars in a MinIO bucket.
type AvatarStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewAvatarStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AvatarStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &AvatarStore{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}, nil
}

// EnsureBucket creates the avatar bucket when it is missing and makes the
// avatar prefix anonymously readable, so the URLs stored on users resolve.
func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		slog.Info("created bucket", "bucket", s.bucket)
	}

	policy, err := avatarReadPolicy(s.bucket)
	if err != nil {
		return err
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("set policy on bucket %s: %w", s.bucket, err)
	}
	return nil
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// avatarReadPolicy grants anonymous GetObject on avatars/ only; listing and
// writes stay private.
func avatarReadPolicy(bucket string) (string, error) {
	raw, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{fmt.Sprintf("arn:aws:s3:::%s/%s*", bucket, avatarPrefix)},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode bucket policy: %w", err)
	}
	return string(raw), nil
}

// Put uploads an avatar for the user and returns its object key and URL.
func (s *AvatarStore) Put(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (key, objectURL string, err error) {
	key = ObjectKey(userID, filename)
	_, err = s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("upload avatar: %w", err)
	}
	return key, s.URL(key), nil
}

// Remove deletes a previously stored avatar. An empty key is a no-op.
func (s *AvatarStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *AvatarStore) URL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: s.endpoint, Path: path.Join("/", s.bucket, key)}
	return u.String()
}

// ObjectKey namespaces avatars per user and keeps the original extension.
func ObjectKey(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s%s/%s%s", avatarPrefix, userID, uuid.NewString(), ext)
}
