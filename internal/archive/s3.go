package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"shelf/internal/library"
)

// S3Store is an S3-backed implementation of the ArchiveStore interface.
// Archives live under <prefix>/<name> in the configured bucket.
//
// Credentials come from the standard AWS chain; setting
// SHELF_S3_ACCESS_KEY and SHELF_S3_SECRET_KEY overrides it with static
// credentials.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

var _ library.ArchiveStore = (*S3Store)(nil)

// NewS3Store creates a new S3 archive store for the given bucket,
// prefix, and region.
func NewS3Store(bucket, prefix, region string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3_bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if key := os.Getenv("SHELF_S3_ACCESS_KEY"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, os.Getenv("SHELF_S3_SECRET_KEY"), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   strings.TrimSuffix(prefix, "/"),
	}, nil
}

// key returns the object key for an archive name.
func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Put uploads an archive. The upload manager splits large archives into
// multipart uploads automatically.
func (s *S3Store) Put(name string, r io.Reader, size int64) error {
	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("uploading archive: %w", err)
	}
	return nil
}

// Get downloads an archive by name and writes it to w.
func (s *S3Store) Get(name string, w io.Writer) error {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("archive not found: %s", name)
		}
		return fmt.Errorf("downloading archive: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading archive body: %w", err)
	}
	return nil
}

// List returns all stored archives, newest first.
func (s *S3Store) List() ([]library.ArchiveInfo, error) {
	var archives []library.ArchiveInfo

	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("listing archives: %w", err)
		}
		for _, obj := range page.Contents {
			info := library.ArchiveInfo{
				Name: strings.TrimPrefix(aws.ToString(obj.Key), listPrefix),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.CreatedAt = *obj.LastModified
			}
			archives = append(archives, info)
		}
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].CreatedAt.After(archives[j].CreatedAt)
	})
	return archives, nil
}

// ValidateSetup verifies that the bucket is reachable with the
// configured credentials.
func (s *S3Store) ValidateSetup() error {
	_, err := s.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket not accessible: %w", err)
	}
	return nil
}
