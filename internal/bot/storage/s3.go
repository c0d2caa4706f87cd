package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// rejectHidden refuses destructive operations on the bot's own objects.
// Hidden objects are written only through the auth store's Upload path;
// Remove and Move never have a legitimate hidden target.
func rejectHidden(path string) error {
	if strings.HasPrefix(path, HiddenPrefix) {
		return fmt.Errorf("%s is reserved: %w", path, common.ErrorUnauthorized)
	}
	return nil
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config carries the settings for the S3-compatible backend (MinIO,
// Supabase Storage, AWS).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
	// PublicBaseURL overrides the base for PublicURL; when empty, the URL is
	// derived from BaseEndpoint in path style.
	PublicBaseURL string
}

type S3Repository struct {
	cfg    S3Config
	client *s3.Client
}

func NewS3Repository(ctx context.Context, cfg S3Config) (*S3Repository, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,     // MINIO_ROOT_USER
			cfg.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Repository{cfg: cfg, client: client}, nil
}

func (r *S3Repository) List(ctx context.Context, prefix string) ([]models.StoredObject, error) {
	var objects []models.StoredObject

	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.cfg.Bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasPrefix(key, HiddenPrefix) {
				continue
			}
			objects = append(objects, models.StoredObject{
				Path:      key,
				SizeBytes: aws.ToInt64(obj.Size),
				CreatedAt: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}

func (r *S3Repository) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.cfg.Bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}

func (r *S3Repository) Download(ctx context.Context, path string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.cfg.Bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (r *S3Repository) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	ids := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		if err := rejectHidden(p); err != nil {
			return err
		}
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(p)})
	}
	_, err := r.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(r.cfg.Bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("remove %d objects: %w", len(paths), err)
	}
	return nil
}

func (r *S3Repository) Move(ctx context.Context, oldPath, newPath string) error {
	if err := rejectHidden(oldPath); err != nil {
		return err
	}
	if err := rejectHidden(newPath); err != nil {
		return err
	}
	source := r.cfg.Bucket + "/" + oldPath
	_, err := r.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(r.cfg.Bucket),
		CopySource: aws.String(url.PathEscape(source)),
		Key:        aws.String(newPath),
	})
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", oldPath, newPath, err)
	}
	return r.Remove(ctx, []string{oldPath})
}

func (r *S3Repository) PublicURL(path string) string {
	base := r.cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(r.cfg.BaseEndpoint, "/") + "/" + r.cfg.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(path)
}

func (r *S3Repository) PresignedGetURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := presignGetObject(newS3PresignClient(r.client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.cfg.Bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", path, err)
	}
	return req.URL, nil
}
