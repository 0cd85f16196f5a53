// Package s3store keeps the todo list as one JSON object in an S3-compatible
// bucket (AWS S3 or MinIO).
package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultKey is the object key used when none is configured.
const DefaultKey = "tada/todos.json"

// ObjectAPI is the subset of *s3.Client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds connection parameters. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // optional, for MinIO and friends
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Object is an entity.SnapshotStore over a single S3 object.
type Object struct {
	api    ObjectAPI
	bucket string
	key    string
}

// NewObject returns a snapshot store using api. key defaults to DefaultKey.
func NewObject(api ObjectAPI, bucket, key string) *Object {
	if key == "" {
		key = DefaultKey
	}
	return &Object{api: api, bucket: bucket, key: key}
}

// Open builds an S3 client from cfg and returns an entity client over it.
func Open(ctx context.Context, cfg Config) (*entity.SnapshotClient, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return entity.NewSnapshotClient(NewObject(client, cfg.Bucket, cfg.Key)), nil
}

func (o *Object) Read(ctx context.Context) ([]model.Item, error) {
	out, err := o.api.GetObject(ctx, &s3.GetObjectInput{Bucket: &o.bucket, Key: &o.key})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("get object %s: %w", o.key, err)
	}
	defer func() { _ = out.Body.Close() }()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", o.key, err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}

func (o *Object) Write(ctx context.Context, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	_, err = o.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &o.bucket,
		Key:           &o.key,
		Body:          bytes.NewReader(b),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(b))),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", o.key, err)
	}
	return nil
}
