// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for post
// cover images. It wraps the AWS SDK v2 and is configured for path-style
// access so it works against MinIO, Ceph and Supabase Storage alike.
package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// coverPrefix is the folder all cover images live under.
const coverPrefix = "private/"

// presignTTL is how long a generated cover URL stays valid when no public
// base URL is configured.
const presignTTL = time.Hour

// Config holds the connection settings for the object store.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN/direct URL for the bucket
}

// Client stores cover images in a single bucket.
type Client struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	publicURL string
}

// New creates a storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, nil
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		presigner: s3.NewPresignClient(s3Client),
		bucket:    cfg.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// CoverKey returns the content-addressed key for an image: the same bytes
// always map to the same key.
func CoverKey(data []byte) string {
	sum := md5.Sum(data)
	return coverPrefix + hex.EncodeToString(sum[:])
}

// PutCover uploads an image under its content-addressed key and returns the
// key. Uploading identical bytes again overwrites the same object.
func (c *Client) PutCover(ctx context.Context, data []byte, contentType string) (string, error) {
	key := CoverKey(data)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return key, nil
}

// CoverURL returns a URL a browser can load the cover from. With a public
// base URL configured this is a plain link; otherwise it is a pre-signed
// GET valid for an hour.
func (c *Client) CoverURL(ctx context.Context, key string) (string, error) {
	if c.publicURL != "" {
		return c.publicURL + "/" + key, nil
	}

	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", c.bucket, key, err)
	}
	return req.URL, nil
}

// Bucket returns the name of the cover image bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
