//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Benner.
//
// Benner is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Benner is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Benner. If not, see https://www.gnu.org/licenses/.

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Package storage provides the object-storage side of the job: a bucket
// existence check, a whole-object upload and a whole-object download.

// ObjectStore is the subset of object-storage operations the job needs.
type ObjectStore interface {
	// HeadBucket returns nil when the bucket exists and is reachable.
	HeadBucket(ctx context.Context, bucket string) error
	// PutObject writes data to bucket/key, overwriting any existing object.
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	// GetObject returns the full content of bucket/key.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// StorageError provides structured error information for object-storage operations.
type StorageError struct {
	Op     string // "create_aws_config", "head_bucket", "put_object", "get_object", "read_object"
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("storage %s s3://%s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// S3StoreOptions configures the S3 client.
type S3StoreOptions struct {
	Region         string          // AWS region
	Profile        string          // shared config profile
	Credentials    aws.Credentials // explicit credentials, ambient chain when empty
	EndpointURL    string          // custom endpoint for S3-compatible services
	ForcePathStyle bool            // path-style addressing
	ContentType    string          // content type of uploaded objects
}

// StoreOptionS3 is a functional option for S3StoreOptions.
type StoreOptionS3 func(*S3StoreOptions)

func WithS3Region(region string) StoreOptionS3 {
	return func(opts *S3StoreOptions) {
		opts.Region = region
	}
}

func WithS3Profile(profile string) StoreOptionS3 {
	return func(opts *S3StoreOptions) {
		opts.Profile = profile
	}
}

func WithS3Credentials(creds aws.Credentials) StoreOptionS3 {
	return func(opts *S3StoreOptions) {
		opts.Credentials = creds
	}
}

func WithS3Endpoint(endpoint string) StoreOptionS3 {
	return func(opts *S3StoreOptions) {
		opts.EndpointURL = endpoint
	}
}

func WithS3PathStyle(pathStyle bool) StoreOptionS3 {
	return func(opts *S3StoreOptions) {
		opts.ForcePathStyle = pathStyle
	}
}

func WithS3ContentType(contentType string) StoreOptionS3 {
	return func(opts *S3StoreOptions) {
		opts.ContentType = contentType
	}
}

// S3Store implements ObjectStore on Amazon S3 or an S3-compatible service.
type S3Store struct {
	client *s3.Client
	opts   S3StoreOptions
}

// NewS3Store builds an S3 client from the ambient AWS configuration plus options.
func NewS3Store(ctx context.Context, options ...StoreOptionS3) (*S3Store, error) {
	opts := S3StoreOptions{
		ContentType: "text/csv",
	}
	for _, option := range options {
		option(&opts)
	}

	cfg, err := createAWSConfig(ctx, opts)
	if err != nil {
		return nil, &StorageError{Op: "create_aws_config", Err: err}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.ForcePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Store{client: client, opts: opts}, nil
}

// HeadBucket implements ObjectStore with a metadata-only HeadBucket call.
func (s *S3Store) HeadBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return &StorageError{Op: "head_bucket", Bucket: bucket, Err: err}
	}
	return nil
}

// PutObject implements ObjectStore.
func (s *S3Store) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(s.opts.ContentType),
	})
	if err != nil {
		return &StorageError{Op: "put_object", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

// GetObject implements ObjectStore.
func (s *S3Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &StorageError{Op: "get_object", Bucket: bucket, Key: key, Err: err}
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, &StorageError{Op: "read_object", Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}

// createAWSConfig loads the default AWS configuration and applies overrides.
func createAWSConfig(ctx context.Context, opts S3StoreOptions) (aws.Config, error) {
	configOpts := []func(*config.LoadOptions) error{}

	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}

	if opts.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, err
	}

	if opts.Credentials.AccessKeyID != "" {
		cfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				opts.Credentials.AccessKeyID,
				opts.Credentials.SecretAccessKey,
				opts.Credentials.SessionToken,
			),
		)
	}

	return cfg, nil
}
