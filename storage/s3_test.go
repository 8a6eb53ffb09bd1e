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
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style S3 endpoint holding objects in memory.
type fakeS3 struct {
	mu       sync.Mutex
	buckets  map[string]bool
	objects  map[string][]byte
	types    map[string]string
	requests []string
}

func newFakeS3(buckets ...string) *fakeS3 {
	f := &fakeS3{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
	for _, b := range buckets {
		f.buckets[b] = true
	}
	return f
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	f.requests = append(f.requests, r.Method+" "+path)

	if !f.buckets[bucket] {
		w.WriteHeader(http.StatusNotFound)
		if r.Method != http.MethodHead {
			_, _ = io.WriteString(w, `<Error><Code>NoSuchBucket</Code><Message>missing</Message></Error>`)
		}
		return
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key != "":
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		f.types[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && key != "":
		body, ok := f.objects[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, handler http.Handler) *S3Store {
	t.Helper()
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewS3Store(context.Background(),
		WithS3Region("us-east-1"),
		WithS3Endpoint(server.URL),
		WithS3PathStyle(true),
		WithS3Credentials(aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"}),
	)
	require.NoError(t, err)
	return store
}

func TestS3Store_HeadBucket(t *testing.T) {
	fake := newFakeS3("asteroid-files")
	store := newTestStore(t, fake)

	require.NoError(t, store.HeadBucket(context.Background(), "asteroid-files"))

	err := store.HeadBucket(context.Background(), "no-such-bucket")
	require.Error(t, err)
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "head_bucket", storageErr.Op)
	assert.Equal(t, "no-such-bucket", storageErr.Bucket)
	assert.Contains(t, err.Error(), "s3://no-such-bucket")
}

func TestS3Store_PutAndGetObject(t *testing.T) {
	fake := newFakeS3("asteroid-files")
	store := newTestStore(t, fake)
	ctx := context.Background()

	csvData := []byte("pdes,dv,H,a,e,i\n2000 SG344,3.556,24.70,0.977,0.0670,0.110\n")
	require.NoError(t, store.PutObject(ctx, "asteroid-files", "benner_deltav.csv", csvData))

	fake.mu.Lock()
	assert.Equal(t, csvData, fake.objects["asteroid-files/benner_deltav.csv"])
	assert.Equal(t, "text/csv", fake.types["asteroid-files/benner_deltav.csv"])
	fake.mu.Unlock()

	// overwrite
	require.NoError(t, store.PutObject(ctx, "asteroid-files", "benner_deltav.csv", []byte("pdes,dv,H,a,e,i\n")))

	got, err := store.GetObject(ctx, "asteroid-files", "benner_deltav.csv")
	require.NoError(t, err)
	assert.Equal(t, "pdes,dv,H,a,e,i\n", string(got))
}

func TestS3Store_Errors(t *testing.T) {
	fake := newFakeS3("asteroid-files")
	store := newTestStore(t, fake)
	ctx := context.Background()

	var storageErr *StorageError

	err := store.PutObject(ctx, "missing", "k.csv", []byte("x"))
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "put_object", storageErr.Op)
	assert.Equal(t, "k.csv", storageErr.Key)

	_, err = store.GetObject(ctx, "asteroid-files", "absent.csv")
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "get_object", storageErr.Op)
}

func TestStorageError_Format(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, "storage create_aws_config: boom", (&StorageError{Op: "create_aws_config", Err: base}).Error())
	assert.Equal(t, "storage put_object s3://b/k: boom", (&StorageError{Op: "put_object", Bucket: "b", Key: "k", Err: base}).Error())
	assert.ErrorIs(t, &StorageError{Op: "x", Err: base}, base)
}
