// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	getErr  error
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3ProviderRoundTrip(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{}}
	p := NewS3Provider(api, "church-secrets", "churchsync")
	ctx := context.Background()

	_, err := p.Get(ctx, "token.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Put(ctx, "token.json", []byte(`{"access_token":"x"}`), "application/json"))
	assert.Contains(t, api.objects, "church-secrets/churchsync/token.json")

	data, err := p.Get(ctx, "token.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"x"}`, string(data))
}

func TestS3ProviderOtherErrorsAreNotNotFound(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{}, getErr: awserr.New("AccessDenied", "denied", nil)}
	_, err := NewS3Provider(api, "b", "").Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLocalProvider(t *testing.T) {
	p := NewLocalProvider(t.TempDir())
	ctx := context.Background()

	_, err := p.Get(ctx, "oauth/token.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Put(ctx, "oauth/token.json", []byte("tok"), ""))
	data, err := p.Get(ctx, "oauth/token.json")
	require.NoError(t, err)
	assert.Equal(t, "tok", string(data))

	_, err = p.Get(ctx, "../outside")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "ftp"})
	require.Error(t, err)

	p, err := New(Config{Provider: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalProvider{}, p)
}
