package storage_test

import (
	"context"
	"errors"
	"testing"

	"deluge-submit/core/storage"
	"deluge-submit/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "torrents",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "torrents").Return(true, nil)

		created, err := storage.EnsureBucket(ctx, client, "torrents", "")
		assert.NoError(t, err)
		assert.False(t, created)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "torrents").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "torrents", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		created, err := storage.EnsureBucket(ctx, client, "torrents", "eu-west-1")
		assert.NoError(t, err)
		assert.True(t, created)
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "torrents").Return(false, errors.New("access denied"))

		_, err := storage.EnsureBucket(ctx, client, "torrents", "")
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("CreateFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "torrents").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "torrents", mock.Anything).Return(errors.New("quota"))

		_, err := storage.EnsureBucket(ctx, client, "torrents", "")
		assert.ErrorContains(t, err, "failed to create bucket torrents")
	})
}
