package checks

import (
	"context"
	"errors"
	"testing"

	"deluge-submit/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestCheckStorage(t *testing.T) {
	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(false, nil)

		_, err := CheckStorage(context.Background(), mockClient, "torrents", "staged")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Bucket Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(false, errors.New("dial tcp: refused"))

		_, err := CheckStorage(context.Background(), mockClient, "torrents", "staged")
		assert.ErrorContains(t, err, "refused")
	})

	t.Run("Counts Objects", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "torrents", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "staged/" && opts.Recursive
		})).Return(objects("staged/a.torrent", "staged/b.torrent"))

		report, err := CheckStorage(context.Background(), mockClient, "torrents", "staged")
		require.NoError(t, err)
		assert.Equal(t, 2, report.Objects)
		assert.Equal(t, "torrents", report.Bucket)
	})

	t.Run("List Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(true, nil)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("access denied")}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "torrents", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := CheckStorage(context.Background(), mockClient, "torrents", "")
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestFixStorage(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Creates Missing Bucket", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "torrents", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		err := FixStorage(context.Background(), mockClient, "torrents", "eu-west-1", logger)
		assert.NoError(t, err)
		mockClient.AssertNumberOfCalls(t, "MakeBucket", 1)
	})

	t.Run("Existing Bucket", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(true, nil)

		err := FixStorage(context.Background(), mockClient, "torrents", "", logger)
		assert.NoError(t, err)
		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Create Failure", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "torrents", mock.Anything).Return(errors.New("quota"))

		err := FixStorage(context.Background(), mockClient, "torrents", "", logger)
		assert.ErrorContains(t, err, "quota")
	})
}
