package imagestore

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCloudinary struct {
	mock.Mock
}

func (m *MockCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(ctx, file, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uploader.UploadResult), args.Error(1)
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	img := Image{Filename: "a.png", ContentType: "image/png", Body: []byte("data")}
	params := uploader.UploadParams{Folder: "products"}

	t.Run("success", func(t *testing.T) {
		api := new(MockCloudinary)
		api.On("Upload", mock.Anything, mock.Anything, params).
			Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/products/a.png"}, nil).Once()
		u := &CloudinaryUploader{api: api, folder: "products"}

		url, err := u.Upload(context.Background(), img)
		require.NoError(t, err)
		assert.Equal(t, "https://res.cloudinary.com/x/products/a.png", url)
		api.AssertExpectations(t)
	})

	t.Run("transport error", func(t *testing.T) {
		api := new(MockCloudinary)
		api.On("Upload", mock.Anything, mock.Anything, params).Return(nil, errors.New("timeout")).Once()
		u := &CloudinaryUploader{api: api, folder: "products"}

		_, err := u.Upload(context.Background(), img)
		assert.ErrorContains(t, err, "timeout")
	})

	t.Run("api error in result", func(t *testing.T) {
		api := new(MockCloudinary)
		res := &uploader.UploadResult{}
		res.Error.Message = "Invalid API key"
		api.On("Upload", mock.Anything, mock.Anything, params).Return(res, nil).Once()
		u := &CloudinaryUploader{api: api, folder: "products"}

		_, err := u.Upload(context.Background(), img)
		assert.ErrorContains(t, err, "Invalid API key")
	})
}
