package media

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPresignerDisabledWithoutBucket(t *testing.T) {
	p, err := NewPresigner(context.Background(), Config{Region: "us-east-1"})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPresignPut(t *testing.T) {
	p, err := NewPresigner(context.Background(), Config{
		Bucket:    "place-images",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
		Expires:   5 * time.Minute,
	})
	require.NoError(t, err)
	require.NotNil(t, p)

	raw, err := p.PresignPut(context.Background(), "places/abc/front.jpg")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/place-images/places/abc/front.jpg", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestImageKey(t *testing.T) {
	assert.Equal(t, "places/p1/front.jpg", ImageKey("p1", "front.jpg"))
	assert.Equal(t, "places/p1/passwd", ImageKey("p1", "../../etc/passwd"))
	assert.Equal(t, "places/p1/x.png", ImageKey("p1", `C:\tmp\x.png`))
	assert.Equal(t, "places/p1/p1", ImageKey("p1", ""))
}
