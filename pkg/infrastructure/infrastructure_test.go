package infrastructure

import (
	"strings"
	"testing"
	"time"

	"resume-builder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceipt(t *testing.T) {
	body, err := RenderReceipt(usecase.Receipt{
		To:        "a@b.io",
		Name:      "Asha <Rao>",
		PlanName:  "Pro",
		Amount:    29900,
		Currency:  "INR",
		OrderID:   "order_1",
		PaymentID: "pay_1",
		ExpiresAt: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, body, "INR 299.00")
	assert.Contains(t, body, "04 Mar 2026")
	assert.Contains(t, body, "Asha &lt;Rao&gt;")
}

func TestObjectStorageURL(t *testing.T) {
	s, err := NewObjectStorage(StorageConfig{Bucket: "photos", AccessKey: "k", SecretKey: "s", Endpoint: "http://localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.r2.dev/a/b.png", s.URL("/a/b.png"))

	s, err = NewObjectStorage(StorageConfig{Bucket: "photos", PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.URL("x.png"), "https://cdn.example.com/x.png"))

	_, err = NewObjectStorage(StorageConfig{})
	assert.Error(t, err)
}

func TestNewChromedpRendererDefaultsTimeout(t *testing.T) {
	r := NewChromedpRenderer("", 0)
	assert.Equal(t, 60*time.Second, r.Timeout)
}
