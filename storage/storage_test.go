package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActArchiveKey(t *testing.T) {
	assert.Equal(t, "acts/7/abc.json", ActArchiveKey(7, "abc"))
}

func TestMemoryUploaderRoundTrip(t *testing.T) {
	u := NewMemoryUploader("https://cdn.example.org/league")

	res, err := u.Upload(context.Background(), "acts/7/abc.json", ContentTypeJSON, strings.NewReader(`{"id":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/league/acts/7/abc.json", res.Location)

	data, ok := u.Object("acts/7/abc.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"abc"}`, string(data))

	require.NoError(t, u.Delete(context.Background(), "acts/7/abc.json"))
	_, ok = u.Object("acts/7/abc.json")
	assert.False(t, ok)
}

func TestPublicURLWithoutBase(t *testing.T) {
	assert.Empty(t, NewMemoryUploader("").GetPublicURL("acts/1/x.json"))
}

func TestR2ConfigEnabled(t *testing.T) {
	assert.False(t, R2Config{AccountID: "acc"}.Enabled())
	assert.True(t, R2Config{AccountID: "a", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b"}.Enabled())
}
