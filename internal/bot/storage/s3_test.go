package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

func testRepo(t *testing.T) *S3Repository {
	t.Helper()
	repo, err := NewS3Repository(context.Background(), S3Config{
		RootUser:     "minioadmin",
		RootPassword: "minioadmin",
		Bucket:       "public-files",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	return repo
}

func TestPublicURL_PathStyleFromEndpoint(t *testing.T) {
	repo := testRepo(t)

	assert.Equal(t,
		"http://127.0.0.1:9000/public-files/report.pdf",
		repo.PublicURL("report.pdf"))
}

func TestPublicURL_EscapesPath(t *testing.T) {
	repo := testRepo(t)

	assert.Equal(t,
		"http://127.0.0.1:9000/public-files/my%20report.pdf",
		repo.PublicURL("my report.pdf"))
}

func TestPublicURL_OverrideBase(t *testing.T) {
	repo, err := NewS3Repository(context.Background(), S3Config{
		Bucket:        "public-files",
		Region:        "us-east-1",
		PublicBaseURL: "https://cdn.example.com/files/",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/files/a.txt", repo.PublicURL("a.txt"))
}

func TestRemove_EmptyListIsNoop(t *testing.T) {
	repo := testRepo(t)

	// must not touch the network at all
	assert.NoError(t, repo.Remove(context.Background(), nil))
}

func TestRemove_HiddenPrefixRejected(t *testing.T) {
	repo := testRepo(t)

	// rejected before any network call
	err := repo.Remove(context.Background(), []string{"a.txt", HiddenPrefix + "auth.json"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestMove_HiddenPrefixRejected(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	err := repo.Move(ctx, "a.txt", HiddenPrefix+"auth.json")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = repo.Move(ctx, HiddenPrefix+"auth.json", "a.txt")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
