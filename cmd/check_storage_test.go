package cmd

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-file-share-service/pkg/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerifyStorage_Local(t *testing.T) {
	store, err := storage.NewClient(&storage.Config{Type: storage.LOCAL, SavePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, verifyStorage(context.Background(), store))
}
