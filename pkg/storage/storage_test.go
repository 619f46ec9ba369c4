package storage_test

import (
	"testing"

	"github.com/haierkeys/fast-file-share-service/pkg/storage"
	"github.com/haierkeys/fast-file-share-service/pkg/storage/local_fs"
	"github.com/haierkeys/fast-file-share-service/pkg/storage/minio"
)

func TestNewClient_Local(t *testing.T) {
	cfg := &storage.Config{
		Type:     storage.LOCAL,
		SavePath: t.TempDir(),
	}

	client, err := storage.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create local client: %v", err)
	}

	if client == nil {
		t.Fatal("Client is nil")
	}

	if _, ok := client.(*local_fs.LocalFS); !ok {
		t.Fatal("Client is not *local_fs.LocalFS")
	}
}

func TestNewClient_Invalid(t *testing.T) {
	cfg := &storage.Config{
		Type: "invalid",
	}

	_, err := storage.NewClient(cfg, nil)
	if err == nil {
		t.Fatal("Expected error for invalid storage type")
	}
}

func TestNewClient_Nil(t *testing.T) {
	if _, err := storage.NewClient(nil, nil); err == nil {
		t.Fatal("Expected error for nil config")
	}
}

// minio.New only parses the endpoint, no connection is made
func TestNewClient_MinIO(t *testing.T) {
	cfg := &storage.Config{
		Type:            storage.MinIO,
		Endpoint:        "https://minio.example.com:9000/",
		BucketName:      "shares",
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
	}

	client, err := storage.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create minio client: %v", err)
	}

	m, ok := client.(*minio.MinIO)
	if !ok {
		t.Fatal("Client is not *minio.MinIO")
	}
	if m.Client.EndpointURL().Host != "minio.example.com:9000" {
		t.Fatalf("unexpected endpoint %q", m.Client.EndpointURL().Host)
	}
}
