package service

import (
	"testing"

	"github.com/zakellyputra/contractpilot/config"
)

func TestNewMinioService(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "contracts",
		UseSSL:    false,
	}

	svc, err := NewMinioService(cfg)
	// NewMinioService only constructs the client; the connection is
	// exercised on first operation.
	if err != nil {
		t.Fatalf("NewMinioService failed: %v", err)
	}
	if svc == nil {
		t.Fatal("Expected non-nil service")
	}
	if svc.bucket != "contracts" {
		t.Errorf("Expected bucket contracts, got %s", svc.bucket)
	}
}

func TestObjectName(t *testing.T) {
	got := ObjectName("user-1", "rev-42", "lease.pdf")
	want := "user-1/rev-42/lease.pdf"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestMinioServiceOperations(t *testing.T) {
	// Upload, presign and delete need a live MinIO endpoint.
	t.Skip("MinIO operations require a running MinIO instance")
}
