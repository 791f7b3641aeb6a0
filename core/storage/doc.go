// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so spreadsheet sources can live in a bucket
// instead of on the local filesystem. This abstraction supports both AWS S3
// and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface exposes only the operations the source readers need
// (existence check, download, stat), which keeps it easy to fake in tests.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	body, err := client.GetObject(ctx, "sheets", "team/schedule.xlsx", minio.GetObjectOptions{})
package storage
