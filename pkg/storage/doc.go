// Package storage uploads campaign reports to S3-compatible object storage
// (AWS S3, MinIO, R2, ...).
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "mail-reports",
//		AccessKey: os.Getenv("MAILMERGE_S3_ACCESS_KEY"),
//		SecretKey: os.Getenv("MAILMERGE_S3_SECRET_KEY"),
//		Endpoint:  "http://localhost:9000",
//		PathStyle: true,
//		Prefix:    "mailmerge",
//	})
//
//	info, err := store.Put(ctx, "reports/c1/output.csv", r, size, "text/csv")
//	link, err := store.URL(ctx, info.Key, time.Hour)
//
// Errors wrap the sentinels in errors.go; test them with errors.Is.
package storage
