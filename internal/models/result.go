package models

// BackupSummary holds the result of a backup run.
type BackupSummary struct {
	ArchiveCount int
	TotalBytes   int64
	Skipped      int // configured targets whose source directory was missing
}

// PruneSummary holds the result of a prune run.
type PruneSummary struct {
	DeletedCount int
	BytesFreed   int64
}
