package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePDF         = "application/pdf"
	MimeMarkdown    = "text/markdown"
	MimeOctetStream = "application/octet-stream"
)

const (
	NoteFilePrefix = "notes/"
	MaxNoteFileMB  = 20
)
