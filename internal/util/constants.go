package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// 证书图片上限 5MB
const MaxCertificateImageSize = 5 << 20

// gin 上下文中的键
const (
	CtxUser   = "user"
	CtxUserID = "userID"
)
