package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType 读取前 512 字节嗅探 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/png"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])
	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// ExtensionFor 返回证书图片对应的扩展名
func ExtensionFor(mimeType string) string {
	switch mimeType {
	case MimePNG:
		return ".png"
	case MimeJPEG:
		return ".jpg"
	default:
		return ""
	}
}
