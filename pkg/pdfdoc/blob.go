package pdfdoc

import "bytes"

// Blob 带文件名和媒体类型的文档内容
type Blob struct {
	Data     []byte
	FileName string
	MimeType string
}

// NewBlob 创建 PDF Blob，Data 会被复制
func NewBlob(data []byte, fileName string) *Blob {
	return &Blob{Data: bytes.Clone(data), FileName: fileName, MimeType: MimeType}
}
