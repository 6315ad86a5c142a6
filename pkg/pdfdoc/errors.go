package pdfdoc

import (
	"errors"
	"fmt"
)

// DocumentIOError 表示文档无法加载、页面无法写入/复制或结果无法序列化。
// 对单次请求而言是终止性错误，不做重试。
type DocumentIOError struct {
	Op   string // 失败的操作，例如 "load"、"save"、"stamp"
	Page int    // 相关页码（从 1 开始），0 表示与具体页面无关
	Err  error
}

func (e *DocumentIOError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("pdf %s (page %d): %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("pdf %s: %v", e.Op, e.Err)
}

func (e *DocumentIOError) Unwrap() error {
	return e.Err
}

// WrapIO 将 err 包装为 DocumentIOError；已经是 DocumentIOError 的错误原样返回
func WrapIO(op string, page int, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *DocumentIOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &DocumentIOError{Op: op, Page: page, Err: err}
}

// IsDocumentIO 判断错误链中是否包含 DocumentIOError
func IsDocumentIO(err error) bool {
	var ioErr *DocumentIOError
	return errors.As(err, &ioErr)
}
