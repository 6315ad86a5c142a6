package watermark

import "fmt"

// ConfigurationError 水印参数无法解析（颜色格式错误、属性值无法转换等）。
// 数值越界不会产生该错误，而是静默回退到默认值。
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("watermark config error in field '%s': %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("watermark config error in field '%s': %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func newConfigError(field, message string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}
