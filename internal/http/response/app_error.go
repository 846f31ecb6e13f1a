package response

// AppError 业务错误：业务码 + 稳定的文案 key + 本地化文案
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Key + ": " + e.Message
	}
	return e.Key + ": " + e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError 构造不带原始错误的业务错误
func NewError(code int, key, message string) *AppError {
	return &AppError{Code: code, Key: key, Message: message}
}

// WrapError 包装原始错误，原始错误只写日志不返回给调用方
func WrapError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
