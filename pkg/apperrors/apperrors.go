package apperrors

import "errors"

// 业务错误分类：Handler 层按 Kind 映射 HTTP 状态码，
// Service 层通过构造函数定义哨兵错误值，调用方用 errors.Is 判等。

// Kind 错误类别
type Kind int

const (
	// KindUnknown 非业务错误（基础设施故障等）
	KindUnknown Kind = iota
	// KindValidation 输入数据缺失或格式非法
	KindValidation
	// KindNotFound 实体不存在或不在要求的范围内
	KindNotFound
	// KindStateConflict 当前状态下操作不合法（容量已满、重复报名、非法流转）
	KindStateConflict
	// KindIntegrity 数据完整性被破坏（如组织树成环），不应在合法输入下出现
	KindIntegrity
)

// Error 携带类别与可展示消息的业务错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation 构造输入校验错误
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound 构造实体不存在错误
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// StateConflict 构造状态冲突错误
func StateConflict(message string) *Error {
	return &Error{Kind: KindStateConflict, Message: message}
}

// Integrity 构造完整性错误
func Integrity(message string) *Error {
	return &Error{Kind: KindIntegrity, Message: message}
}

// KindOf 返回错误的业务类别；非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
