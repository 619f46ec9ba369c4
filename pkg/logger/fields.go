package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldFileID 文件 ID 字段
	FieldFileID = "fileId"

	// FieldFileName 原始文件名字段
	FieldFileName = "fileName"

	// FieldDigest 内容摘要字段
	FieldDigest = "digest"

	// FieldSize 文件大小字段
	FieldSize = "size"

	// FieldShareID 分享 ID 字段
	FieldShareID = "shareId"

	// FieldRecipient 收件人字段
	FieldRecipient = "recipient"

	// FieldFileKey 存储键字段
	FieldFileKey = "fileKey"
)
