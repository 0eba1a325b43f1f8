package apierr

// Server envelope codes. The remote API owns this vocabulary; anything it
// grows that is not listed here degrades to Unknown.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
)

var kindByCode = map[string]Kind{
	CodeUnauthorized:    AuthRequired,
	CodeForbidden:       Forbidden,
	CodeNotFound:        NotFound,
	CodeValidationError: ValidationInvalid,
	CodeAlreadyExists:   AlreadyExists,
	CodeConflict:        Conflict,
	CodeInternalError:   NetworkOrServer,
}

// One fixed user-facing string per kind, shared by every wrapper so the UI
// text stays consistent.
var messages = map[Kind]string{
	NetworkOrServer:   "Đã có lỗi xảy ra, vui lòng thử lại sau",
	AuthRequired:      "Vui lòng đăng nhập để tiếp tục",
	Forbidden:         "Bạn không có quyền thực hiện thao tác này",
	NotFound:          "Không tìm thấy dữ liệu yêu cầu",
	ValidationInvalid: "Dữ liệu không hợp lệ",
	AlreadyExists:     "Dữ liệu đã tồn tại",
	Conflict:          "Thao tác bị xung đột, vui lòng thử lại",
	Unknown:           "Đã có lỗi xảy ra, vui lòng thử lại sau",
}

func messageFor(kind Kind) string {
	if m, ok := messages[kind]; ok {
		return m
	}
	return messages[Unknown]
}
