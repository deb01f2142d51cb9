package serverutils

// Response is the standard success envelope returned by every handler.
type Response[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *ErrResponse {
	return &ErrResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	}
}
