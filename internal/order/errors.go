package order

import "net/http"

type ErrorCode string

const (
	ErrOrderValidation     ErrorCode = "ORDER_VALIDATION_ERROR"
	ErrOrderStateConflict  ErrorCode = "ORDER_STATE_CONFLICT"
	ErrOrderInvalidState   ErrorCode = "ORDER_INVALID_STATE"
	ErrOrderLineNotFound   ErrorCode = "ORDER_LINE_NOT_FOUND"
	ErrShopTypeUnknown     ErrorCode = "SHOP_TYPE_UNKNOWN"
	ErrShopTypeUnsupported ErrorCode = "SHOP_TYPE_UNSUPPORTED"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code ErrorCode, message string, status int) *Error {
	return &Error{Code: code, Message: message, StatusCode: status}
}

// ValidationError marks malformed operator input. Nothing is sent upstream.
func ValidationError(message string) *Error {
	return newError(ErrOrderValidation, message, http.StatusBadRequest)
}

// StateConflictError marks an action attempted on a line or order whose
// status forbids it. Nothing is sent upstream.
func StateConflictError(message string) *Error {
	return newError(ErrOrderStateConflict, message, http.StatusConflict)
}

// InvalidStateError marks an operation that requires a persisted order,
// such as finalizing a bill for an order that was never sent to the kitchen.
func InvalidStateError(message string) *Error {
	return newError(ErrOrderInvalidState, message, http.StatusConflict)
}

func LineNotFoundError(lineID string) *Error {
	return newError(ErrOrderLineNotFound, "Order line not found: "+lineID, http.StatusNotFound)
}
