package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIdempotencyKeyRequired возвращается хранилищем, если ключ пустой.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyKeyAlreadyExists сигнализирует, что ключ уже был записан ранее.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists возвращается при повторном создании заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrCountOverflow: накопленное количество позиции превышает допустимое.
	ErrCountOverflow = errors.New("line item count overflows int64")
	// ErrInvalidPrice: цена не является корректным неотрицательным десятичным числом.
	ErrInvalidPrice = errors.New("price must be a non-negative decimal")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsIdempotencyConflict проверяет, что ключ идемпотентности уже использован.
func IsIdempotencyConflict(err error) bool {
	return errors.Is(err, ErrIdempotencyKeyAlreadyExists)
}

// ErrorKind перечисляет виды бизнес-ошибок, видимые клиенту API.
type ErrorKind string

const (
	KindInvalidKey        ErrorKind = "InvalidKey"
	KindDuplicateKey      ErrorKind = "DuplicateKey"
	KindOrderNotFound     ErrorKind = "OrderNotFound"
	KindProductNotFound   ErrorKind = "ProductNotFound"
	KindInvalidCount      ErrorKind = "InvalidCount"
	KindInvalidPagination ErrorKind = "InvalidPagination"
	KindInvalidExpiryDate ErrorKind = "InvalidExpiryDate"
	KindInvalidRequest    ErrorKind = "InvalidRequest"
	KindInternal          ErrorKind = "Internal"
)

// Коды ошибок в теле ответа API.
const (
	CodeDataValidation     = "DataValidationError"
	CodeBusinessValidation = "BusinessValidationError"
	CodeInternal           = "InternalError"
)

// Code возвращает код ошибки для тела ответа.
func (k ErrorKind) Code() string {
	switch k {
	case KindDuplicateKey, KindOrderNotFound, KindProductNotFound:
		return CodeBusinessValidation
	case KindInternal, "":
		return CodeInternal
	default:
		return CodeDataValidation
	}
}

// Сообщения бизнес-ошибок, которые отдаются клиенту как есть.
const (
	MsgInvalidKey           = "Invalid Idempotency Key, should not be empty."
	MsgDuplicateKey         = "Invalid Idempotency Key, already exists."
	MsgOrderNotFound        = "Invalid Order id, requested order id not exists in our system."
	MsgOrderProductNotFound = "Invalid Product id, requested product id not exists in our system."
	MsgProductNotFound      = "Requested product not exists in our system."
	MsgInvalidCount         = "Invalid item count, should be a positive number."
	MsgCountTooLarge        = "Invalid item count, total quantity of the product is too large."
	MsgInvalidPageNo        = "Validation error : pageNo should be a valid positive number."
	MsgInvalidPageSize      = "Validation error : pageSize should be a valid positive number."
	MsgInvalidExpiryDate    = "Invalid News expiryDate, should be a valid future date."
	MsgInvalidProductName   = "Invalid product name, should not be empty."
	MsgInvalidProductPrice  = "Invalid product price, should be a valid non-negative decimal."
	MsgInvalidNewsTitle     = "Invalid News title, should not be empty."
	MsgInvalidRequestBody   = "Invalid request body, kindly verify the payload."
	MsgInternal             = "Internal server error, kindly retry later."
)

// BusinessError: единый тип ошибки сценария: вид, сообщение для клиента и причина.
type BusinessError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewBusinessError создаёт бизнес-ошибку без внутренней причины.
func NewBusinessError(kind ErrorKind, message string) *BusinessError {
	return &BusinessError{Kind: kind, Message: message}
}

// Internal оборачивает непредвиденную ошибку инфраструктуры.
func Internal(err error) *BusinessError {
	return &BusinessError{Kind: KindInternal, Message: MsgInternal, Err: err}
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// KindOf извлекает вид ошибки; всё, что не BusinessError, считается внутренней ошибкой.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// AsBusinessError приводит любую ошибку к BusinessError.
func AsBusinessError(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return Internal(err)
}
