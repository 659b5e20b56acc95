package service

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMerchandiseMissing = errors.New("merchandise no longer exists")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrSignatureInvalid   = errors.New("payment callback signature invalid")
	ErrPaymentFailed      = errors.New("payment failed")
)
