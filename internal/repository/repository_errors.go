package repository

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOrderNotFound         = errors.New("order not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrWishlistItemNotFound  = errors.New("wishlist item not found")
	ErrTokenNotFound         = errors.New("reset token invalid or expired")
)
