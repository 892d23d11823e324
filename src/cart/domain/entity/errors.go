package entity

import "errors"

var (
	ErrSKURequired         = errors.New("sku is required")
	ErrProductNameRequired = errors.New("product_name is required")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
	ErrInvalidPrice        = errors.New("price must be greater than or equal to 0")
	ErrInvalidDiscount     = errors.New("discount must be greater than or equal to 0")
	ErrItemNotFound        = errors.New("item not found in cart")
	ErrWeightRequired      = errors.New("weighed product requires explicit weight entry")
	ErrNotWeighedProduct   = errors.New("product is not sold by weight")
)
