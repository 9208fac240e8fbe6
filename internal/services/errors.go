package services

import (
	"database/sql"
	"errors"

	"megano/internal/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidTransition = errors.New("order status change not allowed")
	ErrEmptyOrder        = errors.New("order has no lines")
	ErrBadCreds          = errors.New("invalid username or password")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrPasswordMismatch  = errors.New("new passwords do not match")
	ErrSaleConflict      = errors.New("product already has an active sale")
	ErrSalePrice         = errors.New("sale price exceeds product price")
	ErrSaleWindow        = errors.New("sale window is invalid")

	ErrCategoryCycle    = domain.ErrCategoryCycle
	ErrCategoryNotFound = domain.ErrCategoryNotFound
)

func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
