package orders

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

// VariantNotFoundError names the missing variant of a rejected cart line.
type VariantNotFoundError struct {
	VariantID uuid.UUID
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant %s not found", e.VariantID)
}

func (e *VariantNotFoundError) Unwrap() error { return httpx.ErrNotFound }

// InsufficientStockError names the offending variant and the quantity left.
type InsufficientStockError struct {
	Title     string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: only %d available", e.Title, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return httpx.ErrInsufficientStock }
