package products

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

func fromForm(form ProductForm) (Product, error) {
	if len(form.Variants) == 0 {
		return Product{}, fmt.Errorf("%w: product requires at least one variant", httpx.ErrValidation)
	}
	status := form.Status
	if status == "" {
		status = ProductStatusDraft
	}
	if status != ProductStatusDraft && status != ProductStatusPublished {
		return Product{}, fmt.Errorf("%w: unknown product status %q", httpx.ErrValidation, status)
	}

	product := Product{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Status:      status,
		TagIDs:      form.TagIDs,
	}
	for _, vf := range form.Variants {
		if vf.Price <= 0 {
			return Product{}, fmt.Errorf("%w: variant %q price must be positive", httpx.ErrValidation, vf.Title)
		}
		if vf.Stock < 0 {
			return Product{}, fmt.Errorf("%w: variant %q stock cannot be negative", httpx.ErrValidation, vf.Title)
		}
		v := Variant{
			Title:         vf.Title,
			Price:         vf.Price,
			Stock:         vf.Stock,
			LowStockAlert: vf.LowStockAlert,
			Color:         vf.Color,
			Images:        vf.Images,
		}
		if vf.ID != nil {
			v.ID = *vf.ID
		} else {
			v.ID = uuid.Nil
		}
		product.Variants = append(product.Variants, v)
	}
	return product, nil
}
