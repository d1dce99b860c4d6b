package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/db"
	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	GetVariant(ctx context.Context, id uuid.UUID) (Variant, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
	CountOrderReferences(ctx context.Context, id int64) (int, error)
	ListLowStock(ctx context.Context) ([]LowStockVariant, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const variantColumns = `id, product_id, title, price, stock, low_stock_alert, color, images`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	query := `SELECT id, name, description, category_id, status, created_at, updated_at FROM products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	clause := ""
	if filters.CategoryID != nil {
		argCount++
		clause += ` AND category_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CategoryID)
	}
	if filters.Search != "" {
		argCount++
		clause += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != nil {
		argCount++
		clause += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += clause + ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range items {
		variants, err := r.variantsOf(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
		items[i].Variants = variants
	}
	return items, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, category_id, status, created_at, updated_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}

	p.Variants, err = r.variantsOf(ctx, id)
	if err != nil {
		return Product{}, err
	}

	tagRows, err := r.db.Query(ctx, `SELECT tag_id FROM product_tags WHERE product_id = $1 ORDER BY tag_id`, id)
	if err != nil {
		return Product{}, err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tagID int64
		if err := tagRows.Scan(&tagID); err != nil {
			return Product{}, err
		}
		p.TagIDs = append(p.TagIDs, tagID)
	}
	return p, tagRows.Err()
}

func (r *repository) variantsOf(ctx context.Context, productID int64) ([]Variant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE product_id = $1 ORDER BY title`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Title, &v.Price, &v.Stock, &v.LowStockAlert, &v.Color, &v.Images); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func (r *repository) GetVariant(ctx context.Context, id uuid.UUID) (Variant, error) {
	var v Variant
	err := r.db.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id).
		Scan(&v.ID, &v.ProductID, &v.Title, &v.Price, &v.Stock, &v.LowStockAlert, &v.Color, &v.Images)
	if errors.Is(err, pgx.ErrNoRows) {
		return Variant{}, httpx.ErrNotFound
	}
	return v, err
}

func (r *repository) Create(ctx context.Context, product Product) (int64, error) {
	var productID int64
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		now := time.Now()
		if err := tx.QueryRow(ctx,
			`INSERT INTO products (name, description, category_id, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
			product.Name, product.Description, product.CategoryID, product.Status, now).Scan(&productID); err != nil {
			return err
		}
		for _, v := range product.Variants {
			if err := insertVariant(ctx, tx, productID, v); err != nil {
				return err
			}
		}
		return replaceTags(ctx, tx, productID, product.TagIDs)
	})
	return productID, err
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx,
			`UPDATE products SET name = $1, description = $2, category_id = $3, status = $4, updated_at = $5 WHERE id = $6`,
			product.Name, product.Description, product.CategoryID, product.Status, time.Now(), id)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}

		kept := make([]uuid.UUID, 0, len(product.Variants))
		for _, v := range product.Variants {
			if v.ID == uuid.Nil {
				if err := insertVariant(ctx, tx, id, v); err != nil {
					return err
				}
				continue
			}
			kept = append(kept, v.ID)
			if _, err := tx.Exec(ctx,
				`UPDATE product_variants SET title = $1, price = $2, stock = $3, low_stock_alert = $4, color = $5, images = $6
				 WHERE id = $7 AND product_id = $8`,
				v.Title, v.Price, v.Stock, v.LowStockAlert, v.Color, v.Images, v.ID, id); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM product_variants WHERE product_id = $1 AND NOT (id = ANY($2))`, id, kept); err != nil {
			return err
		}
		return replaceTags(ctx, tx, id, product.TagIDs)
	})
}

func insertVariant(ctx context.Context, tx pgx.Tx, productID int64, v Variant) error {
	variantID := v.ID
	if variantID == uuid.Nil {
		variantID = uuid.New()
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO product_variants (id, product_id, title, price, stock, low_stock_alert, color, images)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		variantID, productID, v.Title, v.Price, v.Stock, v.LowStockAlert, v.Color, v.Images)
	return err
}

func replaceTags(ctx context.Context, tx pgx.Tx, productID int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2)`, productID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) CountOrderReferences(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_items oi
		 JOIN product_variants pv ON oi.variant_id = pv.id
		 WHERE pv.product_id = $1`, id).Scan(&count)
	return count, err
}

func (r *repository) ListLowStock(ctx context.Context) ([]LowStockVariant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT pv.id, pv.product_id, pv.title, pv.price, pv.stock, pv.low_stock_alert, pv.color, pv.images, p.name
		 FROM product_variants pv
		 JOIN products p ON pv.product_id = p.id
		 WHERE pv.low_stock_alert IS NOT NULL AND pv.stock <= pv.low_stock_alert
		 ORDER BY pv.stock ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []LowStockVariant
	for rows.Next() {
		var v LowStockVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Title, &v.Price, &v.Stock, &v.LowStockAlert, &v.Color, &v.Images, &v.ProductName); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
