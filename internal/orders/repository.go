package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trigardening/trigardening/internal/platform/db"
	"github.com/trigardening/trigardening/internal/platform/httpx"
)

// VariantState is the slice of a variant the placement workflow needs while
// holding that variant's row lock.
type VariantState struct {
	ID    uuid.UUID
	Title string
	Price int64
	Stock int
}

// Repository is the order ledger persistence surface.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	ListByUser(ctx context.Context, userID int64, search string) ([]Order, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, code string, status OrderStatus) error
	Delete(ctx context.Context, id int64) error
}

// TxRepository exposes the operations available inside a placement transaction.
type TxRepository interface {
	GetVariantForUpdate(ctx context.Context, id uuid.UUID) (VariantState, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	NextOrderCode(ctx context.Context) (string, error)
	InsertOrder(ctx context.Context, order Order) (int64, error)
	InsertItem(ctx context.Context, item OrderItem) (int64, error)
	GetWalletForUpdate(ctx context.Context, userID int64) (int64, error)
	DebitWallet(ctx context.Context, userID int64, amount int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (t *txRepo) GetVariantForUpdate(ctx context.Context, id uuid.UUID) (VariantState, error) {
	var v VariantState
	err := t.tx.QueryRow(ctx,
		`SELECT id, title, price, stock FROM product_variants WHERE id = $1 FOR UPDATE`, id).
		Scan(&v.ID, &v.Title, &v.Price, &v.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return VariantState{}, &VariantNotFoundError{VariantID: id}
	}
	return v, err
}

func (t *txRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res, err := t.tx.Exec(ctx,
		`UPDATE product_variants SET stock = stock - $2 WHERE id = $1 AND stock >= $2`, id, qty)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("orders: stock decrement lost for variant %s", id)
	}
	return nil
}

func (t *txRepo) NextOrderCode(ctx context.Context) (string, error) {
	var seq int64
	if err := t.tx.QueryRow(ctx, `SELECT nextval('order_code_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("TG-%04d", seq), nil
}

func (t *txRepo) InsertOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (order_code, user_id, full_name, phone, thana, district, full_address,
		                     sub_total, delivery_charge, total_amount, wallet_discount, payable_amount,
		                     status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		 RETURNING id`,
		o.OrderID, o.UserID, o.Shipping.FullName, o.Shipping.Phone, o.Shipping.Thana,
		o.Shipping.District, o.Shipping.FullAddress, o.SubTotal, o.DeliveryCharge,
		o.TotalAmount, o.WalletDiscount, o.PayableAmount, o.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, fmt.Errorf("%w: user %d", httpx.ErrNotFound, o.UserID)
		}
		return 0, err
	}
	return id, nil
}

func (t *txRepo) InsertItem(ctx context.Context, item OrderItem) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO order_items (order_id, variant_id, quantity, title_at_purchase, price_at_purchase)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.OrderID, item.VariantID, item.Quantity, item.TitleAtPurchase, item.PriceAtPurchase).Scan(&id)
	return id, err
}

func (t *txRepo) GetWalletForUpdate(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := t.tx.QueryRow(ctx, `SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, httpx.ErrNotFound
	}
	return balance, err
}

func (t *txRepo) DebitWallet(ctx context.Context, userID int64, amount int64) error {
	res, err := t.tx.Exec(ctx,
		`UPDATE users SET wallet_balance = wallet_balance - $2, updated_at = NOW()
		 WHERE id = $1 AND wallet_balance >= $2`, userID, amount)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("orders: wallet debit lost for user %d", userID)
	}
	return nil
}

const orderColumns = `id, order_code, user_id, full_name, phone, thana, district, full_address,
	sub_total, delivery_charge, total_amount, wallet_discount, payable_amount, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderID, &o.UserID, &o.Shipping.FullName, &o.Shipping.Phone,
		&o.Shipping.Thana, &o.Shipping.District, &o.Shipping.FullAddress,
		&o.SubTotal, &o.DeliveryCharge, &o.TotalAmount, &o.WalletDiscount, &o.PayableAmount,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.itemsOf(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_code = $1`, code))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.itemsOf(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) itemsOf(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.variant_id, oi.quantity, oi.title_at_purchase, oi.price_at_purchase,
		        pv.title, pv.price, pv.stock, pv.color, pv.images
		 FROM order_items oi
		 LEFT JOIN product_variants pv ON oi.variant_id = pv.id
		 WHERE oi.order_id = $1
		 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		var title *string
		var price *int64
		var stock *int
		var color *string
		var images []string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.VariantID, &item.Quantity,
			&item.TitleAtPurchase, &item.PriceAtPurchase, &title, &price, &stock, &color, &images); err != nil {
			return nil, err
		}
		if item.VariantID != nil && title != nil && price != nil && stock != nil {
			item.Variant = &CurrentVariant{Title: *title, Price: *price, Stock: *stock, Color: color, Images: images}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes ILIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *repository) ListByUser(ctx context.Context, userID int64, search string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE user_id = $1`
	args := []interface{}{userID}
	if search != "" {
		query += ` AND (order_code ILIKE $2 OR EXISTS (
			SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.title_at_purchase ILIKE $2))`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return r.listOrders(ctx, query, args...)
}

func (r *repository) ListAdmin(ctx context.Context, filter AdminListFilter) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filter.Status != nil {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, *filter.Status)
	}
	if filter.Day != nil {
		dayStart := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
		argCount++
		query += ` AND created_at >= $` + strconv.Itoa(argCount)
		args = append(args, dayStart)
		argCount++
		query += ` AND created_at < $` + strconv.Itoa(argCount)
		args = append(args, dayStart.AddDate(0, 0, 1))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return r.listOrders(ctx, query, args...)
}

func (r *repository) listOrders(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderID, &o.UserID, &o.Shipping.FullName, &o.Shipping.Phone,
			&o.Shipping.Thana, &o.Shipping.District, &o.Shipping.FullAddress,
			&o.SubTotal, &o.DeliveryCharge, &o.TotalAmount, &o.WalletDiscount, &o.PayableAmount,
			&o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsOf(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, code string, status OrderStatus) error {
	res, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE order_code = $2`, status, code)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes the order row. Items go with it via the storage-level
// ON DELETE CASCADE on order_items.order_id.
func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
