package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

// memoryRepo implements Repository and TxRepository over maps. WithTx
// snapshots state before the callback and restores it on error, mirroring
// the rollback behaviour of the real transaction.
type memoryRepo struct {
	variants     map[uuid.UUID]VariantState
	wallets      map[int64]int64
	orders       map[int64]*Order
	missingUsers map[int64]bool
	nextID       int64
	nextSeq      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		variants:     make(map[uuid.UUID]VariantState),
		wallets:      make(map[int64]int64),
		orders:       make(map[int64]*Order),
		missingUsers: make(map[int64]bool),
	}
}

func (m *memoryRepo) addVariant(title string, price int64, stock int) uuid.UUID {
	id := uuid.New()
	m.variants[id] = VariantState{ID: id, Title: title, Price: price, Stock: stock}
	return id
}

func (m *memoryRepo) snapshot() *memoryRepo {
	cp := newMemoryRepo()
	for k, v := range m.variants {
		cp.variants[k] = v
	}
	for k, v := range m.wallets {
		cp.wallets[k] = v
	}
	for k, v := range m.orders {
		order := *v
		cp.orders[k] = &order
	}
	for k, v := range m.missingUsers {
		cp.missingUsers[k] = v
	}
	cp.nextID = m.nextID
	cp.nextSeq = m.nextSeq
	return cp
}

func (m *memoryRepo) restore(from *memoryRepo) {
	m.variants = from.variants
	m.wallets = from.wallets
	m.orders = from.orders
	m.missingUsers = from.missingUsers
	m.nextID = from.nextID
	m.nextSeq = from.nextSeq
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	before := m.snapshot()
	if err := fn(ctx, m); err != nil {
		m.restore(before)
		return err
	}
	return nil
}

func (m *memoryRepo) GetVariantForUpdate(_ context.Context, id uuid.UUID) (VariantState, error) {
	v, ok := m.variants[id]
	if !ok {
		return VariantState{}, &VariantNotFoundError{VariantID: id}
	}
	return v, nil
}

func (m *memoryRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	v, ok := m.variants[id]
	if !ok || v.Stock < qty {
		return fmt.Errorf("orders: stock decrement lost for variant %s", id)
	}
	v.Stock -= qty
	m.variants[id] = v
	return nil
}

func (m *memoryRepo) NextOrderCode(_ context.Context) (string, error) {
	m.nextSeq++
	return fmt.Sprintf("TG-%04d", m.nextSeq), nil
}

func (m *memoryRepo) InsertOrder(_ context.Context, order Order) (int64, error) {
	if m.missingUsers[order.UserID] {
		return 0, fmt.Errorf("%w: user %d", httpx.ErrNotFound, order.UserID)
	}
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = &order
	return order.ID, nil
}

func (m *memoryRepo) InsertItem(_ context.Context, item OrderItem) (int64, error) {
	order, ok := m.orders[item.OrderID]
	if !ok {
		return 0, fmt.Errorf("orders: unknown order %d", item.OrderID)
	}
	item.ID = int64(len(order.Items) + 1)
	order.Items = append(order.Items, item)
	return item.ID, nil
}

func (m *memoryRepo) GetWalletForUpdate(_ context.Context, userID int64) (int64, error) {
	return m.wallets[userID], nil
}

func (m *memoryRepo) DebitWallet(_ context.Context, userID int64, amount int64) error {
	if m.wallets[userID] < amount {
		return fmt.Errorf("orders: wallet balance below debit for user %d", userID)
	}
	m.wallets[userID] -= amount
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *memoryRepo) GetByCode(_ context.Context, code string) (*Order, error) {
	for _, order := range m.orders {
		if order.OrderID == code {
			cp := *order
			return &cp, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (m *memoryRepo) ListByUser(_ context.Context, userID int64, _ string) ([]Order, error) {
	out := make([]Order, 0)
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAdmin(_ context.Context, _ AdminListFilter) ([]Order, error) {
	out := make([]Order, 0)
	for _, order := range m.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, code string, status OrderStatus) error {
	for _, order := range m.orders {
		if order.OrderID == code {
			order.Status = status
			return nil
		}
	}
	return httpx.ErrNotFound
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func shippingFixture() ShippingAddressForm {
	return ShippingAddressForm{
		FullName:    "Anika Rahman",
		Phone:       "01700000000",
		Thana:       "Dhanmondi",
		District:    "Dhaka",
		FullAddress: "House 12, Road 5, Dhanmondi",
	}
}

func TestPlaceComputesTotalsAndDecrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	potID := repo.addVariant("Clay pot", 100, 3)
	svc := NewService(repo, nil, nil, nil)

	order, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items: []CartLine{
			{VariantID: seedID, Quantity: 2},
			{VariantID: potID, Quantity: 1},
		},
		ShippingAddress: shippingFixture(),
		DeliveryCharge:  60,
	})
	require.NoError(t, err)

	require.Equal(t, int64(2*500+100), order.SubTotal)
	require.Equal(t, int64(60), order.DeliveryCharge)
	require.Equal(t, order.SubTotal+order.DeliveryCharge, order.TotalAmount)
	require.Equal(t, order.TotalAmount, order.PayableAmount)
	require.Equal(t, OrderStatusProcessing, order.Status)
	require.Equal(t, "TG-0001", order.OrderID)
	require.Len(t, order.Items, 2)
	require.Equal(t, "Seed packet", order.Items[0].TitleAtPurchase)
	require.Equal(t, int64(500), order.Items[0].PriceAtPurchase)

	require.Equal(t, 8, repo.variants[seedID].Stock)
	require.Equal(t, 2, repo.variants[potID].Stock)
}

func TestPlaceRejectsInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 1)
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 3}},
		ShippingAddress: shippingFixture(),
	})
	require.ErrorIs(t, err, httpx.ErrInsufficientStock)
	require.Contains(t, err.Error(), "Seed packet")
	require.Contains(t, err.Error(), "1")

	require.Equal(t, 1, repo.variants[seedID].Stock)
	require.Empty(t, repo.orders)
}

func TestPlaceRejectsUnknownVariant(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)

	missing := uuid.New()
	_, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: missing, Quantity: 1}},
		ShippingAddress: shippingFixture(),
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Contains(t, err.Error(), missing.String())
}

func TestPlaceIsAtomicAcrossLines(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	potID := repo.addVariant("Clay pot", 100, 1)
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items: []CartLine{
			{VariantID: seedID, Quantity: 2},
			{VariantID: potID, Quantity: 5},
		},
		ShippingAddress: shippingFixture(),
	})
	require.ErrorIs(t, err, httpx.ErrInsufficientStock)

	require.Equal(t, 10, repo.variants[seedID].Stock)
	require.Equal(t, 1, repo.variants[potID].Stock)
	require.Empty(t, repo.orders)
}

func TestPlaceAggregatesDuplicateLines(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 3)
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items: []CartLine{
			{VariantID: seedID, Quantity: 2},
			{VariantID: seedID, Quantity: 2},
		},
		ShippingAddress: shippingFixture(),
	})
	require.ErrorIs(t, err, httpx.ErrInsufficientStock)
	require.Equal(t, 3, repo.variants[seedID].Stock)
}

func TestOrderCodesAreSequential(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	svc := NewService(repo, nil, nil, nil)

	first, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
	})
	require.NoError(t, err)
	second, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
	})
	require.NoError(t, err)

	require.Equal(t, "TG-0001", first.OrderID)
	require.Equal(t, "TG-0002", second.OrderID)
}

func TestPlaceAppliesWalletDiscount(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	repo.wallets[7] = 300
	svc := NewService(repo, nil, nil, nil)

	order, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
		DeliveryCharge:  50,
		UseWallet:       true,
	})
	require.NoError(t, err)

	require.Equal(t, int64(550), order.TotalAmount)
	require.Equal(t, int64(300), order.WalletDiscount)
	require.Equal(t, int64(250), order.PayableAmount)
	require.Equal(t, int64(0), repo.wallets[7])
}

func TestPlaceCapsWalletDiscountAtTotal(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	repo.wallets[7] = 10_000
	svc := NewService(repo, nil, nil, nil)

	order, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
		UseWallet:       true,
	})
	require.NoError(t, err)

	require.Equal(t, order.TotalAmount, order.WalletDiscount)
	require.Equal(t, int64(0), order.PayableAmount)
	require.Equal(t, int64(10_000-500), repo.wallets[7])
}

func TestPlaceValidatesInput(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Place(context.Background(), 7, CreateOrderRequest{ShippingAddress: shippingFixture()})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 0}},
		ShippingAddress: shippingFixture(),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
		DeliveryCharge:  -1,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	svc := NewService(repo, nil, nil, nil)

	order, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
	})
	require.NoError(t, err)

	_, err = svc.GetForUser(context.Background(), 8, order.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	mine, err := svc.GetForUser(context.Background(), 7, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.OrderID, mine.OrderID)
}

func TestUpdateStatusValidatesAndPersists(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	svc := NewService(repo, nil, nil, nil)

	order, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.OrderID, OrderStatus("packed"))
	require.ErrorIs(t, err, httpx.ErrValidation)

	updated, err := svc.UpdateStatus(context.Background(), order.OrderID, OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, OrderStatusShipped, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), "TG-9999", OrderStatusShipped)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestPlaceRejectsUnknownUser(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 5)
	repo.missingUsers[99] = true
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Place(context.Background(), 99, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 1}},
		ShippingAddress: shippingFixture(),
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Contains(t, err.Error(), "99")

	require.Equal(t, 5, repo.variants[seedID].Stock)
	require.Empty(t, repo.orders)
}

func TestPlacedItemsKeepPurchaseSnapshot(t *testing.T) {
	repo := newMemoryRepo()
	seedID := repo.addVariant("Seed packet", 500, 10)
	svc := NewService(repo, nil, nil, nil)

	order, err := svc.Place(context.Background(), 7, CreateOrderRequest{
		Items:           []CartLine{{VariantID: seedID, Quantity: 2}},
		ShippingAddress: shippingFixture(),
	})
	require.NoError(t, err)

	repo.variants[seedID] = VariantState{ID: seedID, Title: "Heirloom seed packet", Price: 900, Stock: 8}

	fetched, err := svc.GetForUser(context.Background(), 7, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	require.Equal(t, "Seed packet", fetched.Items[0].TitleAtPurchase)
	require.Equal(t, int64(500), fetched.Items[0].PriceAtPurchase)
	require.Equal(t, int64(1000), fetched.SubTotal)
}

func TestEscapeLikeNeutralizesWildcards(t *testing.T) {
	require.Equal(t, `\%seed\_packet\\`, escapeLike(`%seed_packet\`))
	require.Equal(t, `TG-0001`, escapeLike(`TG-0001`))
}
