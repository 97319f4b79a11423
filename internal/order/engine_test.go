package order

import (
	"context"
	"testing"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	placed chan models.Order
}

func (n *recordingNotifier) OrderPlaced(o models.Order, _ string) {
	n.placed <- o
}

func newTestEngine() (*Engine, *memory.Store) {
	mem := memory.New()
	return &Engine{
		Catalog: mem.Catalog(),
		Carts:   mem.Cart(),
		Orders:  mem.Orders(),
		Locks:   mem.Locker(),
	}, mem
}

func seedProduct(t *testing.T, mem *memory.Store, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Category:  "bocaux",
		Stock:     100,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, mem.Catalog().Create(context.Background(), p))
	return p
}

func addToCart(t *testing.T, mem *memory.Store, userID string, p models.Product, qty int) {
	t.Helper()
	ctx := context.Background()
	cart, err := mem.Cart().Get(ctx, userID)
	require.NoError(t, err)
	cart = append(cart, models.CartItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: qty})
	require.NoError(t, mem.Cart().Put(ctx, userID, cart))
}

func TestCheckoutHappyPath(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	alice := uuid.NewString()

	mango := seedProduct(t, mem, "jar-mango", 120.00)
	lime := seedProduct(t, mem, "jar-lime", 90.00)
	addToCart(t, mem, alice, mango, 2)
	addToCart(t, mem, alice, lime, 1)

	cart, err := mem.Cart().Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 330.00, Total(cart))

	o, dropped, err := e.Checkout(ctx, alice, "alice@example.com", "221B Baker St")
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, 330.00, o.Total)
	assert.Equal(t, "221B Baker St", o.Address)
	assert.Equal(t, models.OrderStatusConfirmed, o.Status)
	assert.Len(t, o.Items, 2)

	// Le panier a été vidé
	cart, err = mem.Cart().Get(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, cart)

	// Le suivi de commande retrouve le même total et la même adresse
	tracked, err := mem.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 330.00, tracked.Total)
	assert.Equal(t, "221B Baker St", tracked.Address)
}

func TestOrderTotalMatchesItems(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	addToCart(t, mem, user, seedProduct(t, mem, "jar-fig", 45.50), 3)
	addToCart(t, mem, user, seedProduct(t, mem, "jar-plum", 12.25), 4)

	o, _, err := e.Checkout(ctx, user, "u@example.com", "12 rue des Conserves")
	require.NoError(t, err)

	items, err := mem.Orders().ItemsByOrder(ctx, o.ID)
	require.NoError(t, err)

	var sum float64
	for _, item := range items {
		sum += float64(item.Quantity) * item.UnitPrice
	}
	assert.Equal(t, o.Total, sum)
}

func TestCheckoutEmptyAddressLeavesCartUntouched(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	addToCart(t, mem, user, seedProduct(t, mem, "jar-mango", 120.00), 2)
	before, err := mem.Cart().Get(ctx, user)
	require.NoError(t, err)

	_, _, err = e.Checkout(ctx, user, "u@example.com", "   ")
	assert.ErrorIs(t, err, ErrAddressRequired)

	after, err := mem.Cart().Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	orders, err := mem.Orders().ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutEmptyCart(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	_, _, err := e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	assert.ErrorIs(t, err, ErrCartEmpty)

	orders, err := mem.Orders().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutDropsVanishedProducts(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	kept := seedProduct(t, mem, "jar-mango", 120.00)
	gone := seedProduct(t, mem, "jar-lime", 90.00)
	addToCart(t, mem, user, kept, 1)
	addToCart(t, mem, user, gone, 2)

	require.NoError(t, mem.Catalog().Delete(ctx, gone.ID))

	o, dropped, err := e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	require.NoError(t, err)
	assert.Equal(t, []string{gone.ID}, dropped)
	assert.Equal(t, 120.00, o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, kept.ID, o.Items[0].ProductID)
}

func TestCheckoutRejectedWhenAllProductsVanished(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	gone := seedProduct(t, mem, "jar-lime", 90.00)
	addToCart(t, mem, user, gone, 1)
	require.NoError(t, mem.Catalog().Delete(ctx, gone.ID))

	_, dropped, err := e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, []string{gone.ID}, dropped)

	orders, err := mem.Orders().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutFreezesUnitPrices(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	p := seedProduct(t, mem, "jar-mango", 120.00)
	addToCart(t, mem, user, p, 1)

	o, _, err := e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	require.NoError(t, err)

	// Le prix catalogue change après coup
	p.Price = 999.99
	require.NoError(t, mem.Catalog().Create(ctx, p))

	items, err := mem.Orders().ItemsByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 120.00, items[0].UnitPrice)

	tracked, err := mem.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.00, tracked.Total)
}

func TestCheckoutSerializedPerUser(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	addToCart(t, mem, user, seedProduct(t, mem, "jar-mango", 120.00), 1)

	ok, err := mem.Locker().Acquire(ctx, user)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	mem.Locker().Release(ctx, user)

	_, _, err = e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	assert.NoError(t, err)
}

func TestCheckoutNotifiesAfterConfirm(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	n := &recordingNotifier{placed: make(chan models.Order, 1)}
	e.Notify = n

	addToCart(t, mem, user, seedProduct(t, mem, "jar-mango", 120.00), 1)

	o, _, err := e.Checkout(ctx, user, "u@example.com", "221B Baker St")
	require.NoError(t, err)

	select {
	case placed := <-n.placed:
		assert.Equal(t, o.ID, placed.ID)
		assert.Equal(t, models.OrderStatusConfirmed, placed.Status)
	case <-time.After(time.Second):
		t.Fatal("notification jamais émise")
	}
}

func TestRecoverPendingDrainsCartAndConfirms(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	p := seedProduct(t, mem, "jar-mango", 120.00)
	addToCart(t, mem, user, p, 2)

	// Commande écrite mais process mort avant le vidage du panier
	o := models.Order{
		ID:        uuid.NewString(),
		UserID:    user,
		Address:   "221B Baker St",
		Total:     240.00,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	items := []models.OrderItem{{OrderID: o.ID, ProductID: p.ID, Name: p.Name, Quantity: 2, UnitPrice: 120.00}}
	require.NoError(t, mem.Orders().CreatePending(ctx, o, items))

	recovered, err := e.RecoverPending(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	cart, err := mem.Cart().Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart)

	confirmed, err := mem.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, confirmed.Status)
}

func TestRecoverPendingSkipsRecentOrders(t *testing.T) {
	e, mem := newTestEngine()
	ctx := context.Background()
	user := uuid.NewString()

	p := seedProduct(t, mem, "jar-mango", 120.00)
	o := models.Order{
		ID:        uuid.NewString(),
		UserID:    user,
		Address:   "221B Baker St",
		Total:     120.00,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	items := []models.OrderItem{{OrderID: o.ID, ProductID: p.ID, Name: p.Name, Quantity: 1, UnitPrice: 120.00}}
	require.NoError(t, mem.Orders().CreatePending(ctx, o, items))

	// Encore dans le délai de grâce : un checkout est peut-être en cours
	recovered, err := e.RecoverPending(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, recovered)
}
