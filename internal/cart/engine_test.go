package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

func testProduct(id string, price string, stock int) *models.Product {
	return &models.Product{
		ID:         id,
		Name:       "Product " + id,
		Price:      decimal.RequireFromString(price),
		InStock:    stock > 0,
		StockCount: stock,
	}
}

func TestAddNewLine(t *testing.T) {
	cart := models.NewCart()

	err := Add(cart, testProduct("p1", "29.99", 10), 2)
	require.NoError(t, err)

	line := cart.Lines["p1"]
	require.NotNil(t, line)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("29.99")))
}

func TestAddAccumulates(t *testing.T) {
	cart := models.NewCart()
	p := testProduct("p1", "10", 10)

	require.NoError(t, Add(cart, p, 2))
	require.NoError(t, Add(cart, p, 3))

	assert.Equal(t, 5, cart.Lines["p1"].Quantity)
	assert.Len(t, cart.Lines, 1)
}

func TestAddClampsToStock(t *testing.T) {
	cart := models.NewCart()
	p := testProduct("p1", "10", 3)

	require.NoError(t, Add(cart, p, 2))
	require.NoError(t, Add(cart, p, 5))

	assert.Equal(t, 3, cart.Lines["p1"].Quantity)
}

func TestAddZeroQuantityMeansOne(t *testing.T) {
	cart := models.NewCart()

	require.NoError(t, Add(cart, testProduct("p1", "10", 5), 0))

	assert.Equal(t, 1, cart.Lines["p1"].Quantity)
}

func TestAddOutOfStock(t *testing.T) {
	cart := models.NewCart()

	err := Add(cart, testProduct("p1", "10", 0), 1)
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Empty(t, cart.Lines)

	flagged := testProduct("p2", "10", 5)
	flagged.InStock = false
	err = Add(cart, flagged, 1)
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Empty(t, cart.Lines)
}

func TestUpdateQuantity(t *testing.T) {
	cart := models.NewCart()
	require.NoError(t, Add(cart, testProduct("p1", "10", 5), 2))

	UpdateQuantity(cart, "p1", 4)
	assert.Equal(t, 4, cart.Lines["p1"].Quantity)

	// Above stock clamps.
	UpdateQuantity(cart, "p1", 99)
	assert.Equal(t, 5, cart.Lines["p1"].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	cart := models.NewCart()
	require.NoError(t, Add(cart, testProduct("p1", "10", 5), 2))

	UpdateQuantity(cart, "p1", 0)
	assert.Empty(t, cart.Lines)

	require.NoError(t, Add(cart, testProduct("p2", "10", 5), 2))
	UpdateQuantity(cart, "p2", -3)
	assert.Empty(t, cart.Lines)
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	cart := models.NewCart()
	require.NoError(t, Add(cart, testProduct("p1", "10", 5), 2))

	UpdateQuantity(cart, "missing", 3)

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines["p1"].Quantity)
}

func TestRemove(t *testing.T) {
	cart := models.NewCart()
	require.NoError(t, Add(cart, testProduct("p1", "10", 5), 2))

	Remove(cart, "p1")
	assert.Empty(t, cart.Lines)

	// Absent id is a no-op.
	Remove(cart, "p1")
	assert.Empty(t, cart.Lines)
}

func TestClear(t *testing.T) {
	cart := models.NewCart()
	require.NoError(t, Add(cart, testProduct("p1", "10", 5), 2))
	require.NoError(t, Add(cart, testProduct("p2", "20", 5), 1))

	Clear(cart)

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestSubtotalAndItemCount(t *testing.T) {
	cart := models.NewCart()
	require.NoError(t, Add(cart, testProduct("p1", "19.99", 10), 3))
	require.NoError(t, Add(cart, testProduct("p2", "5.50", 10), 2))

	assert.Equal(t, 5, cart.ItemCount())
	// 3*19.99 + 2*5.50 = 70.97
	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("70.97")),
		"got %s", cart.Subtotal())
}

func TestSubtotalMatchesLineSum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 50; run++ {
		cart := models.NewCart()
		want := decimal.Zero

		for i := 0; i < rng.Intn(8)+1; i++ {
			price := decimal.NewFromInt(int64(rng.Intn(10000) + 1)).Div(decimal.NewFromInt(100))
			stock := rng.Intn(20) + 1
			qty := rng.Intn(stock) + 1

			p := testProduct(fmt.Sprintf("p%d", i), price.String(), stock)
			require.NoError(t, Add(cart, p, qty))
			want = want.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		assert.True(t, cart.Subtotal().Equal(want),
			"run %d: want %s, got %s", run, want, cart.Subtotal())
	}
}

func TestSubtotalEmptyCart(t *testing.T) {
	cart := models.NewCart()
	assert.True(t, cart.Subtotal().Equal(decimal.Zero))
	assert.True(t, cart.IsEmpty())
}
