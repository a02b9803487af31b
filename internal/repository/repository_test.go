package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_products.up.sql",
			"../migrations/02_cart_lines.up.sql",
			"../migrations/03_orders.up.sql",
			"../migrations/04_checkout.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

// insertProduct seeds the read-only catalog; a nil price leaves the product unpriced.
func insertProduct(t *testing.T, pool *pgxpool.Pool, price *domain.Money, stock int) domain.Product {
	t.Helper()

	product := domain.Product{
		ID:          uuid.New(),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		ImageURL:    gofakeit.URL(),
		Price:       price,
		Stock:       stock,
	}

	amount := decimal.NullDecimal{}
	code := "USD"
	if price != nil {
		amount = decimal.NewNullDecimal(price.Amount)
		code = price.Currency.String()
	}

	_, err := pool.Exec(t.Context(),
		`INSERT INTO products (id, name, description, image_url, price_amount, price_currency, stock)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.Name, product.Description, product.ImageURL, amount, code, stock)
	require.NoError(t, err)

	return product
}

func stockOf(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(t.Context(), "SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	require.NoError(t, err)

	return stock
}

func truncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(t.Context(),
		"TRUNCATE TABLE outbox_events, payment_reconciliations, checkout_requests, order_items, orders, cart_lines, products CASCADE")
	require.NoError(t, err)
}

func usd(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.USD,
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

var moneyComparer = cmp.Comparer(func(x, y domain.Money) bool {
	return x.Amount.Equal(y.Amount) && x.Currency.String() == y.Currency.String()
})

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(t.Context(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)

	return n
}
