package handler_test

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"fsanano/storefront/internal/handler"
	"fsanano/storefront/internal/repository"
	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, repository.Migrate(dbURL))

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()))

	// Truncate tables to ensure clean state
	_, err = pool.Exec(context.Background(),
		`TRUNCATE TABLE order_item, "order", product_size, product, category, "user" RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

type dbFixture struct {
	pool   *pgxpool.Pool
	server *testServer
	userID int
	sizeID int
}

func newDBFixture(t *testing.T, stock int) *dbFixture {
	pool := setupTestDB(t)
	ctx := context.Background()
	log := zerolog.Nop()

	repo := repository.NewRepository(pool)
	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour, false)
	users := service.NewUserService(repo, service.BcryptHasher{Cost: bcrypt.MinCost}, log)

	h := handler.NewHandler(log, sessions,
		handler.NewCatalogHandler(service.NewCatalogService(repo, log)),
		handler.NewUserHandler(users, sessions),
		handler.NewOrderHandler(service.NewOrderService(repo, log)),
		handler.NewInventoryHandler(service.NewInventoryService(repo, log)),
	)

	// 1. Seed Data
	var categoryID int
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO category (name) VALUES ('Shirts') RETURNING category_id`).Scan(&categoryID))

	s := &testServer{h: h, users: users}
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO product (category_id, title, price) VALUES ($1, 'Plain tee', 10.00) RETURNING product_id`,
		categoryID).Scan(&s.product.ID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO product_size (product_id, size, quantity_available) VALUES ($1, 'M', $2) RETURNING product_size_id`,
		s.product.ID, stock).Scan(&s.size.ID))

	u := s.register(t, "ada@example.com")

	return &dbFixture{pool: pool, server: s, userID: u.ID, sizeID: s.size.ID}
}

func (f *dbFixture) count(t *testing.T, table string) int {
	var n int
	require.NoError(t, f.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func (f *dbFixture) stock(t *testing.T) int {
	var n int
	require.NoError(t, f.pool.QueryRow(context.Background(),
		`SELECT quantity_available FROM product_size WHERE product_size_id = $1`, f.sizeID).Scan(&n))
	return n
}

func TestPlaceOrder_Integration(t *testing.T) {
	f := newDBFixture(t, 5)
	s := f.server

	rec := s.do(t, http.MethodPost, "/api/orders", orderBody(f.userID, s.cartItem(2, "10.00"), s.cartItem(1, "5.00")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[map[string]int](t, rec)

	var subtotal, tax, total string
	var number int
	require.NoError(t, f.pool.QueryRow(context.Background(),
		`SELECT order_number, subtotal::text, taxamount::text, order_total::text FROM "order" WHERE order_id = $1`,
		placed["orderId"]).Scan(&number, &subtotal, &tax, &total))
	assert.Equal(t, placed["orderNumber"], number)
	assert.Equal(t, "25.00", subtotal)
	assert.Equal(t, "3.25", tax)
	assert.Equal(t, "28.25", total)

	assert.Equal(t, 2, f.count(t, "order_item"))
	assert.Equal(t, 2, f.stock(t))

	rec = s.do(t, http.MethodGet, "/api/orders/"+itoa(f.userID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := decode[[]map[string]any](t, rec)
	require.Len(t, lines, 2)
	assert.Equal(t, "28.25", lines[0]["order_total"])
	assert.Equal(t, "M", lines[0]["item_size"])
}

func TestPlaceOrder_IntegrationInsufficientStock(t *testing.T) {
	f := newDBFixture(t, 1)
	s := f.server

	rec := s.do(t, http.MethodPost, "/api/orders", orderBody(f.userID, s.cartItem(2, "10.00")))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, f.count(t, `"order"`))
	assert.Equal(t, 0, f.count(t, "order_item"))
	assert.Equal(t, 1, f.stock(t))
}

func TestPlaceOrder_IntegrationItemFailureRollsBack(t *testing.T) {
	f := newDBFixture(t, 5)
	s := f.server

	bad := s.cartItem(1, "10.00")
	bad["size_id"] = 9999

	rec := s.do(t, http.MethodPost, "/api/orders", orderBody(f.userID, s.cartItem(1, "10.00"), bad))

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, 0, f.count(t, `"order"`))
	assert.Equal(t, 0, f.count(t, "order_item"))
	assert.Equal(t, 5, f.stock(t))
}

func TestInventory_Integration(t *testing.T) {
	f := newDBFixture(t, 5)
	s := f.server
	path := "/api/product_size/" + itoa(f.sizeID)

	rec := s.do(t, http.MethodPut, path, map[string]any{"availableQuantity": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.stock(t))

	rec = s.do(t, http.MethodPut, path, map[string]any{"availableQuantity": 7})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"quantity_available": 7}`, rec.Body.String())
}

func TestPlaceOrder_IntegrationConcurrency(t *testing.T) {
	// 10 in stock, 50 concurrent single-unit orders: exactly 10 succeed.
	f := newDBFixture(t, 10)
	s := f.server

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := s.do(t, http.MethodPost, "/api/orders", orderBody(f.userID, s.cartItem(1, "10.00")))
			mu.Lock()
			defer mu.Unlock()
			switch rec.Code {
			case http.StatusCreated:
				succeeded++
			case http.StatusConflict:
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 40, rejected)
	assert.Equal(t, 0, f.stock(t))
	assert.Equal(t, 10, f.count(t, `"order"`))
}
