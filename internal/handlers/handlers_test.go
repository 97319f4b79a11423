package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bocal_back_end/internal/handlers"
	"bocal_back_end/internal/models"
	"bocal_back_end/internal/notify"
	"bocal_back_end/internal/order"
	"bocal_back_end/internal/routes"
	"bocal_back_end/internal/store/memory"
	"bocal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := memory.New()
	engine := &order.Engine{
		Catalog: mem.Catalog(),
		Carts:   mem.Cart(),
		Orders:  mem.Orders(),
		Locks:   mem.Locker(),
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Handlers{
		Auth:      &handlers.AuthHandler{Users: mem},
		Products:  &handlers.ProductHandler{Catalog: mem.Catalog(), Ratings: mem.Ratings()},
		Cart:      &handlers.CartHandler{Catalog: mem.Catalog(), Carts: mem.Cart(), Engine: engine},
		Checkout:  &handlers.CheckoutHandler{Engine: engine, Carts: mem.Cart()},
		Orders:    &handlers.OrderHandler{Orders: mem.Orders()},
		Ratings:   &handlers.RatingHandler{Orders: mem.Orders(), Ratings: mem.Ratings()},
		Feedback:  &handlers.FeedbackHandler{Feedback: mem.Feedback()},
		Dashboard: &handlers.DashboardHandler{Users: mem, Catalog: mem.Catalog(), Orders: mem.Orders(), Ratings: mem.Ratings(), Feedback: mem.Feedback()},
		OrdersHub: notify.NewHub(),
	})
	return r, mem
}

func seedUser(t *testing.T, mem *memory.Store, email, role string) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("motdepasse123")
	require.NoError(t, err)

	user := models.User{
		ID:        uuid.NewString(),
		Username:  "testeur",
		Email:     email,
		Password:  hash,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, mem.Create(nil, user))

	token, err := utils.GenerateJWT(user)
	require.NoError(t, err)
	return user, token
}

func seedProduct(t *testing.T, mem *memory.Store, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Stock:     50,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, mem.Catalog().Create(nil, p))
	return p
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterThenDuplicateEmail(t *testing.T) {
	r, _ := newTestServer(t)

	payload := gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "motdepasse123",
	}

	w := doJSON(r, http.MethodPost, "/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	// Même email : refusé, aucun second compte
	w = doJSON(r, http.MethodPost, "/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "existe déjà")
}

func TestRegisterNormalizesRole(t *testing.T) {
	r, mem := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "motdepasse123",
		"role":     "superuser",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user, err := mem.GetByEmail(nil, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	r, mem := newTestServer(t)
	seedUser(t, mem, "alice@example.com", models.RoleCustomer)

	wBadPass := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "mauvais",
	})
	wNoUser := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "personne@example.com",
		"password": "mauvais",
	})

	assert.Equal(t, http.StatusUnauthorized, wBadPass.Code)
	assert.Equal(t, http.StatusUnauthorized, wNoUser.Code)
	// Même réponse : ne pas révéler quels emails ont un compte
	assert.JSONEq(t, wBadPass.Body.String(), wNoUser.Body.String())
}

func TestLoginReturnsUsableToken(t *testing.T) {
	r, mem := newTestServer(t)
	seedUser(t, mem, "alice@example.com", models.RoleCustomer)

	w := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "motdepasse123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	wMe := doJSON(r, http.MethodGet, "/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, wMe.Code)
	assert.Contains(t, wMe.Body.String(), "alice@example.com")
}

func TestMeWithoutTokenRejected(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddToCartAccumulatesQuantity(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	w := doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.CartItem `json:"items"`
		Total float64           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.InDelta(t, 42.50, resp.Total, 0.001)
}

func TestAddToCartByName(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-mangue", 12.00)

	w := doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"name": "bocal-mangue"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, p.ID, resp.Items[0].ProductID)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestAddUnknownProductRejected(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)

	w := doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveFromCartIsReportedNoOpWhenAbsent(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)

	w := doJSON(r, http.MethodPost, "/remove-from-cart", token, gin.H{"product_id": uuid.NewString()})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Removed bool `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Removed)
}

func TestCartViewDropsVanishedProducts(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	keep := seedProduct(t, mem, "bocal-citron", 8.50)
	gone := seedProduct(t, mem, "bocal-ephemere", 5.00)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": keep.ID, "quantity": 2})
	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": gone.ID, "quantity": 1})

	require.NoError(t, mem.Catalog().Delete(nil, gone.ID))

	w := doJSON(r, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items   []models.CartItem `json:"items"`
		Total   float64           `json:"total"`
		Dropped []string          `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, keep.ID, resp.Items[0].ProductID)
	assert.InDelta(t, 17.00, resp.Total, 0.001)
	assert.Equal(t, []string{gone.ID}, resp.Dropped)
}

func TestProcessCheckoutEndToEnd(t *testing.T) {
	r, mem := newTestServer(t)
	user, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID, "quantity": 2})

	// Adresse manquante : rejeté, panier intact
	w := doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.OrderStatusConfirmed, resp.Order.Status)
	assert.InDelta(t, 17.00, resp.Order.Total, 0.001)
	assert.Equal(t, user.ID, resp.Order.UserID)

	// Panier vidé : un second checkout n'a plus rien à convertir
	w = doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Panier vide")
}

func TestTrackOrderIsPublic(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID, "quantity": 1})
	w := doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Sans token : le lien de suivi est partageable
	wTrack := doJSON(r, http.MethodGet, "/track-order/"+resp.Order.ID, "", nil)
	require.Equal(t, http.StatusOK, wTrack.Code)
	assert.Contains(t, wTrack.Body.String(), resp.Order.ID)
	assert.Contains(t, wTrack.Body.String(), p.Name)
}

func TestTrackUnknownOrder(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/track-order/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitRatingFansOutPerOrderLine(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p1 := seedProduct(t, mem, "bocal-citron", 8.50)
	p2 := seedProduct(t, mem, "bocal-mangue", 12.00)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p1.ID})
	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p2.ID})
	w := doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	wRate := doJSON(r, http.MethodPost, "/submit-rating/"+resp.Order.ID, token, gin.H{"stars": 4})
	require.Equal(t, http.StatusCreated, wRate.Code)

	// Une entrée par produit acheté
	for _, pid := range []string{p1.ID, p2.ID} {
		ratings, err := mem.Ratings().ByProduct(nil, pid)
		require.NoError(t, err)
		require.Len(t, ratings, 1)
		assert.Equal(t, 4, ratings[0].Stars)
	}
}

func TestSubmitRatingValidation(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)

	cases := []interface{}{0, 6, -1, "beaucoup"}
	for _, stars := range cases {
		w := doJSON(r, http.MethodPost, "/submit-rating/"+uuid.NewString(), token, gin.H{"stars": stars})
		assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("stars=%v", stars))
	}

	// Note valide mais commande inexistante
	w := doJSON(r, http.MethodPost, "/submit-rating/"+uuid.NewString(), token, gin.H{"stars": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitRatingAcceptsStringDigits(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID})
	w := doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	wRate := doJSON(r, http.MethodPost, "/submit-rating/"+resp.Order.ID, token, gin.H{"stars": "5"})
	assert.Equal(t, http.StatusCreated, wRate.Code)
}

func TestFeedbackRoundTrip(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)

	w := doJSON(r, http.MethodPost, "/feedback", token, gin.H{"content": "Les bocaux de mangue sont excellents"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/feedback", token, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/feedback", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Feedbacks []models.Feedback `json:"feedbacks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Feedbacks, 1)
	assert.Equal(t, "Les bocaux de mangue sont excellents", resp.Feedbacks[0].Content)
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	r, mem := newTestServer(t)
	_, customerToken := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	_, adminToken := seedUser(t, mem, "admin@example.com", models.RoleAdmin)

	payload := gin.H{"name": "bocal-gingembre", "price": 9.90, "stock": 30}

	w := doJSON(r, http.MethodPost, "/products", customerToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/products", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bocal-gingembre")
}

func TestDashboardBranchesOnRole(t *testing.T) {
	r, mem := newTestServer(t)
	_, customerToken := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	_, adminToken := seedUser(t, mem, "admin@example.com", models.RoleAdmin)
	seedProduct(t, mem, "bocal-citron", 8.50)

	w := doJSON(r, http.MethodGet, "/dashboard", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"customer"`)
	assert.NotContains(t, w.Body.String(), "customers")

	w = doJSON(r, http.MethodGet, "/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.Contains(t, w.Body.String(), "stats")
}

func TestAdminDashboardShowsOrderRatings(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	_, adminToken := seedUser(t, mem, "admin@example.com", models.RoleAdmin)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID, "quantity": 2})
	w := doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	doJSON(r, http.MethodPost, "/submit-rating/"+resp.Order.ID, token, gin.H{"stars": 5})

	w = doJSON(r, http.MethodGet, "/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stars":5`)
	assert.Contains(t, w.Body.String(), `"average_rating":5`)
}

func TestMyOrdersListsOwnOrdersOnly(t *testing.T) {
	r, mem := newTestServer(t)
	_, aliceToken := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	_, bobToken := seedUser(t, mem, "bob@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	doJSON(r, http.MethodPost, "/add-to-cart", aliceToken, gin.H{"product_id": p.ID})
	w := doJSON(r, http.MethodPost, "/process-checkout", aliceToken, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Count  int            `json:"count"`
		Orders []models.Order `json:"orders"`
	}

	w = doJSON(r, http.MethodGet, "/my-orders", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	w = doJSON(r, http.MethodGet, "/my-orders", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestPaymentSuccessIncludesTrackingQR(t *testing.T) {
	r, mem := newTestServer(t)
	_, token := seedUser(t, mem, "alice@example.com", models.RoleCustomer)
	p := seedProduct(t, mem, "bocal-citron", 8.50)

	doJSON(r, http.MethodPost, "/add-to-cart", token, gin.H{"product_id": p.ID})
	w := doJSON(r, http.MethodPost, "/process-checkout", token, gin.H{"address": "12 rue des Conserves, Lyon"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(r, http.MethodGet, "/payment-success/"+resp.Order.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/track-order/"+resp.Order.ID)
	assert.Contains(t, w.Body.String(), "data:image/png;base64,")
}
