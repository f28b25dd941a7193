package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/surplus/internal/models"
	"github.com/wolfeidau/surplus/internal/session"
	"github.com/wolfeidau/surplus/internal/storage"
)

// staticAuth is a fixed token with a counter for unauthorized callbacks.
type staticAuth struct {
	token        string
	unauthorized atomic.Int32
}

func (a *staticAuth) Token() string       { return a.token }
func (a *staticAuth) HandleUnauthorized() { a.unauthorized.Add(1) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T, register func(r *mux.Router)) *httptest.Server {
	t.Helper()

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	register(api)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, auth Auth) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/api"
	cfg.Timeout = 5 * time.Second
	return New(cfg, auth)
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var creds Credentials
			require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Empty(t, req.Header.Get("Authorization"))

			if creds.Password != "s3cretpass" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, AuthResponse{
				Token: "tok",
				User:  models.User{ID: "u1", Username: "budi", Email: creds.Email, Role: models.RoleCustomer},
			})
		}).Methods(http.MethodPost)
	})

	auth := &staticAuth{}
	c := newTestClient(srv, auth)

	t.Run("success", func(t *testing.T) {
		resp, err := c.Login(context.Background(), Credentials{Email: "budi@example.com", Password: "s3cretpass"})
		require.NoError(t, err)
		assert.Equal(t, "tok", resp.Token)
		assert.Equal(t, "budi@example.com", resp.User.Email)
		assert.Equal(t, models.RoleCustomer, resp.User.Role)
	})

	t.Run("bad credentials do not end the session", func(t *testing.T) {
		_, err := c.Login(context.Background(), Credentials{Email: "budi@example.com", Password: "wrong"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.NotErrorIs(t, err, ErrSessionExpired)
		assert.Equal(t, int32(0), auth.unauthorized.Load())
	})
}

func TestRegisterDefaultsRole(t *testing.T) {
	var got Registration
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/auth/register", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			writeJSON(w, http.StatusCreated, AuthResponse{Token: "tok", User: models.User{ID: "u2", Role: got.Role}})
		}).Methods(http.MethodPost)
	})

	resp, err := newTestClient(srv, nil).Register(context.Background(), Registration{Username: "sari", Email: "sari@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, got.Role)
	assert.Equal(t, "u2", resp.User.ID)
}

func TestAuthenticatedCallSendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/foods/my/foods", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			gotRequestID = req.Header.Get(RequestIDHeader)
			writeJSON(w, http.StatusOK, []models.Food{{ID: "f1", Name: "Bread"}})
		}).Methods(http.MethodGet)
	})

	foods, err := newTestClient(srv, &staticAuth{token: "abc"}).MyFoods(context.Background())
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Bearer abc", gotAuth)

	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err)
}

func TestAuthenticatedCallWithoutToken(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/orders", func(w http.ResponseWriter, req *http.Request) {
			hits.Add(1)
		})
	})

	_, err := newTestClient(srv, &staticAuth{}).ListOrders(context.Background())
	require.ErrorIs(t, err, ErrNotSignedIn)

	_, err = newTestClient(srv, nil).ListOrders(context.Background())
	require.ErrorIs(t, err, ErrNotSignedIn)
	assert.Equal(t, int32(0), hits.Load())
}

func TestUnauthorizedEndsSession(t *testing.T) {
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/orders", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "jwt expired"})
		})
	})

	store := storage.NewMemoryStore()
	var navigations []string
	var navMu sync.Mutex
	mgr := session.NewManager(store, session.WithNavigator(session.NavigatorFunc(func(path string, _ session.Reason) {
		navMu.Lock()
		defer navMu.Unlock()
		navigations = append(navigations, path)
	})))
	require.NoError(t, mgr.Initialize())
	require.NoError(t, mgr.Login(validToken(t), models.User{ID: "u1", Username: "budi", Role: models.RoleSeller}))
	require.True(t, mgr.IsAuthenticated())

	c := newTestClient(srv, mgr)

	// concurrent failures log out once and stay consistent
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.ListOrders(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if errors.Is(err, ErrNotSignedIn) {
			continue
		}
		require.ErrorIs(t, err, ErrSessionExpired)
		require.ErrorIs(t, err, ErrUnauthorized)
	}

	assert.False(t, mgr.IsAuthenticated())
	assert.Equal(t, session.StateAnonymous, mgr.State())

	_, hasToken, err := store.Get(storage.KeyToken)
	require.NoError(t, err)
	_, hasUser, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, hasToken)
	assert.False(t, hasUser)

	navMu.Lock()
	defer navMu.Unlock()
	require.NotEmpty(t, navigations)
	for _, p := range navigations {
		assert.Equal(t, session.SignInPath, p)
	}
}

func TestErrorMessages(t *testing.T) {
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/foods/{id}", func(w http.ResponseWriter, req *http.Request) {
			switch mux.Vars(req)["id"] {
			case "missing":
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "Food not found"})
			case "broken":
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("<html>oops</html>"))
			default:
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid id"})
			}
		}).Methods(http.MethodGet)
	})
	c := newTestClient(srv, nil)

	tests := []struct {
		id      string
		status  int
		message string
	}{
		{id: "missing", status: http.StatusNotFound, message: "Food not found"},
		{id: "broken", status: http.StatusInternalServerError, message: "Request failed with status 500"},
		{id: "bad", status: http.StatusBadRequest, message: "Invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := c.GetFood(context.Background(), tt.id)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Error())
			assert.NotEmpty(t, apiErr.RequestID)
			assert.Equal(t, tt.status == http.StatusNotFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestPublicGetsAreCached(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/categories", func(w http.ResponseWriter, req *http.Request) {
			hits.Add(1)
			w.Header().Set("Cache-Control", "max-age=300")
			writeJSON(w, http.StatusOK, []models.Category{{ID: "c1", Name: "Bakery"}})
		}).Methods(http.MethodGet)
	})
	c := newTestClient(srv, nil)

	for range 3 {
		cats, err := c.Categories(context.Background())
		require.NoError(t, err)
		require.Len(t, cats, 1)
	}

	assert.Equal(t, int32(1), hits.Load())
}

func TestMutationEvictsCachedFood(t *testing.T) {
	var (
		mu    sync.Mutex
		food  = models.Food{ID: "f1", Name: "Croissant Box", IsAvailable: true}
		reads atomic.Int32
	)
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/foods/f1", func(w http.ResponseWriter, req *http.Request) {
			reads.Add(1)
			mu.Lock()
			defer mu.Unlock()
			w.Header().Set("Cache-Control", "max-age=3600")
			writeJSON(w, http.StatusOK, food)
		}).Methods(http.MethodGet)
		r.HandleFunc("/foods/f1", func(w http.ResponseWriter, req *http.Request) {
			var in models.FoodInput
			require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
			mu.Lock()
			defer mu.Unlock()
			food.IsAvailable = *in.IsAvailable
			writeJSON(w, http.StatusOK, food)
		}).Methods(http.MethodPut)
	})
	c := newTestClient(srv, &staticAuth{token: validToken(t)})
	ctx := context.Background()

	toggle := func() bool {
		current, err := c.GetFood(ctx, "f1")
		require.NoError(t, err)
		updated, err := c.SetFoodAvailability(ctx, "f1", !current.IsAvailable)
		require.NoError(t, err)
		return updated.IsAvailable
	}

	assert.False(t, toggle())
	assert.True(t, toggle(), "second toggle must read the state written by the first")
	assert.Equal(t, int32(2), reads.Load())

	// once fetched again the resource is served from the cache
	for range 2 {
		got, err := c.GetFood(ctx, "f1")
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)
	}
	assert.Equal(t, int32(3), reads.Load())
}

func TestFacets(t *testing.T) {
	t.Run("loads both vocabularies", func(t *testing.T) {
		srv := newTestServer(t, func(r *mux.Router) {
			r.HandleFunc("/categories", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, http.StatusOK, []models.Category{{ID: "c1", Name: "Bakery"}, {ID: "c2", Name: "Seafood"}})
			})
			r.HandleFunc("/filters", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, http.StatusOK, []models.DietFilter{{ID: "d1", Name: "Vegan"}})
			})
		})

		facets, err := newTestClient(srv, nil).Facets(context.Background())
		require.NoError(t, err)
		assert.Len(t, facets.Categories, 2)
		assert.Len(t, facets.Filters, 1)
	})

	t.Run("fails when one fails", func(t *testing.T) {
		srv := newTestServer(t, func(r *mux.Router) {
			r.HandleFunc("/categories", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, http.StatusOK, []models.Category{})
			})
			r.HandleFunc("/filters", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "down"})
			})
		})

		_, err := newTestClient(srv, nil).Facets(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load filters")
	})
}

func TestOrders(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var statusBody map[string]string

	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/orders", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, []models.Order{
				{ID: "old", Status: models.OrderCompleted, CreatedAt: now.Add(-48 * time.Hour)},
				{ID: "new", Status: models.OrderPending, CreatedAt: now},
				{ID: "mid", Status: models.OrderPending, CreatedAt: now.Add(-time.Hour)},
			})
		}).Methods(http.MethodGet)
		r.HandleFunc("/orders/{id}/status", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&statusBody))
			writeJSON(w, http.StatusOK, models.Order{ID: mux.Vars(req)["id"], Status: models.OrderStatus(statusBody["status"])})
		}).Methods(http.MethodPut)
	})
	c := newTestClient(srv, &staticAuth{token: "abc"})

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "mid", orders[1].ID)
	assert.Equal(t, "old", orders[2].ID)

	pending := FilterOrders(orders, models.OrderPending)
	assert.Len(t, pending, 2)
	assert.Len(t, FilterOrders(orders, ""), 3)

	order, err := c.CompleteOrder(context.Background(), "mid")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "completed"}, statusBody)
	assert.Equal(t, models.OrderCompleted, order.Status)
}

func TestMyStoreAndRatingNotFound(t *testing.T) {
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/stores/my/store", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Store not found"})
		})
		r.HandleFunc("/app-ratings/my/rating", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No rating"})
		})
	})
	c := newTestClient(srv, &staticAuth{token: "abc"})

	store, err := c.MyStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, store)

	rating, err := c.MyRating(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rating)
}

func TestRatings(t *testing.T) {
	var submitted RatingInput
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/app-ratings", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&submitted))
			writeJSON(w, http.StatusCreated, models.AppRating{ID: "r1", Rating: submitted.Rating, Comment: submitted.Comment})
		}).Methods(http.MethodPost)
		r.HandleFunc("/app-ratings/approved", func(w http.ResponseWriter, req *http.Request) {
			assert.Empty(t, req.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"ratings": []map[string]any{
					{"_id": "r1", "rating": 5, "comment": "Great deals", "customerId": map[string]string{"username": "sari"}},
					{"_id": "r2", "rating": 4},
				},
			})
		}).Methods(http.MethodGet)
	})
	c := newTestClient(srv, &staticAuth{token: "abc"})

	_, err := c.SubmitRating(context.Background(), RatingInput{Rating: 6})
	require.Error(t, err)

	rating, err := c.SubmitRating(context.Background(), RatingInput{Rating: 5, Comment: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)
	assert.Equal(t, RatingInput{Rating: 5, Comment: "Nice"}, submitted)

	reviews, err := c.ApprovedRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "sari", reviews[0].AuthorName())
	assert.Equal(t, "Anonymous", reviews[1].AuthorName())
}

func TestFoodMutations(t *testing.T) {
	var updated map[string]any
	var deleted string
	srv := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/foods", func(w http.ResponseWriter, req *http.Request) {
			var in models.FoodInput
			require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
			writeJSON(w, http.StatusCreated, models.Food{ID: "f9", Name: in.Name, Price: *in.Price})
		}).Methods(http.MethodPost)
		r.HandleFunc("/foods/{id}", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&updated))
			writeJSON(w, http.StatusOK, models.Food{ID: mux.Vars(req)["id"], IsAvailable: updated["isAvailable"] == true})
		}).Methods(http.MethodPut)
		r.HandleFunc("/foods/{id}", func(w http.ResponseWriter, req *http.Request) {
			deleted = mux.Vars(req)["id"]
			writeJSON(w, http.StatusOK, map[string]string{"message": "Food deleted"})
		}).Methods(http.MethodDelete)
	})
	c := newTestClient(srv, &staticAuth{token: "abc"})

	price := 12000.0
	food, err := c.CreateFood(context.Background(), models.FoodInput{Name: "Donut Box", Price: &price, CategoryID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "f9", food.ID)

	food, err = c.SetFoodAvailability(context.Background(), "f9", false)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"isAvailable": false}, updated)
	assert.False(t, food.IsAvailable)

	require.NoError(t, c.DeleteFood(context.Background(), "f9"))
	assert.Equal(t, "f9", deleted)
}
