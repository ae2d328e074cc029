package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/i18n"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
	"github.com/mealdash/mealadmin/internal/mutate"
)

func newTestDeps(t *testing.T, handler http.Handler) (Deps, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(srv.URL, "test-token", 5*time.Second, log)
	lookups := lookup.NewCache(i18n.English, nil, time.Hour, log)
	exec := mutate.New(client, mutate.ConfirmerFunc(func(string) bool { return true }), i18n.English, log)

	return Deps{Client: client, Lookups: lookups, Exec: exec, Log: log}, srv
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, data any, page *api.Pagination) {
	t.Helper()
	body := map[string]any{"data": data}
	if page != nil {
		body["pagination"] = page
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
}

func TestAddressesListPagination(t *testing.T) {
	t.Run("server pagination passes through", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/admin/addresses", func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("page"); got != "2" {
				t.Errorf("page query = %q, want %q", got, "2")
			}
			writeEnvelope(t, w, []model.Address{{ID: 11}, {ID: 12}},
				&api.Pagination{CurrentPage: 2, PerPage: 2, Total: 5, TotalPages: 3})
		})
		deps, _ := newTestDeps(t, mux)

		q := listing.NewQuery(2)
		q.SetPage(2)
		items, page, err := NewAddresses(deps).List(context.Background(), q)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		if page.TotalPages != 3 || page.CurrentPage != 2 {
			t.Errorf("pagination = %+v, want current 2 of 3", page)
		}
	})

	t.Run("missing pagination falls back to the request", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/admin/addresses", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, []model.Address{{ID: 1}}, nil)
		})
		deps, _ := newTestDeps(t, mux)

		_, page, err := NewAddresses(deps).List(context.Background(), listing.NewQuery(10))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.CurrentPage != 1 || page.Total != 1 || page.TotalPages != 1 {
			t.Errorf("fallback pagination = %+v", page)
		}
	})

	t.Run("fetch failure surfaces the error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/admin/addresses", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		deps, _ := newTestDeps(t, mux)

		if _, _, err := NewAddresses(deps).List(context.Background(), listing.NewQuery(10)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestMealsFullSetMemoization(t *testing.T) {
	var fetches int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/meals", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		writeEnvelope(t, w, []model.Meal{
			{ID: 1, NameEN: "Falafel Wrap"},
			{ID: 2, NameEN: "Shawarma Plate"},
		}, nil)
	})
	deps, _ := newTestDeps(t, mux)
	meals := NewMeals(deps)

	q := listing.NewQuery(10)
	if _, err := meals.List(context.Background(), q); err != nil {
		t.Fatalf("List: %v", err)
	}
	q.SetPage(2)
	if _, err := meals.List(context.Background(), q); err != nil {
		t.Fatalf("List: %v", err)
	}
	q.SetSort("name")
	if _, err := meals.List(context.Background(), q); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("page and sort changes refetched: %d fetches, want 1", fetches)
	}

	q.SetSearch("falafel")
	res, err := meals.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("search change did not refetch: %d fetches, want 2", fetches)
	}
	if len(res.Items) != 1 || res.Items[0].ID != 1 {
		t.Fatalf("search result = %+v, want meal 1 only", res.Items)
	}

	meals.Invalidate()
	if _, err := meals.List(context.Background(), q); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fetches != 3 {
		t.Fatalf("invalidate did not refetch: %d fetches, want 3", fetches)
	}
}

func TestMealsFilterAndDerivedSort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/meals", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.Meal{
			{ID: 1, RestaurantID: 2, NameEN: "Lentil Soup", MealType: "lunch"},
			{ID: 2, RestaurantID: 1, NameEN: "Omelette", MealType: "breakfast"},
			{ID: 3, RestaurantID: 1, NameEN: "Grilled Chicken", MealType: "lunch"},
		}, nil)
	})
	mux.HandleFunc("/api/admin/restaurants/list", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.Restaurant{
			{ID: 1, NameEN: "Zest Kitchen", NameAR: "مطبخ زست"},
			{ID: 2, NameEN: "Amber Grill", NameAR: "مشويات العنبر"},
		}, nil)
	})
	deps, _ := newTestDeps(t, mux)
	meals := NewMeals(deps)
	meals.LoadLookups(context.Background())

	q := listing.NewQuery(10)
	q.SetFilter("meal_type", "lunch")
	q.SetSort("restaurant")
	res, err := meals.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d lunch meals, want 2", len(res.Items))
	}
	// Sorted by resolved label: Amber Grill before Zest Kitchen.
	if res.Items[0].ID != 1 || res.Items[1].ID != 3 {
		t.Errorf("restaurant sort order = [%d %d], want [1 3]", res.Items[0].ID, res.Items[1].ID)
	}
	if got := meals.RestaurantLabel(res.Items[0]); got != "Amber Grill" {
		t.Errorf("RestaurantLabel = %q, want %q", got, "Amber Grill")
	}
}

func TestPaymentsRestaurantLabel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/restaurants/list", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.Restaurant{{ID: 7, NameEN: "Olive Branch"}}, nil)
	})
	mux.HandleFunc("/api/admin/users/list", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.User{}, nil)
	})
	deps, _ := newTestDeps(t, mux)
	payments := NewPayments(deps)
	payments.LoadLookups(context.Background())

	if got := payments.RestaurantLabel(model.Payment{RestaurantID: 7}); got != "Olive Branch" {
		t.Errorf("resolved label = %q, want %q", got, "Olive Branch")
	}
	if got := payments.RestaurantLabel(model.Payment{}); got != i18n.T(i18n.English, "not_available") {
		t.Errorf("missing join label = %q, want the fixed placeholder", got)
	}
}

func TestPaymentsStatisticsDegrades(t *testing.T) {
	t.Run("served when available", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/admin/payments/statistics", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, model.PaymentStatistics{TotalCount: 42, TotalAmount: decimal.NewFromInt(900)}, nil)
		})
		deps, _ := newTestDeps(t, mux)

		stats := NewPayments(deps).Statistics(context.Background())
		if stats.TotalCount != 42 {
			t.Errorf("TotalCount = %d, want 42", stats.TotalCount)
		}
	})

	t.Run("failure degrades to zeros", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/admin/payments/statistics", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusBadGateway)
		})
		deps, _ := newTestDeps(t, mux)

		stats := NewPayments(deps).Statistics(context.Background())
		if stats.TotalCount != 0 || !stats.TotalAmount.IsZero() {
			t.Errorf("degraded stats = %+v, want zero block", stats)
		}
	})
}

func TestSubscriptionsStatusFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.Subscription{
			{ID: 1, Status: "active"},
			{ID: 2, Status: "cancelled"},
			{ID: 3, Status: "active"},
		}, nil)
	})
	mux.HandleFunc("/api/admin/users/list", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.User{}, nil)
	})
	mux.HandleFunc("/api/admin/restaurants/list", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []model.Restaurant{}, nil)
	})
	deps, _ := newTestDeps(t, mux)
	subs := NewSubscriptions(deps)
	subs.LoadLookups(context.Background())

	q := listing.NewQuery(10)
	q.SetFilter("status", "active")
	res, err := subs.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d active subscriptions, want 2", len(res.Items))
	}

	q.SetFilter("status", "all")
	res, err = subs.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Items) != 3 {
		t.Fatalf("sentinel filter dropped rows: got %d, want 3", len(res.Items))
	}
}

func TestUsersCreateForm(t *testing.T) {
	deps, _ := newTestDeps(t, http.NewServeMux())
	users := NewUsers(deps)

	user := model.User{Name: "Amira", Email: "amira@example.com", Phone: "0500000000", Role: "customer"}

	t.Run("password mismatch rejected", func(t *testing.T) {
		if _, err := users.CreateForm(user, "longenough1", "different1"); err == nil {
			t.Fatal("expected mismatch error, got nil")
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		if _, err := users.CreateForm(user, "short", "short"); err == nil {
			t.Fatal("expected length error, got nil")
		}
	})

	t.Run("valid draft passes validation", func(t *testing.T) {
		f, err := users.CreateForm(user, "longenough1", "longenough1")
		if err != nil {
			t.Fatalf("CreateForm: %v", err)
		}
		if err := f.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("missing required field fails validation", func(t *testing.T) {
		f, err := users.CreateForm(model.User{Name: "Amira"}, "longenough1", "longenough1")
		if err != nil {
			t.Fatalf("CreateForm: %v", err)
		}
		if err := f.Validate(); err == nil {
			t.Fatal("expected validation error, got nil")
		}
	})
}

func TestReportsExport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/payments", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date_from"); got != "2026-08-01" {
			t.Errorf("date_from = %q, want %q", got, "2026-08-01")
		}
		writeEnvelope(t, w, []model.Payment{
			{ID: 1, UserID: 5, Amount: decimal.NewFromInt(120), DeliveryPrice: decimal.NewFromInt(20), Method: "card", Status: "completed"},
		}, nil)
	})
	mux.HandleFunc("/api/admin/payments/statistics", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, model.PaymentStatistics{TotalCount: 1, CompletedCount: 1, TotalAmount: decimal.NewFromInt(120)}, nil)
	})
	deps, _ := newTestDeps(t, mux)
	reports := NewReports(deps, t.TempDir())

	rng := DateRange{From: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	rep, err := reports.PaymentsReport(context.Background(), rng)
	if err != nil {
		t.Fatalf("PaymentsReport: %v", err)
	}
	if len(rep.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rep.Rows))
	}
	if rep.Rows[0][4] != "100.00" {
		t.Errorf("net column = %q, want %q", rep.Rows[0][4], "100.00")
	}

	path, err := reports.ExportTabDelimited(rep)
	if err != nil {
		t.Fatalf("ExportTabDelimited: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "\xEF\xBB\xBF") {
		t.Error("export does not start with a BOM")
	}
	if !strings.Contains(content, "Total payments\t1") {
		t.Error("export is missing the summary block")
	}
}

func TestFetchKey(t *testing.T) {
	q := listing.NewQuery(10)
	q.SetSearch("wrap")
	q.SetFilter("meal_type", "lunch")
	q.SetFilter("availability", "all")

	key := fetchKey(q)
	if strings.Contains(key, "availability") {
		t.Errorf("sentinel filter leaked into the memo key: %q", key)
	}

	q2 := listing.NewQuery(25)
	q2.SetSearch("wrap")
	q2.SetFilter("meal_type", "lunch")
	q2.SetSort("name")
	if fetchKey(q2) != key {
		t.Errorf("page, sort, and per-page must not affect the key: %q vs %q", fetchKey(q2), key)
	}
}
