package sbb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fdk/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/objects", func(w http.ResponseWriter, r *http.Request) {
		if lang := r.URL.Query().Get("language"); lang != "de" {
			t.Errorf("expected language de, got %q", lang)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingFixture))
	})
	mux.HandleFunc("/objects/OBJ_BR_110", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(detailFixture))
	})
	mux.HandleFunc("/objects/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	server := newTestServer(t)
	return New(Config{BaseURL: server.URL})
}

func TestClient_FetchListing(t *testing.T) {
	client := newTestClient(t)

	listing, err := client.FetchListing(context.Background(), "de")
	if err != nil {
		t.Fatalf("fetch listing failed: %v", err)
	}

	if listing.TotalCount != 2 || len(listing.Objects) != 2 {
		t.Errorf("unexpected listing: count=%d objects=%d", listing.TotalCount, len(listing.Objects))
	}
	if listing.Release.Name != "2025-03" {
		t.Errorf("expected release 2025-03, got %s", listing.Release.Name)
	}
}

func TestClient_FetchObject(t *testing.T) {
	client := newTestClient(t)

	obj, err := client.FetchObject(context.Background(), "OBJ_BR_110", "de")
	if err != nil {
		t.Fatalf("fetch object failed: %v", err)
	}

	if obj.ID != "OBJ_BR_110" || !obj.IsDetail() {
		t.Errorf("unexpected object: %+v", obj)
	}
}

func TestClient_FetchObjectNotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.FetchObject(context.Background(), "OBJ_MISSING", "de")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if notFound.ObjectID != "OBJ_MISSING" {
		t.Errorf("expected object id OBJ_MISSING, got %s", notFound.ObjectID)
	}
	if domain.IsRetryable(err) {
		t.Error("not-found errors must not be retryable")
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := New(Config{BaseURL: server.URL})

	_, err := client.FetchListing(context.Background(), "de")
	if err == nil {
		t.Fatal("expected error for server failure")
	}

	var srcErr *domain.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %T", err)
	}
	if !domain.IsRetryable(err) {
		t.Error("server errors should be retryable")
	}
}

func TestClient_UnsupportedLanguage(t *testing.T) {
	client := New(Config{BaseURL: "http://localhost:0"})

	_, err := client.FetchListing(context.Background(), "es")
	if !errors.Is(err, domain.ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}

	_, err = client.FetchObject(context.Background(), "OBJ_1", "pt")
	if !errors.Is(err, domain.ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}
}

func TestClient_SupportedLanguages(t *testing.T) {
	client := New(Config{})

	langs := client.SupportedLanguages()
	want := []string{"de", "fr", "it", "en"}
	if len(langs) != len(want) {
		t.Fatalf("expected %v, got %v", want, langs)
	}
	for i := range want {
		if langs[i] != want[i] {
			t.Errorf("language %d: expected %s, got %s", i, want[i], langs[i])
		}
	}
}
