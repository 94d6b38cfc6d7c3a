package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/handler"
)

// mockContentServicer is a test double for handler.ContentServicer.
type mockContentServicer struct {
	get    func(ctx context.Context, key string) (domain.SiteContent, error)
	list   func(ctx context.Context) ([]domain.SiteContent, error)
	upsert func(ctx context.Context, c domain.SiteContent) (domain.SiteContent, error)
}

func (m *mockContentServicer) Get(ctx context.Context, key string) (domain.SiteContent, error) {
	return m.get(ctx, key)
}
func (m *mockContentServicer) List(ctx context.Context) ([]domain.SiteContent, error) {
	return m.list(ctx)
}
func (m *mockContentServicer) Upsert(ctx context.Context, c domain.SiteContent) (domain.SiteContent, error) {
	return m.upsert(ctx, c)
}

var _ handler.ContentServicer = (*mockContentServicer)(nil)

func contentHandler(svc handler.ContentServicer) http.Handler {
	srv := handler.NewServer(nil, nil, nil, nil, nil, nil, nil, nil, svc)
	return srv.Routes()
}

func TestUpsertContent(t *testing.T) {
	var got domain.SiteContent
	svc := &mockContentServicer{
		upsert: func(_ context.Context, c domain.SiteContent) (domain.SiteContent, error) {
			got = c
			return c, nil
		},
	}
	h := contentHandler(svc)

	body := strings.NewReader(`{"title":"Voyagez entre la France et le Maroc"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/content/homepage-hero", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "homepage-hero", got.Key)
	assert.JSONEq(t, `{"title":"Voyagez entre la France et le Maroc"}`, string(got.Value))
}

func TestUpsertContent_InvalidJSON(t *testing.T) {
	h := contentHandler(&mockContentServicer{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/content/homepage-hero", strings.NewReader(`{"title":`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetContent_NotFound(t *testing.T) {
	svc := &mockContentServicer{
		get: func(_ context.Context, _ string) (domain.SiteContent, error) {
			return domain.SiteContent{}, domain.ErrNotFound
		},
	}
	h := contentHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListContent(t *testing.T) {
	svc := &mockContentServicer{
		list: func(_ context.Context) ([]domain.SiteContent, error) {
			return []domain.SiteContent{
				{Key: "homepage-hero", Value: json.RawMessage(`{}`)},
				{Key: "faq", Value: json.RawMessage(`[]`)},
			}, nil
		},
	}
	h := contentHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.SiteContent `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "homepage-hero", resp.Data[0].Key)
}
