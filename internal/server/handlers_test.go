package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FrazRoc/podcast-network/internal/domain"
	"github.com/FrazRoc/podcast-network/internal/service"
)

type stubSource struct {
	records []domain.ConnectionRecord
}

func (s *stubSource) Records(context.Context) ([]domain.ConnectionRecord, error) {
	return s.records, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedService(t *testing.T) *service.NetworkService {
	t.Helper()
	source := &stubSource{records: []domain.ConnectionRecord{
		{SourceID: "a", SourceName: "Jane Doe", SourceImage: "https://cdn.example.com/a.jpg", TargetID: "b", TargetName: "Omar Khan", PodcastTitle: "Midnight Signal", EpisodesTogether: 10},
		{SourceID: "b", SourceName: "Omar Khan", TargetID: "c", TargetName: "Liu Chen", PodcastTitle: "Hidden Archive", EpisodesTogether: 1},
	}}
	svc := service.NewNetworkService(source, discardLogger(), 0)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return svc
}

func TestHandleHostConnections(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/host-connections", nil)
	rec := httptest.NewRecorder()

	handlers.handleHostConnections(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var records []domain.ConnectionRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PodcastTitle != "Midnight Signal" {
		t.Fatalf("unexpected podcast title %q", records[0].PodcastTitle)
	}
}

func TestHandleGraph(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	rec := httptest.NewRecorder()

	handlers.handleGraph(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload graphResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(payload.Nodes))
	}
	if len(payload.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(payload.Links))
	}
}

func TestHandleVisibleGraphIncludesFilter(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/graph/visible", nil)
	rec := httptest.NewRecorder()

	handlers.handleVisibleGraph(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload struct {
		Nodes  []nodeResponse `json:"nodes"`
		Filter struct {
			MinConnections int    `json:"minConnections"`
			Channel        string `json:"channel"`
		} `json:"filter"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 3 {
		t.Fatalf("expected 3 visible nodes, got %d", len(payload.Nodes))
	}
	if payload.Filter.MinConnections != 2 {
		t.Fatalf("expected default minConnections 2, got %d", payload.Filter.MinConnections)
	}
	if payload.Filter.Channel != "all" {
		t.Fatalf("expected default channel all, got %q", payload.Filter.Channel)
	}
}

func TestHandleGraphAvatarFallback(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	rec := httptest.NewRecorder()
	handlers.handleGraph(rec, req)

	var payload graphResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	for _, node := range payload.Nodes {
		switch node.ID {
		case "a":
			if node.Image != "https://cdn.example.com/a.jpg" {
				t.Fatalf("expected original image, got %q", node.Image)
			}
		case "b":
			if !strings.Contains(node.Image, "ui-avatars.com") {
				t.Fatalf("expected avatar fallback, got %q", node.Image)
			}
			if !strings.Contains(node.Image, "Omar+Khan") {
				t.Fatalf("expected escaped name in fallback URL, got %q", node.Image)
			}
		}
	}
}

func TestHandleGraphNotLoaded(t *testing.T) {
	svc := service.NewNetworkService(&stubSource{}, discardLogger(), 0)
	handlers := NewAPIHandlers(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	rec := httptest.NewRecorder()

	handlers.handleGraph(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHandleFiltersPatch(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	body := bytes.NewBufferString(`{"minPodcasts": 2, "channel": ""}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/filters", body)
	rec := httptest.NewRecorder()

	handlers.handleFilters(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload struct {
		MinPodcasts int    `json:"minPodcasts"`
		Channel     string `json:"channel"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.MinPodcasts != 2 {
		t.Fatalf("expected minPodcasts 2, got %d", payload.MinPodcasts)
	}
	if payload.Channel != "all" {
		t.Fatalf("expected empty channel to normalize to all, got %q", payload.Channel)
	}
}

func TestHandleFiltersRejectsUnknownFields(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	body := bytes.NewBufferString(`{"minNonsense": 2}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/filters", body)
	rec := httptest.NewRecorder()

	handlers.handleFilters(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleSelectNode(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	body := bytes.NewBufferString(`{"id": "b"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/selection/node", body)
	rec := httptest.NewRecorder()

	handlers.handleSelectNode(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload highlightResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 3 {
		t.Fatalf("expected 3 highlighted nodes, got %d", len(payload.Nodes))
	}
	if len(payload.SelectedLinks) != 2 {
		t.Fatalf("expected 2 selected links, got %d", len(payload.SelectedLinks))
	}
}

func TestHandleSelectNodeUnknown(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	body := bytes.NewBufferString(`{"id": "zz"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/selection/node", body)
	rec := httptest.NewRecorder()

	handlers.handleSelectNode(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleSelectLinkAndClear(t *testing.T) {
	svc := loadedService(t)
	handlers := NewAPIHandlers(discardLogger(), svc)

	body := bytes.NewBufferString(`{"source": "b", "target": "c", "podcast": "Hidden Archive"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/selection/link", body)
	rec := httptest.NewRecorder()
	handlers.handleSelectLink(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/selection", nil)
	rec = httptest.NewRecorder()
	handlers.handleSelection(rec, req)

	var payload highlightResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 0 {
		t.Fatalf("expected cleared selection, got %d nodes", len(payload.Nodes))
	}
}

func TestHandleHoverUnionsHighlight(t *testing.T) {
	svc := loadedService(t)
	handlers := NewAPIHandlers(discardLogger(), svc)

	body := bytes.NewBufferString(`{"id": "a"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/selection/node", body)
	handlers.handleSelectNode(httptest.NewRecorder(), req)

	body = bytes.NewBufferString(`{"id": "c"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/selection/hover", body)
	rec := httptest.NewRecorder()
	handlers.handleHover(rec, req)

	var payload highlightResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Nodes) != 3 {
		t.Fatalf("expected union of selection and hover, got %d nodes", len(payload.Nodes))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handlers := NewAPIHandlers(discardLogger(), loadedService(t))

	req := httptest.NewRequest(http.MethodPost, "/api/graph", nil)
	rec := httptest.NewRecorder()

	handlers.handleGraph(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("expected Allow header GET, got %q", allow)
	}
}

func TestRouterHealthz(t *testing.T) {
	router := NewRouter(discardLogger(), RouterDependencies{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestParseLayoutQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/layout/stream?width=800&height=600&view=visible", nil)
	vp, view, err := parseLayoutQuery(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.Width != 800 || vp.Height != 600 {
		t.Fatalf("unexpected viewport %+v", vp)
	}
	if view != service.ViewVisible {
		t.Fatalf("unexpected view %q", view)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/layout/stream?width=800", nil)
	if _, _, err := parseLayoutQuery(req); err == nil {
		t.Fatal("expected error for missing height")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/layout/stream?width=-10&height=600", nil)
	if _, _, err := parseLayoutQuery(req); err == nil {
		t.Fatal("expected error for negative width")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/layout/stream?width=800&height=600", nil)
	if _, view, err := parseLayoutQuery(req); err != nil || view != service.ViewCanonical {
		t.Fatalf("expected canonical default view, got %q (%v)", view, err)
	}
}
