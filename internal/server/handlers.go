package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/FrazRoc/podcast-network/internal/domain"
	"github.com/FrazRoc/podcast-network/internal/graph"
	"github.com/FrazRoc/podcast-network/internal/selection"
	"github.com/FrazRoc/podcast-network/internal/service"
)

// APIHandlers exposes HTTP handlers for the network API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.NetworkService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.NetworkService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleHostConnections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	records := h.service.Connections()
	if records == nil {
		records = []domain.ConnectionRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *APIHandlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	g, err := h.service.Graph()
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGraphResponse(g))
}

func (h *APIHandlers) handleVisibleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	g, err := h.service.Visible()
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visibleGraphResponse{
		graphResponse: toGraphResponse(g),
		Filter:        h.service.Filter(),
	})
}

func (h *APIHandlers) handleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, h.service.Filter())
	case http.MethodPatch:
		var patch graph.SpecPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		spec := h.service.UpdateFilter(patch)
		respondJSON(w, http.StatusOK, spec)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch)
	}
}

func (h *APIHandlers) handleSelectNode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload nodeSelectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if !h.service.SelectNode(payload.ID) {
		writeError(w, http.StatusNotFound, "unknown node")
		return
	}
	respondJSON(w, http.StatusOK, toHighlightResponse(h.service.Highlight()))
}

func (h *APIHandlers) handleSelectLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload linkSelectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Source == "" || payload.Target == "" {
		writeError(w, http.StatusBadRequest, "source and target are required")
		return
	}

	if !h.service.SelectLink(payload.Source, payload.Target, payload.Podcast) {
		writeError(w, http.StatusNotFound, "unknown link")
		return
	}
	respondJSON(w, http.StatusOK, toHighlightResponse(h.service.Highlight()))
}

func (h *APIHandlers) handleHover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload nodeSelectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.service.Hover(payload.ID)
	respondJSON(w, http.StatusOK, toHighlightResponse(h.service.Highlight()))
}

func (h *APIHandlers) handleSelection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, toHighlightResponse(h.service.Highlight()))
	case http.MethodDelete:
		h.service.ClearSelection()
		respondJSON(w, http.StatusOK, toHighlightResponse(h.service.Highlight()))
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (h *APIHandlers) writeGraphError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotLoaded) {
		writeError(w, http.StatusServiceUnavailable, "network not loaded")
		return
	}
	h.logger.Error("graph request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to read graph")
}

// --- Response DTOs ---

type graphResponse struct {
	Nodes []nodeResponse `json:"nodes"`
	Links []linkResponse `json:"links"`
}

type visibleGraphResponse struct {
	graphResponse
	Filter graph.Spec `json:"filter"`
}

type nodeResponse struct {
	ID       domain.HostID `json:"id"`
	Name     string        `json:"name"`
	Image    string        `json:"img"`
	Role     string        `json:"role"`
	Channel  string        `json:"channel"`
	Genre    string        `json:"genre"`
	Podcasts []string      `json:"podcasts"`
	Val      int           `json:"val"`
}

type linkResponse struct {
	Source  domain.HostID `json:"source"`
	Target  domain.HostID `json:"target"`
	Podcast string        `json:"podcast"`
	Value   int           `json:"value"`
}

type nodeSelectionRequest struct {
	ID domain.HostID `json:"id"`
}

type linkSelectionRequest struct {
	Source  domain.HostID `json:"source"`
	Target  domain.HostID `json:"target"`
	Podcast string        `json:"podcast"`
}

type highlightResponse struct {
	Nodes         []domain.HostID `json:"nodes"`
	Links         []linkResponse  `json:"links"`
	SelectedLinks []linkResponse  `json:"selectedLinks"`
}

func toGraphResponse(g *domain.Graph) graphResponse {
	resp := graphResponse{
		Nodes: make([]nodeResponse, 0, len(g.Nodes)),
		Links: make([]linkResponse, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		resp.Nodes = append(resp.Nodes, nodeResponse{
			ID:       n.ID,
			Name:     n.Name,
			Image:    avatarURL(n),
			Role:     n.Role,
			Channel:  n.Channel,
			Genre:    n.Genre,
			Podcasts: n.Podcasts,
			Val:      n.Val,
		})
	}
	for _, l := range g.Links {
		resp.Links = append(resp.Links, toLinkResponse(l))
	}
	return resp
}

func toLinkResponse(l *domain.Link) linkResponse {
	return linkResponse{
		Source:  l.Source,
		Target:  l.Target,
		Podcast: l.Podcast,
		Value:   l.Value,
	}
}

func toHighlightResponse(h selection.Highlight) highlightResponse {
	resp := highlightResponse{
		Nodes:         h.Nodes,
		Links:         []linkResponse{},
		SelectedLinks: []linkResponse{},
	}
	if resp.Nodes == nil {
		resp.Nodes = []domain.HostID{}
	}
	for _, l := range h.Links {
		resp.Links = append(resp.Links, toLinkResponse(l))
	}
	for _, l := range h.SelectedLinks {
		resp.SelectedLinks = append(resp.SelectedLinks, toLinkResponse(l))
	}
	return resp
}

// avatarURL falls back to a generated initials avatar when a host carries
// no image, matching how the upstream feed rendered imageless hosts.
func avatarURL(n *domain.Host) string {
	if n.Image != "" {
		return n.Image
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(n.Name)
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
