package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"domainwatch/internal/notify"
)

// ChannelHandler handles notification-channel API requests
type ChannelHandler struct {
	DB         *sql.DB
	Dispatcher *notify.Dispatcher
}

// NewChannelHandler creates a new channel handler
func NewChannelHandler(database *sql.DB, dispatcher *notify.Dispatcher) *ChannelHandler {
	return &ChannelHandler{DB: database, Dispatcher: dispatcher}
}

type channelRequest struct {
	Name        string          `json:"name"`
	ChannelType string          `json:"channel_type"`
	Config      json.RawMessage `json:"config"`
	Enabled     *bool           `json:"enabled"`
}

func (req *channelRequest) toChannel() (*notify.Channel, error) {
	ch := &notify.Channel{
		Name:        strings.TrimSpace(req.Name),
		ChannelType: req.ChannelType,
		ConfigJSON:  string(req.Config),
		Enabled:     boolOr(req.Enabled, true),
	}
	if ch.Name == "" {
		ch.Name = ch.ChannelType
	}
	return ch, notify.ValidateChannel(ch.ChannelType, ch.ConfigJSON)
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := notify.ListChannels(h.DB)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if channels == nil {
		channels = []notify.Channel{}
	}
	respondJSON(w, channels)
}

// CreateChannel handles POST /api/channels
func (h *ChannelHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ch, err := req.toChannel()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := notify.CreateChannel(h.DB, ch)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ch.ID = id

	respondJSONStatus(w, http.StatusCreated, ch)
}

// UpdateChannel handles PUT /api/channels/{id}
func (h *ChannelHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid channel id", http.StatusBadRequest)
		return
	}

	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ch, err := req.toChannel()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ch.ID = id

	if err := notify.UpdateChannel(h.DB, ch); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, "channel not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, ch)
}

// DeleteChannel handles DELETE /api/channels/{id}
func (h *ChannelHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid channel id", http.StatusBadRequest)
		return
	}

	if err := notify.DeleteChannel(h.DB, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, "channel not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]string{"status": "deleted"})
}

// TestChannel handles POST /api/channels/test
// Sends a test message through the submitted configuration without
// saving it.
func (h *ChannelHandler) TestChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ch, err := req.toChannel()
	if err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	if err := h.Dispatcher.TestSend(*ch); err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	respondJSON(w, map[string]interface{}{"success": true})
}
