// Package gateway provides the HTTP API server that exposes the dealership
// tools to agent platforms, with WebSocket invocation, Bearer auth, and
// load stats.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/qmotors/dealerbot-go/internal/tools"
)

// Server is the tool gateway HTTP server.
type Server struct {
	port       int
	apiKey     string
	instanceID string
	registry   *tools.Registry

	// WebSocket
	wsConns map[*wsConn]bool
	wsMu    sync.Mutex

	// Load stats
	activeRequests atomic.Int64
	totalRequests  atomic.Int64
	totalLatencyMs atomic.Int64
	startTime      time.Time

	mux *http.ServeMux
	srv *http.Server
}

// ServerConfig configures the gateway Server.
type ServerConfig struct {
	Port       int
	APIKey     string
	InstanceID string
	Registry   *tools.Registry
}

// NewServer creates a new gateway server.
func NewServer(cfg ServerConfig) *Server {
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	s := &Server{
		port:       cfg.Port,
		apiKey:     cfg.APIKey,
		instanceID: cfg.InstanceID,
		registry:   cfg.Registry,
		wsConns:    make(map[*wsConn]bool),
		startTime:  time.Now(),
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/api/status", s.withAuth(s.handleStatus))
	s.mux.HandleFunc("/api/load", s.withAuth(s.handleLoad))
	s.mux.HandleFunc("/api/tools", s.withAuth(s.handleTools))
	s.mux.HandleFunc("/api/tools/invoke", s.withAuth(s.handleInvoke))

	return s
}

// Start starts the HTTP server and the WS heartbeat loop. Blocks until the
// context is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler: s.mux,
	}

	log.Printf("[Gateway] HTTP API → http://0.0.0.0:%d", s.port)
	log.Printf("[Gateway] WebSocket → ws://0.0.0.0:%d/ws", s.port)
	log.Printf("[Gateway] %d tools registered", s.registry.Len())

	go s.heartbeatLoop(ctx)

	go func() {
		<-ctx.Done()
		s.closeAllWS()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the server gracefully.
func (s *Server) Stop() {
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(ctx)
	}
}

// --- Auth middleware ---

func (s *Server) withAuth(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+s.apiKey {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
		}
		handler(w, r)
	}
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":     "ok",
		"instanceId": s.instanceID,
		"uptime":     int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, s.registry.Len())
	for _, t := range s.registry.All() {
		names = append(names, t.Name())
	}
	writeJSON(w, map[string]any{
		"instanceId":     s.instanceID,
		"uptime":         int(time.Since(s.startTime).Seconds()),
		"activeRequests": s.activeRequests.Load(),
		"totalRequests":  s.totalRequests.Load(),
		"tools":          names,
		"toolCount":      s.registry.Len(),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, _ *http.Request) {
	total := s.totalRequests.Load()
	var avgMs int64
	if total > 0 {
		avgMs = s.totalLatencyMs.Load() / total
	}
	writeJSON(w, map[string]any{
		"activeRequests": s.activeRequests.Load(),
		"totalRequests":  total,
		"avgLatencyMs":   avgMs,
	})
}

// handleTools returns the registered tool schemas in OpenAI function format.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"tools": s.registry.Schemas(),
		"total": s.registry.Len(),
	})
}

// invokeRequest is the JSON body for /api/tools/invoke.
type invokeRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	invocationID := uuid.NewString()
	result, latency, err := s.invoke(r.Context(), req)
	if err != nil {
		if err == errUnknownTool {
			writeJSONError(w, fmt.Sprintf("unknown tool: %s", req.Name), http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"invocationId": invocationID,
		"name":         req.Name,
		"result":       result,
		"latencyMs":    latency.Milliseconds(),
	})
}

var errUnknownTool = fmt.Errorf("unknown tool")

// invoke runs one tool and accounts the request in the load stats. The
// result comes back as raw JSON so the response embeds it unescaped.
func (s *Server) invoke(ctx context.Context, req invokeRequest) (json.RawMessage, time.Duration, error) {
	tool := s.registry.Get(req.Name)
	if tool == nil {
		return nil, 0, errUnknownTool
	}

	s.activeRequests.Add(1)
	start := time.Now()
	defer func() {
		s.activeRequests.Add(-1)
		s.totalRequests.Add(1)
		s.totalLatencyMs.Add(time.Since(start).Milliseconds())
	}()

	out, err := tool.Execute(ctx, req.Arguments)
	if err != nil {
		return nil, 0, fmt.Errorf("tool %s failed: %w", req.Name, err)
	}
	return json.RawMessage(out), time.Since(start), nil
}

// --- WebSocket ---

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn wraps a websocket.Conn with a write mutex for thread safety.
// gorilla/websocket does NOT support concurrent writes.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) WriteJSONSafe(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

func (c *wsConn) WritePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) WriteCloseSafe(code int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text))
}

// handleWS is the WebSocket endpoint for streaming tool invocation.
//
// Protocol:
//
//	client → gateway:  {"type": "invoke", "id": "...", "name": "...", "arguments": {...}}
//	gateway → client:  {"type": "result", "id": "...", "invocationId": "...", "result": {...}}
//	client → gateway:  {"type": "ping"}  → gateway replies with pong + load
//	gateway → client:  {"type": "heartbeat", "instanceId": "...", "load": {...}} every 10s
//
// Auth: connect with ?key=<apiKey>, mismatch returns 403.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" {
		key := r.URL.Query().Get("key")
		if key != s.apiKey {
			log.Printf("[WS] API key mismatch: %s", r.RemoteAddr)
			http.Error(w, "Invalid API key", http.StatusForbidden)
			return
		}
	}

	raw, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	conn := &wsConn{Conn: raw}
	peer := r.RemoteAddr
	log.Printf("[WS] Connected: %s", peer)

	s.wsMu.Lock()
	s.wsConns[conn] = true
	s.wsMu.Unlock()

	defer func() {
		raw.Close()
		s.wsMu.Lock()
		delete(s.wsConns, conn)
		s.wsMu.Unlock()
		log.Printf("[WS] Disconnected: %s", peer)
	}()

	// Pong or any message extends the read deadline.
	raw.SetReadDeadline(time.Now().Add(60 * time.Second))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Error: %v", err)
			}
			break
		}

		raw.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg struct {
			Type      string         `json:"type"`
			ID        string         `json:"id"`
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "ping":
			conn.WriteJSONSafe(map[string]any{
				"type":       "pong",
				"instanceId": s.instanceID,
				"load":       s.loadSnapshot(),
			})

		case "invoke":
			// Each invocation runs in its own goroutine so a slow
			// backend call does not stall the read loop.
			go s.wsInvoke(r.Context(), conn, msg.ID, invokeRequest{
				Name:      msg.Name,
				Arguments: msg.Arguments,
			})
		}
	}
}

func (s *Server) wsInvoke(ctx context.Context, conn *wsConn, id string, req invokeRequest) {
	invocationID := uuid.NewString()
	result, latency, err := s.invoke(ctx, req)
	if err != nil {
		conn.WriteJSONSafe(map[string]any{
			"type":  "error",
			"id":    id,
			"error": err.Error(),
		})
		return
	}
	conn.WriteJSONSafe(map[string]any{
		"type":         "result",
		"id":           id,
		"invocationId": invocationID,
		"name":         req.Name,
		"result":       result,
		"latencyMs":    latency.Milliseconds(),
	})
}

func (s *Server) loadSnapshot() map[string]any {
	total := s.totalRequests.Load()
	var avgMs int64
	if total > 0 {
		avgMs = s.totalLatencyMs.Load() / total
	}
	return map[string]any{
		"activeRequests": s.activeRequests.Load(),
		"totalRequests":  total,
		"avgLatencyMs":   avgMs,
	}
}

// heartbeatLoop sends WS ping frames + JSON heartbeat every 10 seconds.
func (s *Server) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastHeartbeat()
		}
	}
}

// broadcastHeartbeat sends WS-level pings + JSON heartbeat to all connections.
func (s *Server) broadcastHeartbeat() {
	s.wsMu.Lock()
	if len(s.wsConns) == 0 {
		s.wsMu.Unlock()
		return
	}
	conns := make([]*wsConn, 0, len(s.wsConns))
	for c := range s.wsConns {
		conns = append(conns, c)
	}
	s.wsMu.Unlock()

	payload := map[string]any{
		"type":       "heartbeat",
		"instanceId": s.instanceID,
		"load":       s.loadSnapshot(),
	}

	var dead []*wsConn
	for _, c := range conns {
		if err := c.WritePing(); err != nil {
			dead = append(dead, c)
			continue
		}
		if err := c.WriteJSONSafe(payload); err != nil {
			dead = append(dead, c)
		}
	}

	if len(dead) > 0 {
		s.wsMu.Lock()
		for _, c := range dead {
			delete(s.wsConns, c)
			c.Close()
		}
		s.wsMu.Unlock()
	}
}

// closeAllWS closes all WebSocket connections (called on shutdown).
func (s *Server) closeAllWS() {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	for c := range s.wsConns {
		c.WriteCloseSafe(websocket.CloseGoingAway, "server shutdown")
		c.Close()
		delete(s.wsConns, c)
	}
}

// WSConnectionCount returns the number of active WebSocket connections.
func (s *Server) WSConnectionCount() int {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	return len(s.wsConns)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
