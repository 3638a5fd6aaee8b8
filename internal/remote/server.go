package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/chalkline/accord/internal/negotiation"
)

// Server exposes a local reviewer over HTTP/JSON-RPC so other processes can
// call it through the review/analyze method.
type Server struct {
	reviewer negotiation.Reviewer
	card     ReviewerCard
	http     *http.Server
}

// NewServer wraps a reviewer for remote serving.
func NewServer(rev negotiation.Reviewer) *Server {
	return &Server{
		reviewer: rev,
		card: ReviewerCard{
			Name:    rev.Name(),
			Role:    rev.Kind(),
			Version: "1.0",
		},
	}
}

// Card returns the discovery card the server publishes.
func (s *Server) Card() ReviewerCard {
	return s.card
}

// Start registers routes and begins serving. It returns immediately after
// starting the server in a background goroutine.
func (s *Server) Start(_ context.Context, addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /.well-known/reviewer-card.json", s.handleCard)
	mux.HandleFunc("POST /", s.handleJSONRPC)

	s.card.Endpoint = "http://" + addr
	s.http = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("remote: reviewer %s server: %v", s.card.Role, err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for embedding in an existing mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/reviewer-card.json", s.handleCard)
	mux.HandleFunc("POST /", s.handleJSONRPC)
	return mux
}

// handleCard serves the reviewer card at the well-known endpoint.
func (s *Server) handleCard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.card); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleJSONRPC processes incoming JSON-RPC 2.0 requests.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONRPCError(w, nil, ErrCodeParse, "Parse error: "+err.Error())
		return
	}

	switch req.Method {
	case MethodAnalyze:
		s.dispatchAnalyze(r.Context(), w, &req)
	default:
		writeJSONRPCError(w, req.ID, ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// dispatchAnalyze unmarshals params and runs the wrapped reviewer.
func (s *Server) dispatchAnalyze(ctx context.Context, w http.ResponseWriter, req *JSONRPCRequest) {
	var params AnalyzeRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
		return
	}
	if params.Plan == nil {
		writeJSONRPCError(w, req.ID, ErrCodeInvalidParams, "Invalid params: plan is required")
		return
	}

	rc := negotiation.ReviewContext{
		TargetPositions: params.TargetPositions,
		Round:           params.Round,
	}
	changes, err := s.reviewer.Analyze(ctx, params.Plan, rc)
	if err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInternal, err.Error())
		return
	}

	writeJSONRPCResult(w, req.ID, AnalyzeResponse{Suggestions: changes})
}

// writeJSONRPCResult writes a successful JSON-RPC response.
func writeJSONRPCResult(w http.ResponseWriter, id any, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		writeJSONRPCError(w, id, ErrCodeInternal, "Failed to marshal result: "+err.Error())
		return
	}

	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  data,
	}

	json.NewEncoder(w).Encode(resp)
}

// writeJSONRPCError writes a JSON-RPC error response.
func writeJSONRPCError(w http.ResponseWriter, id any, code int, message string) {
	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}

	json.NewEncoder(w).Encode(resp)
}
