// Package server hosts the tagger behind an HTTP JSON API with a WebSocket
// endpoint for streaming results.
//
// The index is built once before the server starts and shared read-only by
// every request; the core needs no locking.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/intersame/qurantagger/core/index"
	"github.com/intersame/qurantagger/core/quran"
	"github.com/intersame/qurantagger/core/stopwords"
	"github.com/intersame/qurantagger/core/tagger"
	"github.com/intersame/qurantagger/internal/logging"
	"github.com/intersame/qurantagger/internal/validation"
)

// Server serves tagging requests against one immutable index.
type Server struct {
	ix       *index.Index
	base     tagger.Options
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// New creates a server. base supplies the option defaults; requests may
// override the per-call knobs, the stopword list included.
func New(ix *index.Index, base tagger.Options) *Server {
	s := &Server{
		ix:   ix,
		base: base,
		mux:  http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.mux.HandleFunc("POST /api/tag", s.handleTag)
	s.mux.HandleFunc("GET /api/info", s.handleInfo)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	return s
}

// Handler returns the HTTP handler with logging and security middleware
// applied.
func (s *Server) Handler() http.Handler {
	return logging.CombinedMiddleware(SecurityHeadersMiddleware(s.mux))
}

// ListenAndServe starts the server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	logging.ServerStartup(addr,
		"words", s.ix.Len(),
		"bigrams", s.ix.Bigrams(),
		"checksum", s.ix.Corpus().Checksum())
	return http.ListenAndServe(addr, s.Handler())
}

// tagRequest is the request payload for /api/tag and /ws.
type tagRequest struct {
	Tokens         []string `json:"tokens"`
	MinBlocks      *int     `json:"min_blocks,omitempty"`
	WithEllipsis   *bool    `json:"with_ellipsis,omitempty"`
	EllipsisWindow *int     `json:"ellipsis_window,omitempty"`
	QuoteFormulas  *bool    `json:"quote_formulas,omitempty"`
	Stopwords      *string  `json:"stopwords,omitempty"`
}

func (s *Server) options(req tagRequest) (tagger.Options, error) {
	opts := s.base
	if req.MinBlocks != nil {
		opts.MinBlocks = *req.MinBlocks
	}
	if req.WithEllipsis != nil {
		opts.WithEllipsis = *req.WithEllipsis
	}
	if req.EllipsisWindow != nil {
		opts.EllipsisWindow = *req.EllipsisWindow
	}
	if req.QuoteFormulas != nil {
		opts.QuoteFormulas = *req.QuoteFormulas
	}
	if req.Stopwords != nil {
		list, ok := stopwords.ParseList(*req.Stopwords)
		if !ok {
			return opts, fmt.Errorf("unknown stopword list %q", *req.Stopwords)
		}
		opts.Stopwords = stopwords.ForList(list)
	}
	return opts, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if err := validation.ValidateTokens(req.Tokens); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	opts, err := s.options(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := tagger.Tag(r.Context(), s.ix, req.Tokens, opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// infoResponse describes the loaded corpus and index.
type infoResponse struct {
	Words    int    `json:"words"`
	Bigrams  int    `json:"bigrams"`
	Postings int    `json:"postings"`
	Checksum string `json:"checksum"`
	First    string `json:"first_meta"`
	Last     string `json:"last_meta"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	c := s.ix.Corpus()
	writeJSON(w, http.StatusOK, infoResponse{
		Words:    s.ix.Len(),
		Bigrams:  s.ix.Bigrams(),
		Postings: s.ix.Postings(),
		Checksum: c.Checksum(),
		First:    c.Meta(0).String(),
		Last:     c.Meta(c.Len() - 1).String(),
	})
}

// wsEvent is one frame of the streaming response.
type wsEvent struct {
	Type    string          `json:"type"` // match, warning, done, error
	Match   *tagger.Match   `json:"match,omitempty"`
	Warning *tagger.Warning `json:"warning,omitempty"`
	Meta    *matchMeta      `json:"meta,omitempty"`
	Count   int             `json:"count,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// matchMeta resolves the match bounds for display.
type matchMeta struct {
	Start quran.Meta `json:"start"`
	End   quran.Meta `json:"end"`
}

// handleWS streams one event per match over a WebSocket. Each client message
// is a tagRequest; each gets a stream of match/warning events closed by a
// done event.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var req tagRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if err := s.streamResult(r, conn, req); err != nil {
			return
		}
	}
}

func (s *Server) streamResult(r *http.Request, conn *websocket.Conn, req tagRequest) error {
	fail := func(msg string) error {
		return conn.WriteJSON(wsEvent{Type: "error", Error: msg})
	}

	if err := validation.ValidateTokens(req.Tokens); err != nil {
		return fail(err.Error())
	}
	opts, err := s.options(req)
	if err != nil {
		return fail(err.Error())
	}
	res, err := tagger.Tag(r.Context(), s.ix, req.Tokens, opts)
	if err != nil {
		return fail(err.Error())
	}

	c := s.ix.Corpus()
	for i := range res.Matches {
		m := res.Matches[i]
		ev := wsEvent{
			Type:  "match",
			Match: &m,
			Meta: &matchMeta{
				Start: c.Meta(m.QStart),
				End:   c.Meta(m.QEnd),
			},
		}
		if err := conn.WriteJSON(ev); err != nil {
			return err
		}
	}
	for i := range res.Warnings {
		if err := conn.WriteJSON(wsEvent{Type: "warning", Warning: &res.Warnings[i]}); err != nil {
			return err
		}
	}
	return conn.WriteJSON(wsEvent{Type: "done", Count: len(res.Matches)})
}
