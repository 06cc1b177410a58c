package httpapi

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/chess-coach-go/internal/adapter/coachpresenter"
	"github.com/park285/chess-coach-go/internal/boardrender"
	"github.com/park285/chess-coach-go/internal/library"
	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/pkg/coachdto"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypePNG  = "image/png"

	maxBoardSquareSize = 160
)

// Server exposes the read-only library surface over HTTP. All handlers
// are pure reads against the immutable library, so no locking is needed.
type Server struct {
	lib        *library.Library
	cat        *msgcat.Catalog
	squareSize int

	srv *fasthttp.Server
}

func NewServer(lib *library.Library, cat *msgcat.Catalog, boardSquareSize int) *Server {
	s := &Server{lib: lib, cat: cat, squareSize: boardSquareSize}
	s.srv = &fasthttp.Server{
		Handler:      s.Handle,
		Name:         "chess-coach",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("http_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

// Handle routes one request. Paths follow /api/{openings|endgames}[/{id}]
// plus /api/stats and /api/board.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := string(ctx.Path())
	switch {
	case path == "/api/openings":
		s.handleLibrary(ctx, s.lib.OpeningEntries())
	case path == "/api/endgames":
		s.handleLibrary(ctx, s.lib.EndgameEntries())
	case strings.HasPrefix(path, "/api/openings/"):
		s.handleEntry(ctx, s.lib.OpeningEntries(), strings.TrimPrefix(path, "/api/openings/"))
	case strings.HasPrefix(path, "/api/endgames/"):
		s.handleEntry(ctx, s.lib.EndgameEntries(), strings.TrimPrefix(path, "/api/endgames/"))
	case path == "/api/stats":
		s.handleStats(ctx)
	case path == "/api/board":
		s.handleBoard(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

// handleLibrary returns the grouped view, or a flat filtered list when
// ?difficulty= is present. Unknown difficulties yield an empty list.
func (s *Server) handleLibrary(ctx *fasthttp.RequestCtx, entries []library.Entry) {
	difficulty := string(ctx.QueryArgs().Peek("difficulty"))
	var resp coachdto.LibraryResponse
	if difficulty != "" {
		resp.Entries = coachpresenter.ToDTOEntries(library.FilterByDifficulty(entries, difficulty))
	} else {
		resp.Groups = coachpresenter.ToDTOGroups(library.GroupByCategory(entries))
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleEntry(ctx *fasthttp.RequestCtx, entries []library.Entry, id string) {
	entry := library.FindByID(entries, id)
	if entry == nil {
		writeError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, coachpresenter.ToDTOEntry(entry))
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	stats := coachpresenter.ToDTOStats(s.lib)
	stats.Summary = s.cat.RenderOr("library.stats", map[string]int{
		"Openings":  stats.Openings,
		"Endgames":  stats.Endgames,
		"Positions": stats.Positions,
	}, "")
	writeJSON(ctx, fasthttp.StatusOK, stats)
}

func (s *Server) handleBoard(ctx *fasthttp.RequestCtx) {
	fen := string(ctx.QueryArgs().Peek("fen"))
	if strings.TrimSpace(fen) == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "fen query parameter required")
		return
	}
	size := s.squareSize
	if v := string(ctx.QueryArgs().Peek("size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxBoardSquareSize {
			writeError(ctx, fasthttp.StatusBadRequest, "invalid size")
			return
		}
		size = n
	}
	png, err := boardrender.RenderFEN(ctx, fen, size)
	if err != nil {
		obslog.L().Warn("board_render_error", zap.String("fen", fen), zap.Error(err))
		writeError(ctx, fasthttp.StatusBadRequest, "cannot render position")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(contentTypePNG)
	ctx.SetBody(png)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType(contentTypeJSON)
	ctx.SetBody(payload)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, coachdto.ErrorResponse{Error: msg})
}
