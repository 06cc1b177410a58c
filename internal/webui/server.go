package webui

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/welcome"
	"github.com/park285/chess-coach-go/pkg/coachdto"
)

// StoreFactory returns the persistence namespace for one user. The same
// user id must map to the same backing keys across reconnects, or the
// completed-flag check cannot see prior runs.
type StoreFactory func(userID string) welcome.Store

// Server accepts wizard WebSocket connections on /ws/welcome. One
// connection = one session = one wizard instance.
type Server struct {
	cat           *msgcat.Catalog
	stores        StoreFactory
	consumer      welcome.Consumer
	teardownDelay time.Duration

	httpSrv *http.Server
}

func NewServer(cat *msgcat.Catalog, stores StoreFactory, consumer welcome.Consumer, teardownDelay time.Duration) *Server {
	s := &Server{
		cat:           cat,
		stores:        stores,
		consumer:      consumer,
		teardownDelay: teardownDelay,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/welcome", s.handleWelcome)
	s.httpSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.httpSrv.Addr = addr
	obslog.L().Info("ws_listen", zap.String("addr", addr))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = "default"
	}
	if !userIDPattern.MatchString(userID) {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		OriginPatterns:  []string{"*"},
	})
	if err != nil {
		obslog.L().Warn("ws_accept_error", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	sess := newSession(&connWriter{conn: conn}, s.cat)
	wizard := welcome.NewWizard(s.stores(userID), sess, s.consumer, s.teardownDelay)
	sess.attach(wizard)

	ctx := r.Context()
	obslog.L().Info("ws_session_open",
		zap.String("session_id", wizard.SessionID()),
		zap.String("user", userID),
	)

	if err := sess.start(ctx); err != nil {
		obslog.L().Warn("ws_session_init_error", zap.String("session_id", wizard.SessionID()), zap.Error(err))
		conn.Close(websocket.StatusInternalError, "init failed")
		return
	}

	for {
		var action coachdto.WizardAction
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			obslog.L().Info("ws_session_close", zap.String("session_id", wizard.SessionID()))
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
		if err := sess.handleAction(ctx, action); err != nil {
			obslog.L().Warn("ws_action_rejected",
				zap.String("session_id", wizard.SessionID()),
				zap.String("action", action.Action),
				zap.Error(err),
			)
			sess.writeError(ctx, err)
		}
	}
}

// connWriter adapts the WebSocket connection to frameWriter. Frames are
// only written from the read loop and the one-shot teardown timer, with
// the wizard already terminal when the timer fires.
type connWriter struct {
	conn *websocket.Conn
}

func (c *connWriter) WriteFrame(ctx context.Context, frame coachdto.WizardFrame) error {
	wctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return wsjson.Write(wctx, c.conn, frame)
}
