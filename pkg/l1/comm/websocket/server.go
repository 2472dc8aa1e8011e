package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
)

// Path is where the panel endpoint is mounted.
const Path = "/ws"

// Server exposes a Hub as a websocket endpoint.
type Server struct {
	Hub *comm.Hub
}

// NewServer creates a Server.
func NewServer() *Server {
	return &Server{Hub: comm.NewHub()}
}

// Handler returns the http.Handler accepting websocket clients.
func (s *Server) Handler() http.Handler {
	// websocket.Server instead of websocket.Handler to accept
	// clients without an Origin header.
	return websocket.Server{Handler: s.serveConn}
}

func (s *Server) serveConn(conn *websocket.Conn) {
	err := s.Hub.Serve(New(conn))
	glog.V(1).Infof("websocket client %s left: %v", conn.Request().RemoteAddr, err)
}

// SendEvent implements l1.Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	return s.Hub.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.Add(s.Hub)
}

// HTTPServer runs an http.Server until the context is done.
type HTTPServer struct {
	Server *http.Server
}

// NewHTTPServer mounts handlers on a new mux served at addr.
func NewHTTPServer(addr string, handlers map[string]http.Handler) *HTTPServer {
	mux := http.NewServeMux()
	for path, h := range handlers {
		mux.Handle(path, h)
	}
	return &HTTPServer{Server: &http.Server{Addr: addr, Handler: mux}}
}

// Run implements Runnable.
func (s *HTTPServer) Run(ctx context.Context) error {
	glog.Infof("http server listening on %s", s.Server.Addr)
	err := fx.RunWithContextCancel(ctx, func() {
		s.Server.Close()
	}, s.Server.ListenAndServe)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
