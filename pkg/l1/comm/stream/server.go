package stream

import (
	"context"
	"net"

	"github.com/golang/glog"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
)

// Server accepts TCP clients into a Hub.
type Server struct {
	Addr string
	Hub  *comm.Hub
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr, Hub: comm.NewHub()}
}

// SendEvent implements l1.Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	return s.Hub.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.Add(s.Hub)
	loop.AddRunnable(fx.NamedRun("stream-server", s))
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("stream server listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go func() {
				err := s.Hub.Serve(New(conn))
				glog.V(1).Infof("stream client %s left: %v", conn.RemoteAddr(), err)
			}()
		}
	})
}
