package control

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// Serve runs the gRPC service and the REST gateway on ln until ctx is
// cancelled or either server fails. HTTP/2 requests carrying the gRPC content
// type go to gRPC; everything else goes to the gateway.
func Serve(ctx context.Context, ln net.Listener, srv ControlServer) error {
	gw, err := NewGateway(srv)
	if err != nil {
		return err
	}

	gs := grpc.NewServer()
	RegisterControlServer(gs, srv)
	hs := &http.Server{Handler: gw}

	m := cmux.New(ln)
	grpcLn := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpLn := m.Match(cmux.Any())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// The first server to return takes the others down with it.
	serve := func(fn func() error) {
		g.Go(func() error {
			defer cancel()
			return ignoreClosed(fn())
		})
	}
	serve(func() error { return gs.Serve(grpcLn) })
	serve(func() error { return hs.Serve(httpLn) })
	serve(m.Serve)
	g.Go(func() error {
		<-ctx.Done()
		slog.Debug("control server stopping")
		gs.Stop()
		_ = hs.Close()
		m.Close()
		return nil
	})

	slog.Info("control server listening", "addr", ln.Addr().String())
	return g.Wait()
}

func ignoreClosed(err error) error {
	switch {
	case err == nil,
		errors.Is(err, net.ErrClosed),
		errors.Is(err, http.ErrServerClosed),
		errors.Is(err, grpc.ErrServerStopped),
		errors.Is(err, cmux.ErrListenerClosed),
		errors.Is(err, cmux.ErrServerClosed):
		return nil
	}
	return err
}
