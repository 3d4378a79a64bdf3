// Package control exposes the running instance over its IPC socket: a gRPC
// service for the clipstash CLI and a grpc-gateway REST mux for scripts,
// multiplexed on one listener.
package control

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"go.klb.dev/clipstash/internal/app"
	"go.klb.dev/clipstash/internal/store"
)

// Service implements ControlServer over an application context.
type Service struct {
	c *app.Context
}

// New returns a Service backed by c.
func New(c *app.Context) *Service {
	return &Service{c: c}
}

// Show implements Control.Show.
func (s *Service) Show(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.c.Show()
	return &emptypb.Empty{}, nil
}

// Quit implements Control.Quit.
func (s *Service) Quit(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.c.Quit()
	return &emptypb.Empty{}, nil
}

// List implements Control.List.
func (s *Service) List(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	items := s.c.Snapshot()
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(items))}
	for _, it := range items {
		out.Values = append(out.Values, structpb.NewStringValue(it))
	}
	return out, nil
}

// Copy implements Control.Copy.
func (s *Service) Copy(_ context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := s.c.Copy(int(req.GetValue())); err != nil {
		return nil, toStatus("copy", err)
	}
	return &emptypb.Empty{}, nil
}

// Remove implements Control.Remove.
func (s *Service) Remove(_ context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := s.c.Remove(int(req.GetValue())); err != nil {
		return nil, toStatus("remove", err)
	}
	return &emptypb.Empty{}, nil
}

// Clear implements Control.Clear.
func (s *Service) Clear(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.c.ClearHistory(); err != nil {
		return nil, toStatus("clear", err)
	}
	return &emptypb.Empty{}, nil
}

// Export implements Control.Export.
func (s *Service) Export(_ context.Context, _ *emptypb.Empty) (*httpbody.HttpBody, error) {
	data, err := s.c.ExportJSON()
	if err != nil {
		return nil, toStatus("export", err)
	}
	return &httpbody.HttpBody{ContentType: "application/json", Data: data}, nil
}

func toStatus(op string, err error) error {
	if errors.Is(err, store.ErrIndexOutOfRange) {
		return status.Error(codes.OutOfRange, err.Error())
	}
	slog.Warn("control request failed", "op", op, "err", err)
	return status.Error(codes.Internal, err.Error())
}
