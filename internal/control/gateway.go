package control

import (
	"context"
	"net/http"
	"strconv"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// NewGateway returns a REST mux that calls srv in process.
//
//	GET    /v1/history               list entries
//	DELETE /v1/history               clear
//	DELETE /v1/history/{index}       remove one entry
//	POST   /v1/history/{index}/copy  copy one entry to the clipboard
//	GET    /v1/export                history document
//	POST   /v1/show                  restore the window
//	POST   /v1/quit                  exit
func NewGateway(srv ControlServer) (*gwruntime.ServeMux, error) {
	mux := gwruntime.NewServeMux(
		gwruntime.WithMarshalerOption(gwruntime.MIMEWildcard, &gwruntime.HTTPBodyMarshaler{
			Marshaler: &gwruntime.JSONPb{
				MarshalOptions:   protojson.MarshalOptions{EmitUnpopulated: true},
				UnmarshalOptions: protojson.UnmarshalOptions{DiscardUnknown: true},
			},
		}),
	)

	routes := []struct {
		method, pattern string
		call            func(ctx context.Context, params map[string]string) (proto.Message, error)
	}{
		{http.MethodGet, "/v1/history", func(ctx context.Context, _ map[string]string) (proto.Message, error) {
			return srv.List(ctx, &emptypb.Empty{})
		}},
		{http.MethodDelete, "/v1/history", func(ctx context.Context, _ map[string]string) (proto.Message, error) {
			return srv.Clear(ctx, &emptypb.Empty{})
		}},
		{http.MethodDelete, "/v1/history/{index}", func(ctx context.Context, p map[string]string) (proto.Message, error) {
			idx, err := indexParam(p)
			if err != nil {
				return nil, err
			}
			return srv.Remove(ctx, idx)
		}},
		{http.MethodPost, "/v1/history/{index}/copy", func(ctx context.Context, p map[string]string) (proto.Message, error) {
			idx, err := indexParam(p)
			if err != nil {
				return nil, err
			}
			return srv.Copy(ctx, idx)
		}},
		{http.MethodGet, "/v1/export", func(ctx context.Context, _ map[string]string) (proto.Message, error) {
			return srv.Export(ctx, &emptypb.Empty{})
		}},
		{http.MethodPost, "/v1/show", func(ctx context.Context, _ map[string]string) (proto.Message, error) {
			return srv.Show(ctx, &emptypb.Empty{})
		}},
		{http.MethodPost, "/v1/quit", func(ctx context.Context, _ map[string]string) (proto.Message, error) {
			return srv.Quit(ctx, &emptypb.Empty{})
		}},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, handler(mux, rt.call)); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

func handler(mux *gwruntime.ServeMux, call func(context.Context, map[string]string) (proto.Message, error)) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := r.Context()
		_, outbound := gwruntime.MarshalerForRequest(mux, r)
		resp, err := call(ctx, params)
		if err != nil {
			gwruntime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		gwruntime.ForwardResponseMessage(ctx, mux, outbound, w, r, resp)
	}
}

func indexParam(params map[string]string) (*wrapperspb.Int64Value, error) {
	raw := params["index"]
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "index %q is not an integer", raw)
	}
	return wrapperspb.Int64(n), nil
}
