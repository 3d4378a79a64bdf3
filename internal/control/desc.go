package control

import (
	"context"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "clipstash.v1.Control"

// ControlServer is the server API for the control service. Messages are
// protobuf well-known types, so no generated code is needed.
type ControlServer interface {
	Show(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Quit(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	List(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Copy(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
	Remove(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
	Clear(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Export(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error)
}

// RegisterControlServer registers srv on s.
func RegisterControlServer(s grpc.ServiceRegistrar, srv ControlServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Show", newEmpty, ControlServer.Show),
		unary("Quit", newEmpty, ControlServer.Quit),
		unary("List", newEmpty, ControlServer.List),
		unary("Copy", newIndex, ControlServer.Copy),
		unary("Remove", newIndex, ControlServer.Remove),
		unary("Clear", newEmpty, ControlServer.Clear),
		unary("Export", newEmpty, ControlServer.Export),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clipstash/v1/control.proto",
}

func newEmpty() *emptypb.Empty         { return new(emptypb.Empty) }
func newIndex() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }
func fullMethod(name string) string    { return "/" + ServiceName + "/" + name }

// unary builds a MethodDesc the way protoc-gen-go-grpc does for each method.
func unary[Req proto.Message, Resp any](
	name string,
	newReq func() Req,
	call func(ControlServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ControlServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client is the client API for the control service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Show(ctx context.Context) error {
	return c.cc.Invoke(ctx, fullMethod("Show"), new(emptypb.Empty), new(emptypb.Empty))
}

func (c *Client) Quit(ctx context.Context) error {
	return c.cc.Invoke(ctx, fullMethod("Quit"), new(emptypb.Empty), new(emptypb.Empty))
}

// List returns the history entries, oldest first.
func (c *Client) List(ctx context.Context) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("List"), new(emptypb.Empty), out); err != nil {
		return nil, err
	}
	items := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		items = append(items, v.GetStringValue())
	}
	return items, nil
}

func (c *Client) Copy(ctx context.Context, index int) error {
	return c.cc.Invoke(ctx, fullMethod("Copy"), wrapperspb.Int64(int64(index)), new(emptypb.Empty))
}

func (c *Client) Remove(ctx context.Context, index int) error {
	return c.cc.Invoke(ctx, fullMethod("Remove"), wrapperspb.Int64(int64(index)), new(emptypb.Empty))
}

func (c *Client) Clear(ctx context.Context) error {
	return c.cc.Invoke(ctx, fullMethod("Clear"), new(emptypb.Empty), new(emptypb.Empty))
}

// Export returns the history document and its content type.
func (c *Client) Export(ctx context.Context) ([]byte, string, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, fullMethod("Export"), new(emptypb.Empty), out); err != nil {
		return nil, "", err
	}
	return out.GetData(), out.GetContentType(), nil
}
