package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are google.protobuf.Struct, so no generated stubs are needed.
const (
	RosterServiceName                  = "sitzungsdienst.v1.RosterService"
	RosterServiceExtractMethod         = "/" + RosterServiceName + "/Extract"
	RosterServiceListAssignmentsMethod = "/" + RosterServiceName + "/ListAssignments"
	RosterServiceSubmitFileMethod      = "/" + RosterServiceName + "/SubmitFile"
)

type RosterServiceServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAssignments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterRosterServiceServer(s grpc.ServiceRegistrar, srv RosterServiceServer) {
	s.RegisterService(&rosterServiceDesc, srv)
}

type unaryCall func(RosterServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RosterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RosterServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var rosterServiceDesc = grpc.ServiceDesc{
	ServiceName: RosterServiceName,
	HandlerType: (*RosterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Extract",
			Handler:    unaryHandler(RosterServiceExtractMethod, RosterServiceServer.Extract),
		},
		{
			MethodName: "ListAssignments",
			Handler:    unaryHandler(RosterServiceListAssignmentsMethod, RosterServiceServer.ListAssignments),
		},
		{
			MethodName: "SubmitFile",
			Handler:    unaryHandler(RosterServiceSubmitFileMethod, RosterServiceServer.SubmitFile),
		},
	},
	Streams:  []grpc.StreamDesc{},
}
