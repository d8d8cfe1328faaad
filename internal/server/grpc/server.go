// Package grpcserver exposes the diff API over gRPC.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/and161185/bytediff/internal/convert"
	"github.com/and161185/bytediff/internal/errs"
	"github.com/and161185/bytediff/internal/service"
)

// Server wires the diff service into gRPC handlers.
type Server struct {
	UnimplementedDiffServer
	diffs service.DiffService
}

// New constructs a gRPC server with the injected service.
func New(diffs service.DiffService) *Server {
	return &Server{diffs: diffs}
}

// SaveLeft stores the left endpoint of a diff.
func (s *Server) SaveLeft(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	return s.save(ctx, req, s.diffs.SaveLeft)
}

// SaveRight stores the right endpoint of a diff.
func (s *Server) SaveRight(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	return s.save(ctx, req, s.diffs.SaveRight)
}

type saveFunc func(ctx context.Context, id int64, raw *string) (bool, error)

func (s *Server) save(ctx context.Context, req *structpb.Struct, fn saveFunc) (*emptypb.Empty, error) {
	id, raw, err := convert.FromProtoSaveRequest(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad request: %v", err)
	}
	ok, err := fn(ctx, id, raw)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidID) {
			return nil, status.Error(codes.InvalidArgument, "bad id")
		}
		return nil, status.Errorf(codes.Internal, "save: %v", err)
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "payload rejected: not valid base64")
	}
	return &emptypb.Empty{}, nil
}

// GetDiff compares both endpoints of a diff.
func (s *Server) GetDiff(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	res, found, err := s.diffs.GetDiff(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, errs.ErrInvalidID) {
			return nil, status.Error(codes.InvalidArgument, "bad id")
		}
		return nil, status.Errorf(codes.Internal, "get diff: %v", err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return convert.ToProtoDiffResult(res), nil
}

// DeleteDiff removes a diff and both of its endpoints.
func (s *Server) DeleteDiff(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := s.diffs.Delete(ctx, req.GetValue()); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return nil, status.Error(codes.NotFound, "not found")
		case errors.Is(err, errs.ErrInvalidID):
			return nil, status.Error(codes.InvalidArgument, "bad id")
		default:
			return nil, status.Errorf(codes.Internal, "delete: %v", err)
		}
	}
	return &emptypb.Empty{}, nil
}
