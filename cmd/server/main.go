// Command bytediff-server starts the bytediff gRPC server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/bytediff/internal/codec"
	"github.com/and161185/bytediff/internal/config"
	"github.com/and161185/bytediff/internal/migrate"
	"github.com/and161185/bytediff/internal/repository"
	"github.com/and161185/bytediff/internal/repository/memory"
	"github.com/and161185/bytediff/internal/repository/postgres"
	"github.com/and161185/bytediff/internal/repository/sqlite"
	grpcserver "github.com/and161185/bytediff/internal/server/grpc"
	"github.com/and161185/bytediff/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, opens the configured storage and serves gRPC until signalled.
func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage),
		zap.Bool("tls", cfg.TLS()),
		zap.Bool("auth", cfg.JWTKey != ""),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	repo, closeRepo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	c := codec.New(
		codec.WithRequireUTF8(cfg.RequireUTF8),
		codec.WithMaxDecodedSize(cfg.MaxPayloadBytes),
	)
	diffSvc := service.NewDiffService(repo, c)

	opts, err := serverOptions(cfg, logger)
	if err != nil {
		return err
	}
	s := grpc.NewServer(opts...)

	grpcserver.RegisterDiffServer(s, grpcserver.New(diffSvc))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", lis.Addr().String()))
		errCh <- s.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		hs.Shutdown()
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(cfg.ShutdownTimeout):
			s.Stop()
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// serverOptions assembles credentials and the interceptor chain.
func serverOptions(cfg config.Config, logger *zap.Logger) ([]grpc.ServerOption, error) {
	var opts []grpc.ServerOption
	if cfg.TLS() {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return nil, fmt.Errorf("load TLS cert/key: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("TLS disabled, serving plaintext")
	}

	chain := []grpc.UnaryServerInterceptor{
		grpcserver.RecoverUnary(logger),
		grpcserver.LoggingUnary(logger),
	}
	if cfg.JWTKey != "" {
		chain = append(chain, grpcserver.AuthUnary([]byte(cfg.JWTKey)))
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(chain...))
	if cfg.MaxPayloadBytes > 0 {
		// base64 text is 4/3 of the decoded size, plus framing.
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.MaxPayloadBytes/3*4+64<<10))
	}
	return opts, nil
}

// openRepo opens the configured backend, running migrations where needed.
func openRepo(ctx context.Context, cfg config.Config) (repository.DiffRepository, func(), error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewDiffRepo(), func() {}, nil
	case config.StoragePostgres:
		if err := migrate.UpDSN(ctx, cfg.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return postgres.NewDiffRepo(db), db.Close, nil
	case config.StorageSQLite:
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
