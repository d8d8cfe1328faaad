// Command diffctl is a CLI client for the bytediff service.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcserver "github.com/and161185/bytediff/internal/server/grpc"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fail(err)
	}
}

func fail(err error) {
	if st, ok := status.FromError(err); ok {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", st.Code(), st.Message())
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

// ---- grpc dial ----

type bearerCreds struct {
	token  string
	secure bool
}

func (b bearerCreds) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}
func (b bearerCreds) RequireTransportSecurity() bool { return b.secure }

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil //nolint:gosec // dev only, opt-in flag
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

type dialOpts struct {
	addr       string
	caPath     string
	skipVerify bool
	plaintext  bool
	token      string
}

func dial(ctx context.Context, o dialOpts) (*grpc.ClientConn, grpcserver.DiffClient, error) {
	var creds credentials.TransportCredentials
	if o.plaintext {
		creds = insecure.NewCredentials()
	} else {
		c, err := loadTLS(o.caPath, o.skipVerify)
		if err != nil {
			return nil, nil, err
		}
		creds = c
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if o.token != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerCreds{token: o.token, secure: !o.plaintext}))
	}
	//nolint:staticcheck // DialContext is supported through 1.x; migrate when grpc.NewClient is stable
	cc, err := grpc.DialContext(ctx, o.addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cc, grpcserver.NewDiffClient(cc), nil
}

func dialOptsFrom(cmd *cli.Command) dialOpts {
	return dialOpts{
		addr:       cmd.String("addr"),
		caPath:     cmd.String("cacert"),
		skipVerify: cmd.Bool("insecure-skip-verify"),
		plaintext:  cmd.Bool("plaintext"),
		token:      cmd.String("token"),
	}
}

// withClient runs fn against a connected client under the --timeout deadline.
func withClient(ctx context.Context, cmd *cli.Command, fn func(context.Context, grpcserver.DiffClient) error) error {
	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	cc, cl, err := dial(ctx, dialOptsFrom(cmd))
	if err != nil {
		return err
	}
	defer cc.Close()
	return fn(ctx, cl)
}

// ---- app ----

func newApp(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "diffctl",
		Usage:     "store left/right payloads and compare them on a bytediff server",
		Version:   fmt.Sprintf("%s (%s)", version, buildDate),
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "server address",
				Value:   "localhost:8443",
				Sources: cli.NewValueSourceChain(cli.EnvVar("DIFFCTL_ADDR")),
			},
			&cli.StringFlag{
				Name:  "cacert",
				Usage: "CA certificate (PEM)",
			},
			&cli.BoolFlag{
				Name:  "insecure-skip-verify",
				Usage: "skip TLS certificate verification (dev)",
			},
			&cli.BoolFlag{
				Name:  "plaintext",
				Usage: "connect without TLS",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token",
				Sources: cli.NewValueSourceChain(cli.EnvVar("DIFFCTL_TOKEN")),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-command deadline",
				Value: defaultTimeout,
			},
		},
		Commands: []*cli.Command{
			saveCommand("left", "store the left payload"),
			saveCommand("right", "store the right payload"),
			diffCommand(),
			rmCommand(),
			tokenCommand(),
			versionCommand(),
		},
	}
}
