package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cristalhq/base64"
	"github.com/dustin/go-humanize"
	"github.com/gofrs/uuid/v5"
	"github.com/urfave/cli/v3"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/and161185/bytediff/internal/convert"
	"github.com/and161185/bytediff/internal/diff"
	grpcserver "github.com/and161185/bytediff/internal/server/grpc"
)

const defaultTimeout = 30 * time.Second

func idFlag() cli.Flag {
	return &cli.IntFlag{Name: "id", Usage: "diff id", Required: true}
}

// payload is what a save command sends: raw base64 text, or nil for null.
type payload struct {
	raw  *string
	size int // decoded bytes when known, -1 otherwise
}

// readPayload resolves exactly one of --data, --file and --null.
func readPayload(cmd *cli.Command, stdin io.Reader) (payload, error) {
	set := 0
	for _, n := range []string{"data", "file", "null"} {
		if cmd.IsSet(n) {
			set++
		}
	}
	if set != 1 {
		return payload{}, errors.New("exactly one of --data, --file or --null is required")
	}

	switch {
	case cmd.Bool("null"):
		return payload{size: -1}, nil
	case cmd.IsSet("data"):
		s := cmd.String("data")
		return payload{raw: &s, size: -1}, nil
	default:
		var (
			b   []byte
			err error
		)
		if p := cmd.String("file"); p == "-" {
			b, err = io.ReadAll(stdin)
		} else {
			b, err = os.ReadFile(p)
		}
		if err != nil {
			return payload{}, err
		}
		s := base64.StdEncoding.EncodeToString(b)
		return payload{raw: &s, size: len(b)}, nil
	}
}

func saveCommand(side, usage string) *cli.Command {
	return &cli.Command{
		Name:      side,
		Usage:     usage,
		UsageText: fmt.Sprintf("diffctl %s --id N (--data B64 | --file PATH | --null)", side),
		Flags: []cli.Flag{
			idFlag(),
			&cli.StringFlag{Name: "data", Usage: "base64 payload as sent on the wire"},
			&cli.StringFlag{Name: "file", Usage: "raw file to encode and send, - for stdin"},
			&cli.BoolFlag{Name: "null", Usage: "send a null payload"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := readPayload(cmd, os.Stdin)
			if err != nil {
				return err
			}
			id := cmd.Int("id")
			req := convert.ToProtoSaveRequest(id, p.raw)
			return withClient(ctx, cmd, func(ctx context.Context, cl grpcserver.DiffClient) error {
				save := cl.SaveLeft
				if side == "right" {
					save = cl.SaveRight
				}
				if _, err := save(ctx, req); err != nil {
					return err
				}
				if p.size >= 0 {
					fmt.Fprintf(cmd.Root().Writer, "saved %s id=%d (%s)\n", side, id, humanize.Bytes(uint64(p.size)))
				} else {
					fmt.Fprintf(cmd.Root().Writer, "saved %s id=%d\n", side, id)
				}
				return nil
			})
		},
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "compare both sides of a diff",
		Flags: []cli.Flag{
			idFlag(),
			&cli.BoolFlag{Name: "json", Usage: "print the wire JSON result"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withClient(ctx, cmd, func(ctx context.Context, cl grpcserver.DiffClient) error {
				out, err := cl.GetDiff(ctx, wrapperspb.Int64(cmd.Int("id")))
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				if cmd.Bool("json") {
					b, err := protojson.MarshalOptions{Multiline: true}.Marshal(out)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(w, string(b))
					return err
				}
				res, err := convert.FromProtoDiffResult(out)
				if err != nil {
					return err
				}
				printDiff(w, res)
				return nil
			})
		},
	}
}

func printDiff(w io.Writer, res diff.Result) {
	fmt.Fprintln(w, res.Kind)
	for _, r := range res.Diffs {
		fmt.Fprintf(w, "  offset=%d length=%d\n", r.Offset, r.Length)
	}
}

func rmCommand() *cli.Command {
	return &cli.Command{
		Name:  "rm",
		Usage: "delete a diff",
		Flags: []cli.Flag{idFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withClient(ctx, cmd, func(ctx context.Context, cl grpcserver.DiffClient) error {
				if _, err := cl.DeleteDiff(ctx, wrapperspb.Int64(cmd.Int("id"))); err != nil {
					return err
				}
				fmt.Fprintln(cmd.Root().Writer, "ok")
				return nil
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for a server started with --jwt-key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "jwt-key",
				Usage:    "HS256 signing key",
				Required: true,
				Sources:  cli.NewValueSourceChain(cli.EnvVar("BYTEDIFF_JWT_KEY")),
			},
			&cli.StringFlag{Name: "subject", Usage: "client UUID, random when empty"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: time.Hour},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			sub := uuid.Must(uuid.NewV4())
			if s := cmd.String("subject"); s != "" {
				var err error
				if sub, err = uuid.FromString(s); err != nil {
					return fmt.Errorf("subject: %w", err)
				}
			}
			tok, exp, err := grpcserver.IssueToken([]byte(cmd.String("jwt-key")), sub, cmd.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, tok)
			fmt.Fprintf(cmd.Root().ErrWriter, "subject %s, expires %s\n", sub, humanize.Time(exp))
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the client version",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Fprintf(cmd.Root().Writer, "diffctl %s (%s)\n", version, buildDate)
			return nil
		},
	}
}
