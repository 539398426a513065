// Package geyser maintains a TLS gRPC subscription to a Yellowstone geyser
// gateway, filtered to the DEX programs the decoder understands.
package geyser

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strings"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

const (
	defaultEndpoint = "https://solana-yellowstone-grpc.publicnode.com:443"

	endpointEnv = "GEYSER_ENDPOINT"
	xTokenEnv   = "GEYSER_X_TOKEN"
)

type Config struct {
	Endpoint       string
	XToken         string // optional bearer token, sent as x-token metadata
	ConnectTimeout time.Duration
}

// ConfigFromEnv reads the gateway endpoint and auth token overrides from the
// environment, falling back to the public gateway with no token.
func ConfigFromEnv() Config {
	cfg := Config{
		Endpoint:       defaultEndpoint,
		ConnectTimeout: 10 * time.Second,
	}
	if endpoint := os.Getenv(endpointEnv); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	cfg.XToken = os.Getenv(xTokenEnv)
	return cfg
}

// Client wraps one established gateway connection.
type Client struct {
	conn   *grpc.ClientConn
	geyser pb.GeyserClient
	xToken string
	log    *logrus.Logger
}

// Connect dials the gateway over TLS and blocks until the handshake completes
// or the configured timeout elapses. A handshake failure here is terminal;
// the caller decides whether to retry the whole process.
func Connect(ctx context.Context, cfg Config, log *logrus.Logger) (*Client, error) {
	target := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, target,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to geyser gateway %s: %w", target, err)
	}

	return &Client{
		conn:   conn,
		geyser: pb.NewGeyserClient(conn),
		xToken: cfg.XToken,
		log:    log,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Subscribe opens the transaction stream: non-vote, non-failed transactions
// whose account list intersects programs, at processed commitment for lowest
// latency. The returned stream is single-consumer and does not restart
// itself; a mid-stream error ends it.
func (c *Client) Subscribe(ctx context.Context, programs []string) (*Stream, error) {
	if c.xToken != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-token", c.xToken)
	}

	sub, err := c.geyser.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening geyser subscription: %w", err)
	}

	commitment := pb.CommitmentLevel_PROCESSED
	request := &pb.SubscribeRequest{
		Transactions: map[string]*pb.SubscribeRequestFilterTransactions{
			"client": {
				Vote:           proto.Bool(false),
				Failed:         proto.Bool(false),
				AccountInclude: programs,
			},
		},
		Commitment: &commitment,
	}
	if err := sub.Send(request); err != nil {
		return nil, fmt.Errorf("sending subscribe request: %w", err)
	}

	c.log.Infof("subscribed to %d programs at processed commitment", len(programs))
	return &Stream{inner: sub, log: c.log}, nil
}

// Stream is the lazy sequence of raw transaction updates.
type Stream struct {
	inner pb.Geyser_SubscribeClient
	log   *logrus.Logger
}

// Next blocks for the next transaction update. Update kinds this pipeline did
// not ask for (account, slot, block, entry and friends) are drained without
// surfacing; keep-alive pings are answered so the server holds the
// subscription open. Any receive error ends the stream and is returned as-is.
func (s *Stream) Next() (*pb.SubscribeUpdateTransaction, error) {
	for {
		update, err := s.inner.Recv()
		if err != nil {
			return nil, err
		}

		switch u := update.GetUpdateOneof().(type) {
		case *pb.SubscribeUpdate_Transaction:
			return u.Transaction, nil
		case *pb.SubscribeUpdate_Ping:
			if err := s.inner.Send(&pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: 1}}); err != nil {
				return nil, fmt.Errorf("answering keep-alive ping: %w", err)
			}
		default:
			s.log.Debugf("ignoring %T update", u)
		}
	}
}
