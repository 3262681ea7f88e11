// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sink

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"wellplot/cli/internal/charts"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// DrawMethod is the unary RPC a remote renderer serves. The request is a
// Struct {"target", "kind", "figure"}; the reply is empty.
const DrawMethod = "/wellplot.render.v1.Renderer/Draw"

// Remote sends specs to a gRPC renderer.
type Remote struct {
	conn  *grpc.ClientConn
	token string
	owned bool
}

// DialRemote connects to addr. Loopback addresses and the "plaintext://" scheme
// use an insecure channel; everything else uses TLS with the host as SNI.
func DialRemote(addr, token string) (*Remote, error) {
	plain := strings.HasPrefix(addr, "plaintext://")
	addr = strings.TrimPrefix(addr, "plaintext://")

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	} else {
		addr = net.JoinHostPort(addr, "443")
	}
	if host == "localhost" || net.ParseIP(host).IsLoopback() {
		plain = true
	}

	creds := insecure.NewCredentials()
	if !plain {
		creds = credentials.NewTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dial renderer %s: %w", addr, err)
	}
	r := NewRemote(conn, token)
	r.owned = true
	return r, nil
}

// NewRemote wraps an existing connection; the caller keeps ownership of conn.
func NewRemote(conn *grpc.ClientConn, token string) *Remote {
	return &Remote{conn: conn, token: token}
}

// Draw implements Sink.
func (r *Remote) Draw(ctx context.Context, spec charts.Spec) error {
	req, err := specStruct(spec)
	if err != nil {
		return err
	}
	if r.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+r.token)
	}
	return r.conn.Invoke(ctx, DrawMethod, req, &emptypb.Empty{})
}

// Close closes the connection if DialRemote opened it.
func (r *Remote) Close() error {
	if r.owned && r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func specStruct(spec charts.Spec) (*structpb.Struct, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", spec.Target, err)
	}
	var figure map[string]any
	if err := json.Unmarshal(b, &figure); err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(map[string]any{
		"target": spec.Target,
		"kind":   string(spec.Kind),
		"figure": figure,
	})
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", spec.Target, err)
	}
	return s, nil
}
