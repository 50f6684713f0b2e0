package net

import (
	"context"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/game"
	"github.com/peterkuimelis/warden/internal/log"
)

// Server hosts single-player games over TCP or a local pipe.
type Server struct {
	Engine   *game.Engine
	Narrator game.Narrator
	Logger   *zap.Logger
	Journal  log.EventLogger // optional
	Port     string
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Run listens on Port, waits for one client, then hosts its game.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	s.logger().Info("waiting for a wanderer", zap.String("port", s.Port))
	fmt.Printf("Waiting for a wanderer on port %s...\n", s.Port)

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	s.logger().Info("wanderer connected", zap.Stringer("remote", conn.RemoteAddr()))
	fmt.Printf("Wanderer connected from %s\n", conn.RemoteAddr())
	return s.Serve(ctx, conn)
}

// Serve hosts one game on an established connection.
func (s *Server) Serve(ctx context.Context, conn net.Conn) error {
	session := game.NewSession(s.Engine, game.SessionConfig{
		Narrator: s.Narrator,
		Logger:   s.logger(),
		Journal:  s.Journal,
	})
	return NewNetworkController(conn, session, s.logger()).Serve(ctx)
}

// Local runs a game in-process: the server end and the REPL talk over a pipe.
func (s *Server) Local(ctx context.Context, in io.Reader, out io.Writer) error {
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	errCh := make(chan error, 2)
	go func() {
		errCh <- s.Serve(ctx, serverConn)
	}()
	go func() {
		errCh <- NewClient(clientConn, in, out).RunREPL(ctx)
	}()

	err := <-errCh
	clientConn.Close()
	serverConn.Close()
	return err
}
