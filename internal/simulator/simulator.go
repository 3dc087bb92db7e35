// Package simulator provides a UDP responder that behaves like the Tello
// control endpoint for the command handshake.
package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/tellocontrol/tellocontrol/internal/config"
)

// Server answers each command datagram with the configured replies followed
// by the command itself.
type Server struct {
	bind    string
	command []byte
	replies [][]byte

	conn     net.PacketConn
	received atomic.Int64
}

// NewServer creates a Server from the simulator and handshake configuration.
func NewServer(conf *config.Config) *Server {
	s := &Server{
		bind:    conf.Simulator.Bind,
		command: []byte(conf.Handshake.Payload),
	}
	for _, r := range conf.Simulator.Replies {
		s.replies = append(s.replies, []byte(r))
	}
	return s
}

// Listen binds the UDP socket. It must be called before Serve.
func (s *Server) Listen() error {
	conn, err := net.ListenPacket("udp4", s.bind)
	if err != nil {
		return fmt.Errorf("listen udp error: %w", err)
	}
	s.conn = conn
	log.WithField("bind", conn.LocalAddr().String()).Info("simulator: listening for commands")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() *net.UDPAddr {
	if s.conn == nil {
		return nil
	}
	addr, _ := s.conn.LocalAddr().(*net.UDPAddr)
	return addr
}

// Received returns the number of command datagrams received so far.
func (s *Server) Received() int {
	return int(s.received.Load())
}

// ListenAndServe binds the socket and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve handles datagrams until ctx is cancelled. The socket is closed on
// return.
func (s *Server) Serve(ctx context.Context) error {
	if s.conn == nil {
		return errors.New("simulator: serve called before listen")
	}
	stop := context.AfterFunc(ctx, func() {
		s.conn.Close()
	})
	defer stop()
	defer s.conn.Close()

	buffer := make([]byte, 1024)
	for {
		n, src, err := s.conn.ReadFrom(buffer)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Info("simulator: stopped")
				return nil
			}
			log.WithError(err).Error("simulator: read from udp error")
			continue
		}

		if !bytes.Equal(buffer[:n], s.command) {
			log.WithFields(log.Fields{
				"src":   src.String(),
				"bytes": n,
			}).Debug("simulator: ignoring unknown datagram")
			continue
		}

		s.received.Add(1)
		log.WithField("src", src.String()).Info("simulator: command received")

		if err := s.respond(src); err != nil {
			log.WithError(err).WithField("src", src.String()).Error("simulator: respond error")
		}
	}
}

func (s *Server) respond(dst net.Addr) error {
	for _, r := range s.replies {
		if _, err := s.conn.WriteTo(r, dst); err != nil {
			return err
		}
	}
	_, err := s.conn.WriteTo(s.command, dst)
	return err
}
