// Package handshake implements the Tello "command" handshake over UDP: send
// the command datagram and, optionally, wait until the drone echoes it back.
package handshake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/tellocontrol/tellocontrol/internal/config"
)

//go:generate mockgen -destination mock_packetconn_test.go -package handshake net PacketConn
//go:generate mockgen -source client.go -destination mock_listener_test.go -package handshake -self_package github.com/tellocontrol/tellocontrol/internal/handshake

// PacketListener opens the datagram socket used for a run. *net.ListenConfig
// satisfies it.
type PacketListener interface {
	ListenPacket(ctx context.Context, network, address string) (net.PacketConn, error)
}

// Endpoint is the destination of the command datagram.
type Endpoint struct {
	IP   string
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP, strconv.Itoa(e.Port))
}

// UDPAddr builds the IPv4 destination address.
func (e Endpoint) UDPAddr() (*net.UDPAddr, error) {
	ip := net.ParseIP(e.IP).To4()
	if ip == nil {
		return nil, fmt.Errorf("invalid IPv4 address %q", e.IP)
	}
	return &net.UDPAddr{IP: ip, Port: e.Port}, nil
}

// Result describes how a run ended.
type Result struct {
	State State
	// Discarded counts received datagrams that did not match the payload.
	Discarded int
}

// Client performs handshake runs. Each call to ConnectAndSend or
// ConnectAndWait is an independent run with its own socket.
type Client struct {
	endpoint   Endpoint
	payload    []byte
	bufferSize int
	timeout    time.Duration

	listener PacketListener
	out      io.Writer
}

// NewClient returns a Client for the given configuration. Status lines are
// written to out.
func NewClient(conf *config.Config, out io.Writer) *Client {
	if out == nil {
		out = io.Discard
	}
	return &Client{
		endpoint:   Endpoint{IP: conf.Tello.Host, Port: conf.Tello.Port},
		payload:    []byte(conf.Handshake.Payload),
		bufferSize: conf.Handshake.BufferSize,
		timeout:    conf.Handshake.Timeout,
		listener:   &net.ListenConfig{},
		out:        out,
	}
}

// SetListener replaces the socket factory.
func (c *Client) SetListener(l PacketListener) {
	c.listener = l
}

// Endpoint returns the destination of the command datagram.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// ConnectAndSend sends the payload once and returns without waiting for a
// response.
func (c *Client) ConnectAndSend(ctx context.Context) (Result, error) {
	return c.run(ctx, false)
}

// ConnectAndWait sends the payload and then receives until a datagram equal
// to the payload arrives. Without a configured timeout it blocks until a match
// arrives, the receive fails or ctx is cancelled.
func (c *Client) ConnectAndWait(ctx context.Context) (Result, error) {
	return c.run(ctx, true)
}

// Matches reports whether datagram, read as a NUL-terminated string, equals
// payload.
func Matches(datagram, payload []byte) bool {
	if i := bytes.IndexByte(datagram, 0); i >= 0 {
		datagram = datagram[:i]
	}
	return bytes.Equal(datagram, payload)
}

type session struct {
	*Client
	state     State
	discarded int
	logger    *log.Entry
}

func (c *Client) run(ctx context.Context, wait bool) (res Result, err error) {
	r := &session{
		Client: c,
		state:  StateInit,
		logger: log.WithFields(log.Fields{
			"run_id":   newRunID(),
			"endpoint": c.endpoint.String(),
		}),
	}
	defer func() {
		res = Result{State: r.state, Discarded: r.discarded}
	}()

	conn, err := c.listener.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		r.step(EventFail)
		return res, wrap(ErrSocketCreation, err)
	}
	r.step(EventOpen)
	r.logger.WithField("local_addr", conn.LocalAddr()).Debug("handshake: socket opened")

	defer func() {
		if cerr := conn.Close(); cerr != nil {
			r.logger.WithError(cerr).Warning("handshake: close socket error")
		}
		if err != nil {
			r.step(EventFail)
		} else {
			r.step(EventClose)
		}
		r.logger.WithField("state", r.state).Debug("handshake: socket closed")
	}()

	if err = r.send(conn); err != nil {
		return res, err
	}

	if !wait {
		fmt.Fprintf(c.out, "Sent '%s' to Tello. You can now send more commands or receive responses.\n", c.payload)
		return res, nil
	}

	fmt.Fprintf(c.out, "Sent '%s' to Tello. Waiting for response...\n", c.payload)
	if err = r.receive(ctx, conn); err != nil {
		return res, err
	}
	fmt.Fprintf(c.out, "Received '%s' from Tello. You can now send more commands or receive responses.\n", c.payload)
	return res, nil
}

func (r *session) send(conn net.PacketConn) error {
	dst, err := r.endpoint.UDPAddr()
	if err != nil {
		return wrap(ErrSend, err)
	}
	if _, err := conn.WriteTo(r.payload, dst); err != nil {
		return wrap(ErrSend, err)
	}
	r.step(EventSend)
	r.logger.WithField("bytes", len(r.payload)).Debug("handshake: command sent")
	return nil
}

// aLongTimeAgo is a deadline in the past, used to unblock a pending read.
var aLongTimeAgo = time.Unix(1, 0)

func (r *session) receive(ctx context.Context, conn net.PacketConn) error {
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(aLongTimeAgo)
	})
	defer stop()

	r.step(EventReceive)
	// At least one byte past the payload, so truncation never yields a match.
	size := r.bufferSize
	if size <= len(r.payload) {
		size = len(r.payload) + 1
	}
	buf := make([]byte, size)
	for {
		if err := ctx.Err(); err != nil {
			return wrap(ErrReceive, err)
		}
		if r.timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
				return wrap(ErrReceive, err)
			}
			// A cancel that landed before the deadline was armed had its
			// past deadline overwritten.
			if err := ctx.Err(); err != nil {
				return wrap(ErrReceive, err)
			}
		}

		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return wrap(ErrReceive, ctxErr)
			}
			return wrap(ErrReceive, err)
		}

		if Matches(buf[:n], r.payload) {
			r.step(EventMatch)
			r.logger.WithField("discarded", r.discarded).Debug("handshake: command confirmed")
			return nil
		}
		r.discarded++
		r.step(EventMismatch)
	}
}

func (r *session) step(event Event) {
	next, err := Transition(r.state, event)
	if err != nil {
		r.logger.WithError(err).Error("handshake: state machine error")
		return
	}
	r.state = next
}

func newRunID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.WithError(err).Warning("handshake: generate run id error")
		return uuid.Nil.String()
	}
	return id.String()
}
