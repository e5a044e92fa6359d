package livesplit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// Config controls a Client.
type Config struct {
	// Addr is host:port of the LiveSplit Server.
	Addr string

	// MaxRetries is the number of attempts for each read or write.
	MaxRetries uint
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration

	// DialTimeout bounds each connection attempt.
	DialTimeout time.Duration
	// IOTimeout bounds each read or write. Zero means no deadline.
	IOTimeout time.Duration
}

// DefaultConfig returns the settings used against a local LiveSplit.
func DefaultConfig() Config {
	return Config{
		Addr:        net.JoinHostPort("localhost", strconv.Itoa(DefaultPort)),
		MaxRetries:  3,
		RetryDelay:  500 * time.Millisecond,
		DialTimeout: time.Second,
		IOTimeout:   2 * time.Second,
	}
}

// Client is a Timer backed by a TCP connection.
type Client struct {
	cfg       Config
	dialer    net.Dialer
	conn      net.Conn
	reader    *bufio.Reader
	partial   string
	connected bool
}

// NewClient creates an unconnected client. Call Reconnect to connect.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		dialer: net.Dialer{Timeout: cfg.DialTimeout},
	}
}

// Dial creates a client and connects it.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	c := NewClient(cfg)
	if err := c.Reconnect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reconnect dials the server, discarding any previous connection.
func (c *Client) Reconnect(ctx context.Context) error {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("connect to LiveSplit at %s: %w", c.cfg.Addr, err)
	}

	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.partial = ""
	c.connected = true
	log.Info().Str("addr", c.cfg.Addr).Msg("LiveSplit connection established")
	return nil
}

// Connected reports whether the connection is believed usable.
func (c *Client) Connected() bool {
	return c.connected
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.connected = false
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connectionLost(err error) {
	log.Error().Err(err).Msg("LiveSplit connection lost")
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
	}
}

// isFatal reports whether err means the connection is gone.
func isFatal(err error) bool {
	for _, target := range []error{
		syscall.EPIPE,
		syscall.ECONNABORTED,
		syscall.ECONNRESET,
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
		syscall.ENETUNREACH,
		syscall.ENOTCONN,
		net.ErrClosed,
		io.EOF,
		io.ErrUnexpectedEOF,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// retry runs op until it succeeds, fails fatally or runs out of attempts.
func retry[T any](ctx context.Context, c *Client, op func() (T, error)) (T, error) {
	if !c.connected {
		var zero T
		return zero, ErrNotConnected
	}

	attempt := func() (T, error) {
		v, err := op()
		if err != nil && isFatal(err) {
			c.connectionLost(err)
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	v, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.cfg.RetryDelay)),
		backoff.WithMaxTries(c.cfg.MaxRetries),
		backoff.WithNotify(func(err error, _ time.Duration) {
			log.Warn().Err(err).Msg("LiveSplit communication error. Retrying...")
		}),
	)
	if err != nil && c.connected && ctx.Err() == nil {
		c.connectionLost(ErrMaxRetries)
		return v, fmt.Errorf("%w: %w", ErrMaxRetries, err)
	}
	return v, err
}

func (c *Client) deadline() time.Time {
	if c.cfg.IOTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.cfg.IOTimeout)
}

func (c *Client) send(ctx context.Context, command string) error {
	data := []byte(command + "\n")
	_, err := retry(ctx, c, func() (struct{}, error) {
		if err := c.conn.SetWriteDeadline(c.deadline()); err != nil {
			return struct{}{}, err
		}
		n, err := c.conn.Write(data)
		data = data[n:]
		return struct{}{}, err
	})
	return err
}

func (c *Client) recv(ctx context.Context) (string, error) {
	return retry(ctx, c, func() (string, error) {
		if err := c.conn.SetReadDeadline(c.deadline()); err != nil {
			return "", err
		}
		chunk, err := c.reader.ReadString('\n')
		c.partial += chunk
		if err != nil {
			return "", err
		}
		line := strings.TrimSuffix(strings.TrimSuffix(c.partial, "\n"), "\r")
		c.partial = ""
		return line, nil
	})
}

func (c *Client) request(ctx context.Context, command string) (string, error) {
	if err := c.send(ctx, command); err != nil {
		return "", err
	}
	return c.recv(ctx)
}

// Split starts the timer or splits.
func (c *Client) Split(ctx context.Context) error {
	return c.send(ctx, "startorsplit")
}

// Reset resets the timer.
func (c *Client) Reset(ctx context.Context) error {
	return c.send(ctx, "reset")
}

// SplitIndex returns the current split index, -1 when not running.
func (c *Client) SplitIndex(ctx context.Context) (int, error) {
	reply, err := c.request(ctx, "getsplitindex")
	if err != nil {
		return 0, err
	}
	index, err := strconv.Atoi(reply)
	if err != nil {
		return 0, fmt.Errorf("parse split index: %w", err)
	}
	return index, nil
}

// Phase returns the timer phase.
func (c *Client) Phase(ctx context.Context) (Phase, error) {
	reply, err := c.request(ctx, "gettimerphase")
	if err != nil {
		return "", err
	}
	return ParsePhase(reply)
}

// CustomVariable reads a custom variable. "-" or an empty reply means unset.
func (c *Client) CustomVariable(ctx context.Context, name string) (string, bool, error) {
	reply, err := c.request(ctx, "getcustomvariablevalue "+name)
	if err != nil {
		return "", false, err
	}
	if reply == "-" || reply == "" {
		return "", false, nil
	}
	return reply, true, nil
}
