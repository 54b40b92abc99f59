package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"patchbay/internal/config"
	"patchbay/internal/dsp"
)

var (
	// ErrNotConnected reports a command issued before Connect or after the
	// connection dropped.
	ErrNotConnected = errors.New("engine: not connected")
	// ErrCommand reports a command the engine answered with an error result.
	ErrCommand = errors.New("engine: command failed")
	// ErrProtocol reports a response frame that does not match the protocol.
	ErrProtocol = errors.New("engine: protocol error")
)

const (
	cmdGetVersion    = "GetVersion"
	cmdGetState      = "GetState"
	cmdGetConfig     = "GetConfigJson"
	cmdSetConfig     = "SetConfigJson"
	cmdReload        = "Reload"
	cmdCapturePeaks  = "GetCaptureSignalPeaks"
	cmdPlaybackPeaks = "GetPlaybackSignalPeaks"
)

// Options describes client construction parameters.
type Options struct {
	Address        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client is a synchronous websocket client for the engine control channel.
// Commands are serialized; concurrent callers queue on an internal lock.
type Client struct {
	opts Options

	mu   sync.Mutex
	conn *websocket.Conn
}

// New constructs a client; Connect must be called before issuing commands.
func New(opts Options) *Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	return &Client{opts: opts}
}

// FromConfig constructs a client from application configuration.
func FromConfig(cfg *config.Config) *Client {
	return New(Options{
		Address:        cfg.Engine.Address,
		ConnectTimeout: time.Duration(cfg.Engine.ConnectTimeout) * time.Second,
		RequestTimeout: time.Duration(cfg.Engine.RequestTimeout) * time.Second,
	})
}

// Address returns the configured engine address.
func (c *Client) Address() string {
	return c.opts.Address
}

// Connect establishes the websocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := url.URL{Scheme: "ws", Host: c.opts.Address, Path: "/"}

	dialCtx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial engine %s: %w", c.opts.Address, err)
	}

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Close shuts down the connection. Safe to call repeatedly.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// IsConnected reports whether a connection is currently established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

type response struct {
	Result string          `json:"result"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// call sends one command frame and waits for its response. A nil value sends
// the bare command string; otherwise a single-key object carries the value.
func (c *Client) call(ctx context.Context, command string, value any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var frame any = command
	if value != nil {
		frame = map[string]any{command: value}
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", command, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	deadline := time.Now().Add(c.opts.RequestTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, c.dropLocked(fmt.Errorf("%s: %w", command, err))
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, c.dropLocked(fmt.Errorf("send %s: %w", command, err))
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, c.dropLocked(fmt.Errorf("%s: %w", command, err))
	}
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, c.dropLocked(fmt.Errorf("read %s response: %w", command, err))
	}

	var envelope map[string]response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %v", ErrProtocol, command, err)
	}
	resp, ok := envelope[command]
	if !ok {
		return nil, fmt.Errorf("%w: response does not answer %s", ErrProtocol, command)
	}
	if resp.Result != "Ok" {
		detail := strippedValue(resp.Value)
		if detail == "" {
			return nil, fmt.Errorf("%w: %s", ErrCommand, command)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrCommand, command, detail)
	}
	return resp.Value, nil
}

// dropLocked invalidates the connection after a transport failure so the next
// command reports ErrNotConnected and the supervisor reconnects.
func (c *Client) dropLocked(err error) error {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	return err
}

func strippedValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Version returns the engine version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.stringCommand(ctx, cmdGetVersion)
}

// State returns the engine processing state.
func (c *Client) State(ctx context.Context) (string, error) {
	return c.stringCommand(ctx, cmdGetState)
}

func (c *Client) stringCommand(ctx context.Context, command string) (string, error) {
	raw, err := c.call(ctx, command, nil)
	if err != nil {
		return "", err
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%w: %s value: %v", ErrProtocol, command, err)
	}
	return value, nil
}

// GetConfig fetches and decodes the engine's active configuration.
func (c *Client) GetConfig(ctx context.Context) (dsp.Config, error) {
	raw, err := c.call(ctx, cmdGetConfig, nil)
	if err != nil {
		return dsp.Config{}, err
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return dsp.Config{}, fmt.Errorf("%w: config envelope: %v", ErrProtocol, err)
	}
	var cfg dsp.Config
	if err := json.Unmarshal([]byte(encoded), &cfg); err != nil {
		return dsp.Config{}, fmt.Errorf("%w: decode config: %v", ErrProtocol, err)
	}
	return cfg, nil
}

// SetConfig replaces the engine's configuration.
func (c *Client) SetConfig(ctx context.Context, cfg dsp.Config) error {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = c.call(ctx, cmdSetConfig, string(encoded))
	return err
}

// Reload asks the engine to re-apply its configuration.
func (c *Client) Reload(ctx context.Context) error {
	_, err := c.call(ctx, cmdReload, nil)
	return err
}

// CaptureLevels returns the current capture peak levels in dB, one per channel.
func (c *Client) CaptureLevels(ctx context.Context) ([]float64, error) {
	return c.levelsCommand(ctx, cmdCapturePeaks)
}

// PlaybackLevels returns the current playback peak levels in dB, one per channel.
func (c *Client) PlaybackLevels(ctx context.Context) ([]float64, error) {
	return c.levelsCommand(ctx, cmdPlaybackPeaks)
}

func (c *Client) levelsCommand(ctx context.Context, command string) ([]float64, error) {
	raw, err := c.call(ctx, command, nil)
	if err != nil {
		return nil, err
	}
	var levels []float64
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, fmt.Errorf("%w: %s value: %v", ErrProtocol, command, err)
	}
	return levels, nil
}
