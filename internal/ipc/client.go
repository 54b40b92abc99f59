package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"patchbay/internal/dsp"
	"patchbay/internal/flow"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Patchbay.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Patchbay.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetConfig retrieves the engine's active configuration.
func (c *Client) GetConfig() (*GetConfigResponse, error) {
	var resp GetConfigResponse
	if err := c.client.Call("Patchbay.GetConfig", GetConfigRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApplyConfig replaces the engine configuration.
func (c *Client) ApplyConfig(cfg dsp.Config) (*ApplyConfigResponse, error) {
	var resp ApplyConfigResponse
	req := ApplyConfigRequest{Config: cfg}
	if err := c.client.Call("Patchbay.ApplyConfig", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApplyFlow synthesizes and pushes a signal-flow model.
func (c *Client) ApplyFlow(model flow.Model, activate bool) (*ApplyFlowResponse, error) {
	var resp ApplyFlowResponse
	req := ApplyFlowRequest{Model: model, Activate: activate}
	if err := c.client.Call("Patchbay.ApplyFlow", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Levels retrieves the current metering snapshot.
func (c *Client) Levels() (*LevelsResponse, error) {
	var resp LevelsResponse
	if err := c.client.Call("Patchbay.Levels", LevelsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reload asks the engine to re-apply its configuration.
func (c *Client) Reload() (*ReloadResponse, error) {
	var resp ReloadResponse
	if err := c.client.Call("Patchbay.Reload", ReloadRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
