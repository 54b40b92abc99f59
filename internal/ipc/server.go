package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"patchbay/internal/daemon"
	"patchbay/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Patchbay", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.EngineAddress = status.EngineAddress
	resp.EngineConnected = status.EngineConnected
	resp.EngineVersion = status.EngineVersion
	resp.EngineState = status.EngineState
	resp.ConnectedSince = status.ConnectedSince
	resp.LastError = status.LastError
	resp.LockPath = status.LockPath
	resp.LogPath = s.daemon.LogPath()
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) GetConfig(_ GetConfigRequest, resp *GetConfigResponse) error {
	cfg, err := s.daemon.GetConfig(s.ctx)
	if err != nil {
		return err
	}
	resp.Config = cfg
	return nil
}

func (s *service) ApplyConfig(req ApplyConfigRequest, resp *ApplyConfigResponse) error {
	s.log().Debug("config apply requested")
	if err := s.daemon.ApplyConfig(s.ctx, req.Config); err != nil {
		return err
	}
	resp.Applied = true
	return nil
}

func (s *service) ApplyFlow(req ApplyFlowRequest, resp *ApplyFlowResponse) error {
	s.log().Debug("flow apply requested",
		logging.Int("route_count", len(req.Model.Routes)),
		logging.Bool("activate", req.Activate))
	result, err := s.daemon.ApplyFlow(s.ctx, req.Model, req.Activate)
	if err != nil {
		return err
	}
	resp.Representable = result.Representable
	resp.Warnings = result.Warnings
	return nil
}

func (s *service) Levels(_ LevelsRequest, resp *LevelsResponse) error {
	resp.Levels = s.daemon.Levels()
	return nil
}

func (s *service) Reload(_ ReloadRequest, resp *ReloadResponse) error {
	s.log().Debug("engine reload requested")
	if err := s.daemon.Reload(s.ctx); err != nil {
		return err
	}
	resp.Reloaded = true
	s.log().Info("engine reloaded via IPC",
		logging.String(logging.FieldEventType, "engine_reload"))
	return nil
}
