// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package graceful

import (
	"context"
	"errors"
	"net"
	"net/http"

	"code.gitea.io/dispatcher/modules/log"
)

// ServeHTTP serves srv on listener until the shutdown, then waits for in-flight requests
// until the hammer falls
func (g *Manager) ServeHTTP(name string, listener net.Listener, srv *http.Server) error {
	if srv.BaseContext == nil {
		srv.BaseContext = func(net.Listener) context.Context { return g.HammerContext() }
	}

	var err error
	g.RunWithShutdownContext(func(ctx context.Context) {
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			select {
			case <-ctx.Done():
			case <-g.IsHammer():
				return
			}
			log.Info("Stopping %s server on %s", name, listener.Addr())
			if errShutdown := srv.Shutdown(g.HammerContext()); errShutdown != nil {
				log.Warn("%s server did not stop gracefully: %v", name, errShutdown)
				_ = srv.Close()
			}
		}()

		log.Info("Starting %s server on %s", name, listener.Addr())
		err = srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
			<-stopped
		} else {
			g.DoGracefulShutdown()
		}
	})
	return err
}
