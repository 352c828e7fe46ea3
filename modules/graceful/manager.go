// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package graceful

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
)

type state uint8

const (
	stateInit state = iota
	stateRunning
	stateShuttingDown
	stateTerminate
)

// Manager coordinates the shutdown of the servers and background services of the process.
//
// Shutdown asks everything to stop accepting new work. The hammer follows after
// setting.GracefulHammerTime and cancels whatever is still running.
type Manager struct {
	lock  sync.RWMutex
	state state

	shutdownCtx    context.Context
	hammerCtx      context.Context
	shutdownCancel context.CancelFunc
	hammerCancel   context.CancelFunc

	runningServerWaitGroup sync.WaitGroup
	terminateWaitGroup     sync.WaitGroup
	done                   chan struct{}
}

var (
	manager     *Manager
	initOnce    sync.Once
	signalsOnce sync.Once
)

// GetManager returns the process wide manager
func GetManager() *Manager {
	InitManager(context.Background())
	return manager
}

// InitManager creates the process wide manager, the shutdown starts when ctx is done
func InitManager(ctx context.Context) {
	initOnce.Do(func() {
		manager = newManager(ctx)
	})
}

func newManager(ctx context.Context) *Manager {
	g := &Manager{state: stateRunning, done: make(chan struct{})}
	g.shutdownCtx, g.shutdownCancel = context.WithCancel(ctx)
	g.hammerCtx, g.hammerCancel = context.WithCancel(context.WithoutCancel(ctx))
	go func() {
		<-g.shutdownCtx.Done()
		g.doShutdown()
	}()
	return g
}

// HandleSignals starts the shutdown on SIGINT or SIGTERM
func (g *Manager) HandleSignals() {
	signalsOnce.Do(func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-signals:
				log.Info("Received %v, shutting down", sig)
				g.DoGracefulShutdown()
			case <-g.IsShutdown():
			}
			signal.Stop(signals)
		}()
	})
}

// ShutdownContext is done once the shutdown has started
func (g *Manager) ShutdownContext() context.Context {
	return g.shutdownCtx
}

// HammerContext is done once the hammer time is over
func (g *Manager) HammerContext() context.Context {
	return g.hammerCtx
}

// IsShutdown is closed once the shutdown has started
func (g *Manager) IsShutdown() <-chan struct{} {
	return g.shutdownCtx.Done()
}

// IsHammer is closed once the hammer time is over
func (g *Manager) IsHammer() <-chan struct{} {
	return g.hammerCtx.Done()
}

// Done is closed once every server has returned and the terminate callbacks have finished
func (g *Manager) Done() <-chan struct{} {
	return g.done
}

// DoGracefulShutdown starts the shutdown
func (g *Manager) DoGracefulShutdown() {
	g.shutdownCancel()
}

// RunWithShutdownContext runs run until it returns, its context is done at shutdown
func (g *Manager) RunWithShutdownContext(run func(context.Context)) {
	g.runningServerWaitGroup.Add(1)
	defer g.runningServerWaitGroup.Done()
	run(g.ShutdownContext())
}

// RunAtShutdown runs shutdown in its own goroutine once the shutdown starts, unless ctx is done first
func (g *Manager) RunAtShutdown(ctx context.Context, shutdown func()) {
	go func() {
		select {
		case <-g.IsShutdown():
			shutdown()
		case <-ctx.Done():
		}
	}()
}

// RunAtTerminate runs terminate after all servers returned, Done waits for it
func (g *Manager) RunAtTerminate(terminate func()) {
	g.terminateWaitGroup.Add(1)
	go func() {
		defer g.terminateWaitGroup.Done()
		<-g.done
		terminate()
	}()
}

func (g *Manager) setStateTransition(from, to state) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.state != from {
		return false
	}
	g.state = to
	return true
}

func (g *Manager) doShutdown() {
	if !g.setStateTransition(stateRunning, stateShuttingDown) {
		return
	}
	log.Info("Graceful shutdown started, the hammer falls in %s", setting.GracefulHammerTime)
	hammer := time.AfterFunc(setting.GracefulHammerTime, func() {
		log.Warn("Hammer time is over, cancelling the remaining work")
		g.hammerCancel()
	})

	go func() {
		g.runningServerWaitGroup.Wait()
		hammer.Stop()
		g.setStateTransition(stateShuttingDown, stateTerminate)
		close(g.done)
		g.terminateWaitGroup.Wait()
		g.hammerCancel()
		log.Info("Graceful shutdown finished")
	}()
}
