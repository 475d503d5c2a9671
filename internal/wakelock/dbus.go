package wakelock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverDest   = "org.freedesktop.ScreenSaver"
	screenSaverPath   = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverIface  = "org.freedesktop.ScreenSaver"
	defaultAppName    = "breathe"
	defaultInhibitWhy = "Breathing session in progress"

	// callTimeout bounds each screensaver method call.
	callTimeout = 2 * time.Second
)

// Inhibitor is the slice of the freedesktop ScreenSaver API the lock needs.
type Inhibitor interface {
	Inhibit(app, reason string) (uint32, error)
	UnInhibit(cookie uint32) error
	Close() error
}

// Dialer opens an Inhibitor.
type Dialer func() (Inhibitor, error)

// DBus holds a screensaver inhibition over the session bus. The first
// failure to reach the service marks the lock permanently unavailable and
// every later call returns ErrUnavailable without touching the bus.
type DBus struct {
	mu          sync.Mutex
	dial        Dialer
	logger      *slog.Logger
	inhibitor   Inhibitor
	cookie      uint32
	held        bool
	unavailable bool
}

// Option configures a DBus lock.
type Option func(*DBus)

// WithDialer replaces the session bus connection.
func WithDialer(d Dialer) Option {
	return func(l *DBus) {
		l.dial = d
	}
}

// NewDBus creates a lock that connects lazily on first Acquire.
func NewDBus(logger *slog.Logger, opts ...Option) *DBus {
	if logger == nil {
		logger = slog.Default()
	}

	l := &DBus{
		dial:   dialSessionBus,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Acquire implements Lock.
func (l *DBus) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unavailable {
		return ErrUnavailable
	}
	if l.held {
		return nil
	}

	if l.inhibitor == nil {
		in, err := l.dial()
		if err != nil {
			l.markUnavailable(err)
			return fmt.Errorf("failed to connect to screensaver: %w", ErrUnavailable)
		}
		l.inhibitor = in
	}

	cookie, err := l.inhibitor.Inhibit(defaultAppName, defaultInhibitWhy)
	if err != nil {
		l.markUnavailable(err)
		return fmt.Errorf("failed to inhibit screensaver: %w", ErrUnavailable)
	}

	l.cookie = cookie
	l.held = true
	l.logger.Debug("wake lock acquired", "cookie", cookie)

	return nil
}

// Release implements Lock.
func (l *DBus) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return nil
	}

	l.held = false

	if err := l.inhibitor.UnInhibit(l.cookie); err != nil {
		return fmt.Errorf("failed to release screensaver inhibit: %w", err)
	}

	l.logger.Debug("wake lock released", "cookie", l.cookie)

	return nil
}

// IsHeld implements Lock.
func (l *DBus) IsHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.held
}

// Available reports whether the service has not failed yet.
func (l *DBus) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return !l.unavailable
}

// Close releases any inhibition and drops the bus connection.
func (l *DBus) Close() error {
	if err := l.Release(); err != nil {
		l.logger.Warn("failed to release wake lock on close", "error", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inhibitor == nil {
		return nil
	}

	err := l.inhibitor.Close()
	l.inhibitor = nil

	if err != nil {
		return fmt.Errorf("failed to close session bus: %w", err)
	}

	return nil
}

func (l *DBus) markUnavailable(err error) {
	l.unavailable = true
	l.logger.Info("wake lock unavailable, screen may dim during sessions", "error", err)

	if l.inhibitor != nil {
		_ = l.inhibitor.Close()
		l.inhibitor = nil
	}
}

type busInhibitor struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func dialSessionBus() (Inhibitor, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	return &busInhibitor{
		conn: conn,
		obj:  conn.Object(screenSaverDest, screenSaverPath),
	}, nil
}

func (b *busInhibitor) Inhibit(app, reason string) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	var cookie uint32
	if err := b.obj.CallWithContext(ctx, screenSaverIface+".Inhibit", 0, app, reason).Store(&cookie); err != nil {
		return 0, fmt.Errorf("failed to call Inhibit: %w", err)
	}
	return cookie, nil
}

func (b *busInhibitor) UnInhibit(cookie uint32) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	if call := b.obj.CallWithContext(ctx, screenSaverIface+".UnInhibit", 0, cookie); call.Err != nil {
		return fmt.Errorf("failed to call UnInhibit: %w", call.Err)
	}
	return nil
}

func (b *busInhibitor) Close() error {
	return b.conn.Close()
}
