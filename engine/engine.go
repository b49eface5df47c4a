package engine

import (
	"log"
	"time"

	"fleetdispatch/config"
	"fleetdispatch/dispatch"
	"fleetdispatch/livestate"
	"fleetdispatch/messaging"
	"fleetdispatch/orders"
	"fleetdispatch/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	Backend    orders.Backend
	Live       *livestate.Manager
	MsgClient  *messaging.Client
	LogFunc    LogFunc
}

type Engine struct {
	cfg             *config.Config
	configPath      string
	db              *store.DB
	backend         orders.Backend
	live            *livestate.Manager
	msgClient       *messaging.Client
	dispatcher      *dispatch.Dispatcher
	Events          *EventBus
	logFn           LogFunc
	stopChan        chan struct{}
	ordersConnected bool
	msgConnected    bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		backend:    c.Backend,
		live:       c.Live,
		msgClient:  c.MsgClient,
		Events:     NewEventBus(),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}
}

func (e *Engine) Start() {
	de := &dispatchEmitter{bus: e.Events}

	e.dispatcher = dispatch.NewDispatcher(
		e.db,
		e.backend,
		de,
		e.cfg.Messaging.DeliveriesTopic,
	)

	e.wireEventHandlers()

	// Emit initial connection status
	e.checkConnectionStatus()

	// Start periodic connection health check
	go e.connectionHealthLoop()

	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	select {
	case e.stopChan <- struct{}{}:
	default:
	}
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB                    { return e.db }
func (e *Engine) AppConfig() *config.Config        { return e.cfg }
func (e *Engine) ConfigPath() string               { return e.configPath }
func (e *Engine) Dispatcher() *dispatch.Dispatcher { return e.dispatcher }
func (e *Engine) Live() *livestate.Manager         { return e.live }
func (e *Engine) Backend() orders.Backend          { return e.backend }
func (e *Engine) MsgClient() *messaging.Client     { return e.msgClient }

func (e *Engine) checkConnectionStatus() {
	// Orders backend
	if err := e.backend.Ping(); err == nil {
		if !e.ordersConnected {
			e.ordersConnected = true
			e.Events.Emit(Event{Type: EventOrdersConnected, Payload: ConnectionEvent{Detail: e.backend.Name() + " connected"}})
		}
	} else {
		if e.ordersConnected {
			e.ordersConnected = false
			e.Events.Emit(Event{Type: EventOrdersDisconnected, Payload: ConnectionEvent{Detail: err.Error()}})
		}
	}

	// Messaging
	if e.msgClient.IsConnected() {
		if !e.msgConnected {
			e.msgConnected = true
			e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		}
	} else {
		if e.msgConnected {
			e.msgConnected = false
			e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}

// ReconfigureOrders applies orders backend config changes live.
func (e *Engine) ReconfigureOrders() {
	e.backend.Reconfigure(e.cfg.Orders.BaseURL, e.cfg.Orders.Timeout)
	e.logFn("engine: orders backend reconfigured (%s)", e.backend.Name())
	e.checkConnectionStatus()
}

// ReconfigureMessaging reconnects messaging with current config.
func (e *Engine) ReconfigureMessaging() {
	if err := e.msgClient.Reconfigure(&e.cfg.Messaging); err != nil {
		e.logFn("engine: messaging reconfigure error: %v", err)
	} else {
		e.logFn("engine: messaging reconfigured")
	}
	e.checkConnectionStatus()
}
