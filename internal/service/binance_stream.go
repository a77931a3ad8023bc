package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/logger"
	"EntryFeed/pkg/util"
)

type binanceStream struct {
	url          string
	pingInterval time.Duration
	log          *logger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewBinanceStream subscribes to the aggregate miniTicker stream and feeds
// the price cache between worker cycles.
func NewBinanceStream(url string, pingInterval time.Duration, log *logger.Logger) repository.PriceStream {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &binanceStream{url: url, pingInterval: pingInterval, log: log}
}

func (s *binanceStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	s.conn = conn
	s.connected = true
	s.log.Info("price stream connected", logger.String("url", s.url))
	return nil
}

func (s *binanceStream) Subscribe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("stream not connected")
	}
	req := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": []string{"!miniTicker@arr"},
		"id":     1,
	}
	return s.conn.WriteJSON(req)
}

// miniTicker is the subset of the stream payload the cache needs.
type miniTicker struct {
	Symbol string `json:"s"`
	Close  string `json:"c"`
}

func (s *binanceStream) Read(ctx context.Context) (<-chan repository.PriceTick, <-chan error) {
	ticks := make(chan repository.PriceTick, 256)
	errs := make(chan error, 1)

	go s.keepAlive(ctx)
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn == nil {
				errs <- fmt.Errorf("stream not connected")
				return
			}

			_, payload, err := conn.ReadMessage()
			if err != nil {
				s.setConnected(false)
				errs <- fmt.Errorf("read stream: %w", err)
				return
			}
			for _, tick := range decodeTicks(payload) {
				select {
				case ticks <- tick:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ticks, errs
}

func (s *binanceStream) Reconnect(ctx context.Context) error {
	s.Close()
	return s.Connect(ctx)
}

func (s *binanceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *binanceStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *binanceStream) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

func (s *binanceStream) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn == nil {
				return
			}
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.log.Warn("stream ping failed", logger.Error(err))
				return
			}
		}
	}
}

// decodeTicks handles both the array payload and single-object events,
// ignoring subscription acks and anything without a positive close price.
func decodeTicks(payload []byte) []repository.PriceTick {
	var arr []miniTicker
	if err := json.Unmarshal(payload, &arr); err != nil {
		var one miniTicker
		if err := json.Unmarshal(payload, &one); err != nil {
			return nil
		}
		arr = []miniTicker{one}
	}

	ticks := make([]repository.PriceTick, 0, len(arr))
	for _, t := range arr {
		if t.Symbol == "" {
			continue
		}
		price := util.ParseFloatDefault(t.Close, 0)
		if price <= 0 {
			continue
		}
		ticks = append(ticks, repository.PriceTick{Symbol: t.Symbol, Price: price})
	}
	return ticks
}
