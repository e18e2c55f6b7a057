// Copyright (C) 2024 JuniorHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pubsub

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresMessage struct {
	ID        string         `json:"id"`
	Channel   Channel        `json:"topic"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// PostgreSQLBroker implements the Broker interface using PostgreSQL
// LISTEN/NOTIFY. Connected API instances receive each other's pushes, so
// a recipient's websocket/SSE handler can live on any instance.
type PostgreSQLBroker struct {
	db           *sql.DB
	listener     *pq.Listener
	subscribers  map[Channel][]chan map[string]any
	subscribeMux sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	isListening  bool
	listeningMux sync.RWMutex
}

func BrokerFactory() (Broker, error) {
	return NewPostgreSQLBroker(
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}

func NewPostgreSQLBroker(user, password, host, port, dbname string) (*PostgreSQLBroker, error) {
	connectionString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	listener := pq.NewListener(connectionString, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Error("PostgreSQL listener error", "error", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())

	return &PostgreSQLBroker{
		db:          db,
		listener:    listener,
		subscribers: make(map[Channel][]chan map[string]any),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Publish implements the Broker interface.
func (b *PostgreSQLBroker) Publish(ctx context.Context, message Message) error {
	topic := message.GetChannel()

	pgMessage := postgresMessage{
		ID:        uuid.New().String(),
		Channel:   topic,
		Payload:   message.GetPayload(),
		Timestamp: time.Now(),
	}

	messageJSON, err := json.Marshal(pgMessage)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// pg_notify with bound parameters: the payload carries user written
	// text (titles, comment bodies) and must never reach the statement
	// as a literal
	if _, err := b.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", string(topic), string(messageJSON)); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	slog.Debug("message published", "topic", topic, "messageID", pgMessage.ID)
	return nil
}

// Subscribe implements the Broker interface.
func (b *PostgreSQLBroker) Subscribe(topic Channel) (<-chan map[string]any, error) {
	b.subscribeMux.Lock()
	defer b.subscribeMux.Unlock()

	ch := make(chan map[string]any, 100)

	if _, exists := b.subscribers[topic]; !exists {
		b.subscribers[topic] = []chan map[string]any{}

		if err := b.listener.Listen(string(topic)); err != nil {
			close(ch)
			return nil, fmt.Errorf("failed to listen on topic %s: %w", topic, err)
		}
		slog.Info("started listening on topic", "topic", topic)
	}

	b.subscribers[topic] = append(b.subscribers[topic], ch)

	b.listeningMux.Lock()
	if !b.isListening {
		b.isListening = true
		b.wg.Add(1)
		go b.processMessages()
	}
	b.listeningMux.Unlock()

	return ch, nil
}

// Unsubscribe implements the Broker interface. Once the last subscriber
// of a topic is gone the LISTEN registration is dropped too, topics do
// not accumulate across reconnects.
func (b *PostgreSQLBroker) Unsubscribe(topic Channel, ch <-chan map[string]any) {
	b.subscribeMux.Lock()
	defer b.subscribeMux.Unlock()

	subscribers := b.subscribers[topic]
	for i, subscriber := range subscribers {
		if (<-chan map[string]any)(subscriber) != ch {
			continue
		}
		b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
		close(subscriber)
		break
	}

	if len(b.subscribers[topic]) == 0 {
		delete(b.subscribers, topic)
		if err := b.listener.Unlisten(string(topic)); err != nil {
			slog.Warn("failed to unlisten topic", "topic", topic, "error", err)
		}
	}
}

func (b *PostgreSQLBroker) processMessages() {
	defer b.wg.Done()
	defer func() {
		b.listeningMux.Lock()
		b.isListening = false
		b.listeningMux.Unlock()
	}()

	for {
		select {
		case <-b.ctx.Done():
			slog.Info("message processing stopped")
			return
		case notification := <-b.listener.Notify:
			if notification != nil {
				b.handleNotification(notification)
			}
		case <-time.After(time.Second):
			// keep the connection alive
			if err := b.listener.Ping(); err != nil {
				slog.Error("failed to ping listener", "error", err)
			}
		}
	}
}

func (b *PostgreSQLBroker) handleNotification(notification *pq.Notification) {
	var message postgresMessage
	if err := json.Unmarshal([]byte(notification.Extra), &message); err != nil {
		slog.Error("failed to unmarshal message", "error", err, "payload", notification.Extra)
		return
	}

	topic := Channel(notification.Channel)

	// the lock is held across the sends so Unsubscribe cannot close a
	// channel mid fan-out; sends never block, see below
	b.subscribeMux.RLock()
	defer b.subscribeMux.RUnlock()

	for _, subscriber := range b.subscribers[topic] {
		select {
		case subscriber <- message.Payload:
		default:
			// at-most-once best effort: a slow consumer loses the push,
			// the persisted notification remains the source of truth
			slog.Warn("subscriber channel full, dropping message", "topic", topic, "messageID", message.ID)
		}
	}
}

// Close stops the broker and cleans up resources.
func (b *PostgreSQLBroker) Close() error {
	b.cancel()
	b.wg.Wait()

	b.subscribeMux.Lock()
	for topic, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			close(ch)
		}
		delete(b.subscribers, topic)
	}
	b.subscribeMux.Unlock()

	if err := b.listener.Close(); err != nil {
		return fmt.Errorf("failed to close listener: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// IsHealthy checks if the broker is functioning properly.
func (b *PostgreSQLBroker) IsHealthy() bool {
	if b.db == nil {
		return false
	}
	if err := b.db.Ping(); err != nil {
		return false
	}
	return b.listener.Ping() == nil
}
