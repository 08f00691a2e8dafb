package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"briefing-server/internal/pipeline"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // источники ограничиваются общим CORS-слоем
	},
}

// Message — сообщение, отправляемое клиенту через WebSocket.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// client представляет одно WebSocket-соединение браузера.
type client struct {
	id        uuid.UUID
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Manager управляет WebSocket-соединениями и рассылает события хода
// выполнения клиентам соответствующей сессии.
type Manager struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	logger  *zap.Logger
}

// NewManager создает новый Manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		clients: make(map[uuid.UUID]*client),
		logger:  logger.Named("WebSocket"),
	}
}

// Notify реализует pipeline.Notifier: событие уходит всем соединениям
// сессии. Доставка best-effort: переполненный буфер клиента приводит к
// пропуску события, а не к блокировке конвейера.
func (m *Manager) Notify(event pipeline.ProgressEvent) {
	data, err := json.Marshal(Message{Type: "progress", Payload: event})
	if err != nil {
		m.logger.Error("Failed to marshal progress event", zap.Error(err))
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.sessionID != event.SessionID {
			continue
		}
		select {
		case c.send <- data:
		default:
			m.logger.Warn("Dropping progress event: client send buffer full",
				zap.String("sessionId", c.sessionID))
		}
	}
}

// Handle апгрейдит HTTP-запрос до WebSocket и обслуживает соединение до
// закрытия клиентом.
func (m *Manager) Handle(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:        uuid.New(),
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}

	m.mu.Lock()
	m.clients[c.id] = c
	m.mu.Unlock()
	m.logger.Debug("WebSocket client connected", zap.String("sessionId", sessionID))

	go m.writePump(c)
	m.readPump(c)
}

// readPump читает входящие сообщения только ради обнаружения закрытия;
// клиентский ввод по этому каналу не используется.
func (m *Manager) readPump(c *client) {
	defer m.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (m *Manager) unregister(c *client) {
	m.mu.Lock()
	if _, ok := m.clients[c.id]; ok {
		close(c.send)
		delete(m.clients, c.id)
	}
	m.mu.Unlock()
	_ = c.conn.Close()
	m.logger.Debug("WebSocket client disconnected", zap.String("sessionId", c.sessionID))
}

// Close закрывает все активные соединения.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(m.clients, id)
	}
}
