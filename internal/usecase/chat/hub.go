package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const subscriberBuffer = 16

// Hub entrega as mensagens novas aos streams abertos de cada usuário.
// Vale só dentro do processo: com várias instâncias o cliente recarrega via REST.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[chan models.Message]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[chan models.Message]struct{})}
}

// Subscribe devolve o canal do usuário e a função que o encerra.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan models.Message, func()) {
	ch := make(chan models.Message, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		// hub encerrado: stream termina na hora
		close(ch)
		return ch, func() {}
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan models.Message]struct{})
	}
	h.subs[userID][ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[userID][ch]; !ok {
			return
		}
		delete(h.subs[userID], ch)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
		close(ch)
	}
}

// Close fecha todos os streams abertos; usado no shutdown do servidor.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, chans := range h.subs {
		for ch := range chans {
			close(ch)
		}
		delete(h.subs, userID)
	}
}

// Publish nunca bloqueia: stream lento perde a mensagem.
func (h *Hub) Publish(userID uuid.UUID, msg models.Message) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subs[userID] {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
