package toasthttp

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/memokit/pkg/toast"
)

// stream upgrades to a WebSocket and pushes a Message for the current state
// and then for every change. Only the latest pending snapshot is kept for a
// slow client.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	log := s.logger.With("subscriber", id)
	s.addClient(id, conn)
	defer s.removeClient(id)
	log.Info("toast subscriber connected", "remote", r.RemoteAddr)

	updates := make(chan toast.State, 1)
	push := func(state toast.State) {
		for {
			select {
			case updates <- state:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}
	push(s.provider.State())
	unsubscribe := s.provider.Subscribe(push)
	defer unsubscribe()

	// Reads only detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case state := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Message{Event: toast.EventName, State: state}); err != nil {
				log.Warn("toast subscriber write failed", "error", err)
				conn.Close()
				<-done
				return
			}
		case <-done:
			conn.Close()
			log.Info("toast subscriber disconnected")
			return
		}
	}
}

func (s *Server) addClient(id string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[id] = conn
}

func (s *Server) removeClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

// ClientCount returns the number of connected WebSocket subscribers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects all WebSocket subscribers.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
}
