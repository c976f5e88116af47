package gemini

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// GeminiClientSelector manages round-robin selection and failover across
// multiple Gemini clients (one per API key).
type GeminiClientSelector struct {
	clients      []GeminiClient
	currentIndex int
	mutex        sync.Mutex
}

func NewGeminiClientSelector(clients []GeminiClient) *GeminiClientSelector {
	return &GeminiClientSelector{
		clients:      clients,
		currentIndex: 0,
	}
}

// GetNextClient returns the next client in round-robin order.
func (s *GeminiClientSelector) GetNextClient() (*GeminiClient, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.clients) == 0 {
		return nil, -1
	}

	client := &s.clients[s.currentIndex]
	index := s.currentIndex
	s.currentIndex = (s.currentIndex + 1) % len(s.clients)

	return client, index
}

func (s *GeminiClientSelector) GetClientCount() int {
	return len(s.clients)
}

// TryAllClients attempts the operation with each client until one succeeds.
func (s *GeminiClientSelector) TryAllClients(operation func(*GeminiClient, int) error) error {
	clientCount := s.GetClientCount()
	if clientCount == 0 {
		return fmt.Errorf("no Gemini clients available")
	}

	errorsCollected := make([]string, 0, clientCount)

	for attempt := 0; attempt < clientCount; attempt++ {
		client, clientIdx := s.GetNextClient()

		slog.Info("attempting Gemini API request", "client_index", clientIdx, "attempt", attempt+1)

		err := operation(client, clientIdx)
		if err == nil {
			return nil
		}

		slog.Warn("Gemini client failed, trying next", "client_index", clientIdx, "error", err)
		errorsCollected = append(errorsCollected, fmt.Sprintf("client %d: %v", clientIdx, err))
	}

	return fmt.Errorf("all %d Gemini clients failed: %s", clientCount, strings.Join(errorsCollected, "; "))
}
