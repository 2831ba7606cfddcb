package customer

import (
	"AsaBank/internal/core/ports"
	"sync"
	"time"
)

type session struct {
	accountID string
	since     time.Time
}

// Sessions maps each chat to the account it is logged in to.
// Nothing is persisted; a restart logs everyone out.
type Sessions struct {
	mu     sync.RWMutex
	byChat map[int64]session
	now    func() time.Time
}

var _ ports.SessionStore = (*Sessions)(nil)

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{byChat: make(map[int64]session), now: time.Now}
}

func (s *Sessions) Get(chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byChat[chatID]
	return sess.accountID, ok
}

func (s *Sessions) Set(chatID int64, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[chatID] = session{accountID: accountID, since: s.now()}
}

func (s *Sessions) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}

func (s *Sessions) ChatsFor(accountID string) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var chats []int64
	for chat, sess := range s.byChat {
		if sess.accountID == accountID {
			chats = append(chats, chat)
		}
	}
	return chats
}

// ClearAccount is called after a deletion has been observed asynchronously;
// an id reissued in the meantime may already have fresh sessions.
func (s *Sessions) ClearAccount(accountID string, loggedInBefore time.Time) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cleared []int64
	for chat, sess := range s.byChat {
		if sess.accountID == accountID && !sess.since.After(loggedInBefore) {
			delete(s.byChat, chat)
			cleared = append(cleared, chat)
		}
	}
	return cleared
}
