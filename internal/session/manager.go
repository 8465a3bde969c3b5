package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoArmGo/VidShare/internal/domain"
)

const tokenBytes = 32

// Manager — потокобезопасная таблица активных сессий в памяти процесса.
// Реализует ports.SessionStore. Истекшие записи удаляются фоновой уборкой
// и лениво при Resolve, так что истечение видно сразу, без ожидания уборки.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	ttl      time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewManager создает менеджер сессий с абсолютным временем жизни ttl
// и запускает фоновую уборку истекших токенов.
func NewManager(ttl time.Duration, sweepInterval time.Duration, logger *slog.Logger) *Manager {
	m := &Manager{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	go m.sweepLoop(sweepInterval)
	return m
}

// Issue генерирует неугадываемый токен и регистрирует сессию пользователя.
func (m *Manager) Issue(ctx context.Context, user domain.AuthenticatedUser) (*domain.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токена сессии: %w", err)
	}

	now := time.Now()
	sess := domain.Session{
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[token] = sess
	m.mu.Unlock()

	m.logger.Info("session issued", "user_id", user.ID, "expires_at", sess.ExpiresAt)
	return &sess, nil
}

// Resolve возвращает пользователя активной сессии или (nil, nil),
// если токен неизвестен либо сессия истекла.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.AuthenticatedUser, error) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if sess.Expired(time.Now()) {
		// ленивое удаление, не дожидаясь уборки
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, nil
	}

	user := sess.User
	return &user, nil
}

// Destroy инвалидирует токен. Удаление отсутствующего токена — no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Close останавливает фоновую уборку. Повторный вызов безопасен.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Len возвращает текущее число записей, включая еще не убранные истекшие.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) sweepLoop(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep(time.Now())
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	removed := 0
	for token, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.logger.Debug("expired sessions swept", "removed", removed, "remaining", remaining)
	}
}

// newToken возвращает 32 случайных байта в base64url — токен,
// который невозможно перебрать и который безопасен для cookie.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
