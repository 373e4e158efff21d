package api

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

type exportDownload struct {
	filePath  string
	filename  string
	expiresAt time.Time
}

// exportDownloadStore 一次性下载令牌
type exportDownloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
	now   func() time.Time
}

func newExportDownloadStore() *exportDownloadStore {
	return &exportDownloadStore{
		items: make(map[string]exportDownload),
		now:   time.Now,
	}
}

func (s *exportDownloadStore) put(filePath, filename string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = uuid.NewString()
	s.items[token] = exportDownload{
		filePath:  filePath,
		filename:  filename,
		expiresAt: now.Add(ttl),
	}
	return token
}

// take 取出并删除令牌；过期或不存在时 ok=false
func (s *exportDownloadStore) take(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	delete(s.items, token)
	return v, true
}

// purgeExpiredLocked 删除过期令牌及其文件
func (s *exportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			_ = os.Remove(v.filePath)
			delete(s.items, k)
		}
	}
}
