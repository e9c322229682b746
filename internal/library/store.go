package library

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pomelo/internal/model/novel"
	"pomelo/internal/pkg/kv"
)

// libraryKey 整个书架集合在持久化存储中的固定键
const libraryKey = "library"

// Store 书架存储
// 内存中的权威书架视图 + 每次变更后整体落盘（集合规模受用户安装数约束，单键序列化足够）
// 所有变更经由 Upsert/Remove/MarkRead，唯一性与级联不变量在此集中保证
type Store struct {
	mu    sync.RWMutex
	store kv.Store
	items []*novel.LibraryItem // 头部为最近活动的条目

	subscribers []func()
}

// NewStore 创建书架存储并从持久化存储恢复集合
// 持久化数据损坏时从空书架开始（记录错误，不阻塞启动）
func NewStore(store kv.Store) *Store {
	s := &Store{store: store}

	if blob, ok := store.Get(libraryKey); ok {
		if err := json.Unmarshal([]byte(blob), &s.items); err != nil {
			log.Error().Err(err).Msg("failed to decode persisted library, starting empty")
			s.items = nil
		}
	}

	return s
}

// Subscribe 注册变更回调，每次成功变更后触发
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// List 返回书架条目，最近活动在前
func (s *Store) List() []novel.LibraryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]novel.LibraryItem, len(s.items))
	for i, item := range s.items {
		out[i] = *item
	}
	return out
}

// Get 按小说ID查找条目
func (s *Store) Get(novelID string) (novel.LibraryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == novelID {
			return *item, true
		}
	}
	return novel.LibraryItem{}, false
}

// Upsert 插入或按ID整体替换条目，并移到头部
// 重复安装同一小说不会产生重复条目
func (s *Store) Upsert(item *novel.LibraryItem) {
	s.mu.Lock()

	s.removeLocked(item.ID)
	s.items = append([]*novel.LibraryItem{item}, s.items...)
	s.persistLocked()

	s.mu.Unlock()
	s.notify()
}

// Remove 删除条目
// 调用方负责在删除前（或同时）清除该小说的内容缓存
func (s *Store) Remove(novelID string) {
	s.mu.Lock()

	if !s.removeLocked(novelID) {
		s.mu.Unlock()
		return
	}
	s.persistLocked()

	s.mu.Unlock()
	s.notify()
}

// MarkRead 更新最近阅读章节并把条目移到头部
// 小说不存在或章节ID不属于该小说索引时为空操作（防御陈旧引用）
func (s *Store) MarkRead(novelID, chapterID string) {
	s.mu.Lock()

	idx := -1
	for i, item := range s.items {
		if item.ID == novelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	item := s.items[idx]
	if !item.HasChapterID(chapterID) {
		log.Warn().Str("novel_id", novelID).Str("chapter_id", chapterID).Msg("mark read for unknown chapter, ignoring")
		s.mu.Unlock()
		return
	}

	item.LastReadChapterID = chapterID
	item.LastReadAt = time.Now()

	// 移到头部
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.items = append([]*novel.LibraryItem{item}, s.items...)
	s.persistLocked()

	s.mu.Unlock()
	s.notify()
}

// removeLocked 按ID摘除条目，须持有写锁
func (s *Store) removeLocked(novelID string) bool {
	for i, item := range s.items {
		if item.ID == novelID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// persistLocked 整体序列化落盘，须持有写锁
// 书架落盘失败不回滚内存视图：下一次变更会重试整体写入
func (s *Store) persistLocked() {
	blob, err := json.Marshal(s.items)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode library")
		return
	}
	if err := s.store.Set(libraryKey, string(blob)); err != nil {
		log.Error().Err(err).Msg("failed to persist library")
	}
}

// notify 通知订阅者，不持锁调用
func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
