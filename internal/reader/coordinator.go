package reader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"pomelo/internal/cache"
	"pomelo/internal/library"
	"pomelo/internal/model/novel"
	"pomelo/internal/pkg/apperr"
	"pomelo/internal/pkg/kv"
	"pomelo/internal/provider"
)

// featuredKey 精选列表快照在持久化存储中的固定键
const featuredKey = "featured"

// ErrNotFound 小说或章节不在书架中
var ErrNotFound = errors.New("reader: not found")

// ChapterView 打开章节的结果
type ChapterView struct {
	Chapter      novel.ChapterMetadata `json:"chapter"`
	Text         string                `json:"text"`
	FromCache    bool                  `json:"from_cache"`    // 正文来自本地缓存
	StorageFull  bool                  `json:"storage_full"`  // 本次正文未能持久化（配额已满），仅本次可读
	ScrollOffset int                   `json:"scroll_offset"` // 上次保存的阅读位置
}

// Coordinator 同步协调器
// 唯一定义"缓存/联网/离线"决策树的地方：安装、打开章节、翻页、删除
// 仅在缓存未命中且联网时访问内容服务，结果回写缓存与书架
type Coordinator struct {
	provider provider.ContentProvider
	cache    *cache.ContentCache
	library  *library.Store
	store    kv.Store // 精选快照直接落键值存储

	online atomic.Bool

	mu     sync.Mutex
	active map[string]int // novelID -> 当前正在阅读的章节序号

	prefetch sync.WaitGroup // 安装后的首章预取任务
}

// NewCoordinator 创建同步协调器
func NewCoordinator(p provider.ContentProvider, c *cache.ContentCache, l *library.Store, store kv.Store, startOnline bool) *Coordinator {
	coord := &Coordinator{
		provider: p,
		cache:    c,
		library:  l,
		store:    store,
		active:   make(map[string]int),
	}
	coord.online.Store(startOnline)
	return coord
}

// SetOnline 更新联网状态（由表现层的网络探测信号驱动）
func (c *Coordinator) SetOnline(online bool) {
	if c.online.Swap(online) != online {
		log.Info().Bool("online", online).Msg("connectivity changed")
	}
}

// Online 当前联网状态
func (c *Coordinator) Online() bool {
	return c.online.Load()
}

// Library 书架存储（供表现层读取）
func (c *Coordinator) Library() *library.Store {
	return c.library
}

// Search 搜索小说，需要联网
func (c *Coordinator) Search(ctx context.Context, query string) ([]novel.Novel, error) {
	if !c.Online() {
		return nil, apperr.New(apperr.KindOffline, "search requires a network connection")
	}
	return c.provider.Search(ctx, query)
}

// Featured 获取精选列表
// 联网时取最新结果并尽力刷新快照；失败或离线时退回快照；最终退化为空列表
// 任何情况下不返回错误，不阻塞首屏
func (c *Coordinator) Featured(ctx context.Context) []novel.Novel {
	if c.Online() {
		novels, err := c.provider.FetchFeatured(ctx)
		if err == nil {
			c.snapshotFeatured(novels)
			return novels
		}
		log.Warn().Err(err).Msg("featured fetch failed, falling back to snapshot")
	}

	if blob, ok := c.store.Get(featuredKey); ok {
		var novels []novel.Novel
		if err := json.Unmarshal([]byte(blob), &novels); err == nil {
			return novels
		}
		log.Warn().Msg("corrupt featured snapshot, dropping")
		c.store.Remove(featuredKey)
	}

	return []novel.Novel{}
}

// Install 安装小说到书架
// 章节索引获取失败时整体失败，不留半安装条目；首章预取是独立的尽力任务
func (c *Coordinator) Install(ctx context.Context, n novel.Novel) (*novel.LibraryItem, error) {
	if !c.Online() {
		return nil, apperr.New(apperr.KindOffline, "installing a novel requires a network connection")
	}

	chapters, err := c.provider.FetchChapterList(ctx, n.ID, n.Title)
	if err != nil {
		return nil, err
	}

	item, err := novel.NewLibraryItem(n, chapters, time.Now())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindMalformed, "invalid chapter index", err)
	}

	c.library.Upsert(item)

	log.Info().
		Str("novel_id", item.ID).
		Str("title", item.Title).
		Int("chapters", item.TotalChapters).
		Msg("novel installed")

	// 首章预取：显式异步任务，失败降级为告警，绝不回滚安装
	first := item.Chapters[0]
	title := item.Title
	c.prefetch.Add(1)
	go func(ctx context.Context) {
		defer c.prefetch.Done()
		c.prefetchChapter(ctx, item.ID, title, first)
	}(context.WithoutCancel(ctx))

	return item, nil
}

// prefetchChapter 尽力缓存单个章节
func (c *Coordinator) prefetchChapter(ctx context.Context, novelID, novelTitle string, ch novel.ChapterMetadata) {
	if c.cache.HasChapter(novelID, ch.Number) {
		return
	}

	text, err := c.provider.FetchChapterText(ctx, novelTitle, ch.Number, ch.Title)
	if err != nil {
		log.Warn().Err(err).Str("novel_id", novelID).Int("chapter", ch.Number).Msg("chapter prefetch failed")
		return
	}

	if err := c.cache.WriteChapter(novelID, ch.Number, text); err != nil {
		log.Warn().Err(err).Str("novel_id", novelID).Int("chapter", ch.Number).Msg("chapter prefetch not persisted")
	}
}

// OpenChapter 打开章节（"确保可读"状态机）
// 缓存命中直接返回，不触网；未命中且联网则拉取并尽力缓存；离线且无缓存则明确失败
func (c *Coordinator) OpenChapter(ctx context.Context, novelID string, number int) (*ChapterView, error) {
	item, ok := c.library.Get(novelID)
	if !ok {
		return nil, fmt.Errorf("%w: novel %s", ErrNotFound, novelID)
	}
	ch, ok := item.ChapterByNumber(number)
	if !ok {
		return nil, fmt.Errorf("%w: chapter %d of novel %s", ErrNotFound, number, novelID)
	}

	c.setActive(novelID, number)

	view := &ChapterView{Chapter: ch}
	if offset, ok := c.cache.ReadScroll(novelID, number); ok {
		view.ScrollOffset = offset
	}

	// 缓存命中：零网络访问
	if text, ok := c.cache.ReadChapter(novelID, number); ok {
		view.Text = text
		view.FromCache = true
		c.library.MarkRead(novelID, ch.ID)
		return view, nil
	}

	if !c.Online() {
		return nil, apperr.New(apperr.KindOfflineMissing,
			fmt.Sprintf("chapter %d is not cached and the device is offline", number))
	}

	text, err := c.provider.FetchChapterText(ctx, item.Title, ch.Number, ch.Title)
	if err != nil {
		return nil, err
	}
	view.Text = text

	if err := c.cache.WriteChapter(novelID, number, text); err != nil {
		if errors.Is(err, kv.ErrQuotaExceeded) {
			// 配额满：本次照常阅读，但不可离线保存
			view.StorageFull = true
			log.Warn().Str("novel_id", novelID).Int("chapter", number).Msg("storage quota exceeded, chapter not persisted")
		} else {
			log.Error().Err(err).Str("novel_id", novelID).Int("chapter", number).Msg("failed to cache chapter")
		}
	}

	// 拉取期间用户已切换到其他章节时丢弃过期的阅读进度
	if c.isActive(novelID, number) {
		c.library.MarkRead(novelID, ch.ID)
	} else {
		log.Debug().Str("novel_id", novelID).Int("chapter", number).Msg("stale open completion, skipping mark read")
	}

	return view, nil
}

// NextChapter 下一章的元数据
// 已到末章返回 ok=false（到底信号，非错误），阅读进度不变
func (c *Coordinator) NextChapter(novelID string, current int) (novel.ChapterMetadata, bool, error) {
	return c.neighborChapter(novelID, current, +1)
}

// PrevChapter 上一章的元数据
// 已到首章返回 ok=false（到头信号，非错误），阅读进度不变
func (c *Coordinator) PrevChapter(novelID string, current int) (novel.ChapterMetadata, bool, error) {
	return c.neighborChapter(novelID, current, -1)
}

// neighborChapter 纯序号运算的翻页
func (c *Coordinator) neighborChapter(novelID string, current, delta int) (novel.ChapterMetadata, bool, error) {
	item, ok := c.library.Get(novelID)
	if !ok {
		return novel.ChapterMetadata{}, false, fmt.Errorf("%w: novel %s", ErrNotFound, novelID)
	}
	if _, ok := item.ChapterByNumber(current); !ok {
		return novel.ChapterMetadata{}, false, fmt.Errorf("%w: chapter %d of novel %s", ErrNotFound, current, novelID)
	}

	ch, ok := item.ChapterByNumber(current + delta)
	if !ok {
		return novel.ChapterMetadata{}, false, nil
	}
	return ch, true, nil
}

// Delete 删除小说
// 先清缓存再删条目；完成后书架与三个缓存命名空间均无残留
func (c *Coordinator) Delete(novelID string) error {
	item, ok := c.library.Get(novelID)
	if !ok {
		return fmt.Errorf("%w: novel %s", ErrNotFound, novelID)
	}

	numbers := make([]int, len(item.Chapters))
	for i, ch := range item.Chapters {
		numbers[i] = ch.Number
	}
	c.cache.PurgeNovel(novelID, numbers)
	c.library.Remove(novelID)

	c.mu.Lock()
	delete(c.active, novelID)
	c.mu.Unlock()

	log.Info().Str("novel_id", novelID).Int("chapters", len(numbers)).Msg("novel deleted")
	return nil
}

// GenerateImage 获取章节插图
// 缓存命中直接返回；否则需要联网生成，结果尽力缓存（配额满不影响返回）
func (c *Coordinator) GenerateImage(ctx context.Context, novelID string, number int) ([]byte, error) {
	item, ok := c.library.Get(novelID)
	if !ok {
		return nil, fmt.Errorf("%w: novel %s", ErrNotFound, novelID)
	}
	ch, ok := item.ChapterByNumber(number)
	if !ok {
		return nil, fmt.Errorf("%w: chapter %d of novel %s", ErrNotFound, number, novelID)
	}

	if data, ok := c.cache.ReadImage(novelID, number); ok {
		return data, nil
	}

	if !c.Online() {
		return nil, apperr.New(apperr.KindOffline, "generating an illustration requires a network connection")
	}

	text, ok := c.cache.ReadChapter(novelID, number)
	if !ok {
		fetched, err := c.provider.FetchChapterText(ctx, item.Title, ch.Number, ch.Title)
		if err != nil {
			return nil, err
		}
		text = fetched
	}

	data, err := c.provider.GenerateImage(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.WriteImage(novelID, number, data); err != nil {
		log.Warn().Err(err).Str("novel_id", novelID).Int("chapter", number).Msg("illustration not persisted")
	}

	return data, nil
}

// SaveScroll 保存阅读位置，尽力而为
func (c *Coordinator) SaveScroll(novelID string, number, offset int) {
	c.cache.WriteScroll(novelID, number, offset)
}

func (c *Coordinator) setActive(novelID string, number int) {
	c.mu.Lock()
	c.active[novelID] = number
	c.mu.Unlock()
}

func (c *Coordinator) isActive(novelID string, number int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[novelID] == number
}

// snapshotFeatured 尽力刷新精选快照
func (c *Coordinator) snapshotFeatured(novels []novel.Novel) {
	blob, err := json.Marshal(novels)
	if err != nil {
		return
	}
	if err := c.store.Set(featuredKey, string(blob)); err != nil {
		log.Debug().Err(err).Msg("failed to snapshot featured list")
	}
}
