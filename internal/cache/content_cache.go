package cache

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"pomelo/internal/pkg/kv"
)

// 缓存键命名空间
// 键格式跨进程重启保持稳定，不可变更
const (
	chapterKeyPrefix = "chapter:" // 章节正文
	imageKeyPrefix   = "image:"   // 章节插图（base64）
	scrollKeyPrefix  = "scroll:"  // 阅读位置
)

// ContentCache 离线内容缓存
// 以 (novelID, chapterNumber) 为键存取章节正文、插图和阅读位置
// 章节正文键的存在与否是"该章可离线阅读"的唯一事实来源
type ContentCache struct {
	store kv.Store
}

// NewContentCache 创建内容缓存
func NewContentCache(store kv.Store) *ContentCache {
	return &ContentCache{store: store}
}

// HasChapter 章节正文是否已缓存，不触发任何网络访问
func (c *ContentCache) HasChapter(novelID string, number int) bool {
	_, ok := c.store.Get(chapterKey(novelID, number))
	return ok
}

// ReadChapter 读取缓存的章节正文
func (c *ContentCache) ReadChapter(novelID string, number int) (string, bool) {
	return c.store.Get(chapterKey(novelID, number))
}

// WriteChapter 缓存章节正文
// 配额不足返回 kv.ErrQuotaExceeded，此时不留半条记录，该章仍视为未缓存
func (c *ContentCache) WriteChapter(novelID string, number int, text string) error {
	return c.store.Set(chapterKey(novelID, number), text)
}

// ReadImage 读取缓存的章节插图
func (c *ContentCache) ReadImage(novelID string, number int) ([]byte, bool) {
	encoded, ok := c.store.Get(imageKey(novelID, number))
	if !ok {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// 条目损坏按不存在处理并清掉
		log.Warn().Str("novel_id", novelID).Int("chapter", number).Msg("corrupt cached image, dropping")
		c.store.Remove(imageKey(novelID, number))
		return nil, false
	}
	return data, true
}

// WriteImage 缓存章节插图，只按显式清理回收
func (c *ContentCache) WriteImage(novelID string, number int, data []byte) error {
	return c.store.Set(imageKey(novelID, number), base64.StdEncoding.EncodeToString(data))
}

// ReadScroll 读取阅读位置
func (c *ContentCache) ReadScroll(novelID string, number int) (int, bool) {
	value, ok := c.store.Get(scrollKey(novelID, number))
	if !ok {
		return 0, false
	}
	offset, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return offset, true
}

// WriteScroll 保存阅读位置，尽力而为，失败仅记录日志
func (c *ContentCache) WriteScroll(novelID string, number int, offset int) {
	if err := c.store.Set(scrollKey(novelID, number), strconv.Itoa(offset)); err != nil {
		log.Debug().Err(err).Str("novel_id", novelID).Int("chapter", number).Msg("failed to save scroll position")
	}
}

// PurgeNovel 清除指定章节的全部缓存条目（正文、插图、阅读位置）
// 各条目独立寻址，进程中断造成的半途清理可接受，重入即可补齐
func (c *ContentCache) PurgeNovel(novelID string, chapterNumbers []int) {
	for _, n := range chapterNumbers {
		c.store.Remove(chapterKey(novelID, n))
		c.store.Remove(imageKey(novelID, n))
		c.store.Remove(scrollKey(novelID, n))
	}
}

func chapterKey(novelID string, number int) string {
	return fmt.Sprintf("%s%s:%d", chapterKeyPrefix, novelID, number)
}

func imageKey(novelID string, number int) string {
	return fmt.Sprintf("%s%s:%d", imageKeyPrefix, novelID, number)
}

func scrollKey(novelID string, number int) string {
	return fmt.Sprintf("%s%s:%d", scrollKeyPrefix, novelID, number)
}
