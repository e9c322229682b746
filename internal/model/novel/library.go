package novel

import (
	"fmt"
	"time"
)

// LibraryItem 书架条目
// 安装后的小说：元数据 + 章节索引 + 阅读位置
// Downloaded 仅表示元数据已安装，章节正文是否缓存按章节独立跟踪
type LibraryItem struct {
	Novel

	Chapters      []ChapterMetadata `json:"chapters"`       // 章节索引，安装时一次性填充
	TotalChapters int               `json:"total_chapters"` // 章节总数

	LastReadChapterID string `json:"last_read_chapter_id,omitempty"` // 最近阅读的章节ID（弱引用）

	SavedAt    time.Time `json:"saved_at"`               // 安装时间
	LastReadAt time.Time `json:"last_read_at,omitempty"` // 最近阅读时间
	Downloaded bool      `json:"downloaded"`             // 元数据已安装标记
}

// NewLibraryItem 由搜索结果和章节索引构造书架条目
// 校验章节序号从 1 起连续；lastRead 初始指向第一章
func NewLibraryItem(n Novel, chapters []ChapterMetadata, now time.Time) (*LibraryItem, error) {
	if len(chapters) == 0 {
		return nil, fmt.Errorf("chapter list is empty")
	}
	for i, ch := range chapters {
		if ch.Number != i+1 {
			return nil, fmt.Errorf("chapter numbers are not dense from 1: index %d has number %d", i, ch.Number)
		}
		if ch.NovelID != n.ID {
			return nil, fmt.Errorf("chapter %d belongs to novel %q, want %q", ch.Number, ch.NovelID, n.ID)
		}
	}

	return &LibraryItem{
		Novel:             n,
		Chapters:          chapters,
		TotalChapters:     len(chapters),
		LastReadChapterID: chapters[0].ID,
		SavedAt:           now,
		LastReadAt:        now,
		Downloaded:        true,
	}, nil
}

// ChapterByNumber 按序号查找章节
func (item *LibraryItem) ChapterByNumber(number int) (ChapterMetadata, bool) {
	if number < 1 || number > len(item.Chapters) {
		return ChapterMetadata{}, false
	}
	return item.Chapters[number-1], true
}

// HasChapterID 判断章节ID是否属于该条目的索引
func (item *LibraryItem) HasChapterID(chapterID string) bool {
	for _, ch := range item.Chapters {
		if ch.ID == chapterID {
			return true
		}
	}
	return false
}

// TouchedAt 排序用的最近活动时间（安装时间与最近阅读时间取较新者）
func (item *LibraryItem) TouchedAt() time.Time {
	if item.LastReadAt.After(item.SavedAt) {
		return item.LastReadAt
	}
	return item.SavedAt
}
