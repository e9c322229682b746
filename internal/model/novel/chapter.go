package novel

import "fmt"

// ChapterMetadata 章节元数据
// 身份由 (novel_id, number) 复合决定，number 从 1 起连续递增
// number 的升序是唯一的导航轴（上一章/下一章）
type ChapterMetadata struct {
	ID      string `json:"id"`       // 章节ID（复合键的字符串形式）
	NovelID string `json:"novel_id"` // 所属小说ID
	Number  int    `json:"number"`   // 章节序号，从1开始
	Title   string `json:"title"`    // 章节标题
}

// ChapterID 生成复合章节ID
func ChapterID(novelID string, number int) string {
	return fmt.Sprintf("%s-%d", novelID, number)
}

// NewChapterMetadata 创建章节元数据
func NewChapterMetadata(novelID string, number int, title string) ChapterMetadata {
	return ChapterMetadata{
		ID:      ChapterID(novelID, number),
		NovelID: novelID,
		Number:  number,
		Title:   title,
	}
}
