package provider

import (
	"context"

	"pomelo/internal/model/novel"
)

// ContentProvider 生成式内容服务接口
// 所有方法都是挂起点；失败以 apperr 分类返回，不向上层泄漏底层错误
type ContentProvider interface {
	// Search 按关键词搜索小说，无结果返回空列表（区别于错误）
	Search(ctx context.Context, query string) ([]novel.Novel, error)

	// FetchFeatured 获取精选小说列表
	FetchFeatured(ctx context.Context) ([]novel.Novel, error)

	// FetchChapterList 获取小说的章节索引，序号保证从 1 起连续
	FetchChapterList(ctx context.Context, novelID, novelTitle string) ([]novel.ChapterMetadata, error)

	// FetchChapterText 获取章节正文；过短视为生成失败
	FetchChapterText(ctx context.Context, novelTitle string, chapterNumber int, chapterTitle string) (string, error)

	// GenerateImage 根据章节文本生成插图
	GenerateImage(ctx context.Context, chapterText string) ([]byte, error)
}
