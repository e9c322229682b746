package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"pomelo/internal/config"
	"pomelo/internal/model/novel"
	"pomelo/internal/pkg/apperr"
	"pomelo/internal/pkg/ark"
	"pomelo/internal/provider/component"
)

const (
	searchSystemPrompt = `You are the catalog service of a fiction reading app.
Respond with strict JSON only, no markdown, no commentary.`

	chapterSystemPrompt = `You are a fiction writing service.
Write immersive novel chapters in plain text. Never wrap output in markdown.`

	// 插图提示词里章节摘录的最大长度（按 rune 截断）
	imageExcerptRunes = 600
)

// LLMProvider 基于 LLM 的内容服务实现
// 文本经由 eino ChatModel 生成，插图经由 Ark 图片客户端生成
type LLMProvider struct {
	chatModel       model.ChatModel  // 未配置凭证时为 nil
	imageClient     *ark.ImageClient // 未配置凭证时为 nil
	minChapterChars int
}

// NewLLMProvider 创建 LLM 内容服务
// 缺少凭证不是构造错误：对应能力在调用时返回 credential_missing
func NewLLMProvider(ctx context.Context, aiCfg *config.AIConfig, imageCfg *config.ImageConfig, readerCfg *config.ReaderConfig) (*LLMProvider, error) {
	p := &LLMProvider{
		minChapterChars: readerCfg.MinChapterChars,
	}

	if aiCfg.APIKey == "" {
		log.Warn().Msg("AI API key not configured, text generation disabled")
	} else {
		chatModel, err := component.NewChatModel(ctx, aiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		p.chatModel = chatModel
	}

	if imageCfg.APIKey == "" {
		log.Warn().Msg("image API key not configured, illustration generation disabled")
	} else {
		imageClient, err := ark.NewImageClient(imageCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create image client: %w", err)
		}
		p.imageClient = imageClient
	}

	return p, nil
}

// novelResultJSON 搜索/精选结果的临时解析结构
type novelResultJSON struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

// chapterEntryJSON 章节索引条目的临时解析结构
type chapterEntryJSON struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Search 按关键词搜索小说
func (p *LLMProvider) Search(ctx context.Context, query string) ([]novel.Novel, error) {
	prompt := fmt.Sprintf(`List up to 8 fictional web novels matching the query %q.
Return a JSON array; each element: {"title": string, "author": string, "description": string (1-2 sentences), "tags": [string], "status": "Ongoing" or "Completed"}.
Return [] if nothing fits.`, query)

	content, err := p.generate(ctx, searchSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return p.parseNovelList(content)
}

// FetchFeatured 获取精选小说列表
func (p *LLMProvider) FetchFeatured(ctx context.Context) ([]novel.Novel, error) {
	prompt := `List 6 fictional web novels for the featured shelf of a reading app, spanning different genres.
Return a JSON array; each element: {"title": string, "author": string, "description": string (1-2 sentences), "tags": [string], "status": "Ongoing" or "Completed"}.`

	content, err := p.generate(ctx, searchSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return p.parseNovelList(content)
}

// FetchChapterList 获取小说章节索引
func (p *LLMProvider) FetchChapterList(ctx context.Context, novelID, novelTitle string) ([]novel.ChapterMetadata, error) {
	prompt := fmt.Sprintf(`Create the table of contents for the web novel %q.
Return a JSON array of 10 to 30 elements; each element: {"number": int (starting at 1, consecutive), "title": string}.`, novelTitle)

	content, err := p.generate(ctx, searchSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var entries []chapterEntryJSON
	if err := json.Unmarshal([]byte(cleanJSONContent(content)), &entries); err != nil {
		return nil, apperr.Wrap(apperr.KindMalformed, "chapter list is not valid JSON", err)
	}
	if len(entries) == 0 {
		return nil, apperr.New(apperr.KindMalformed, "chapter list is empty")
	}

	chapters := make([]novel.ChapterMetadata, 0, len(entries))
	for i, entry := range entries {
		if entry.Number != i+1 {
			return nil, apperr.New(apperr.KindMalformed,
				fmt.Sprintf("chapter numbers are not dense from 1: index %d has number %d", i, entry.Number))
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return nil, apperr.New(apperr.KindMalformed,
				fmt.Sprintf("chapter %d has no title", entry.Number))
		}
		chapters = append(chapters, novel.NewChapterMetadata(novelID, entry.Number, title))
	}

	return chapters, nil
}

// FetchChapterText 获取章节正文
func (p *LLMProvider) FetchChapterText(ctx context.Context, novelTitle string, chapterNumber int, chapterTitle string) (string, error) {
	prompt := fmt.Sprintf(`Write chapter %d (%q) of the web novel %q.
Plain prose only, 800-1500 words, no headings, no markdown.`, chapterNumber, chapterTitle, novelTitle)

	content, err := p.generate(ctx, chapterSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(content)
	if len([]rune(text)) < p.minChapterChars {
		return "", apperr.New(apperr.KindProvider,
			fmt.Sprintf("generated chapter text is implausibly short (%d chars)", len([]rune(text))))
	}

	return text, nil
}

// GenerateImage 根据章节文本生成插图
func (p *LLMProvider) GenerateImage(ctx context.Context, chapterText string) ([]byte, error) {
	if p.imageClient == nil {
		return nil, apperr.New(apperr.KindCredentialMissing, "image API key not configured")
	}

	prompt := fmt.Sprintf("Book illustration, digital painting, no text. Scene from this chapter excerpt:\n%s",
		truncateRunes(chapterText, imageExcerptRunes))

	data, err := p.imageClient.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, "image generation failed", err)
	}

	return data, nil
}

// generate 调用 ChatModel 生成文本
func (p *LLMProvider) generate(ctx context.Context, system, user string) (string, error) {
	if p.chatModel == nil {
		return "", apperr.New(apperr.KindCredentialMissing, "AI API key not configured")
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	response, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "chat model call failed", err)
	}

	if response.Content == "" {
		return "", apperr.New(apperr.KindProvider, "empty response from chat model")
	}

	return response.Content, nil
}

// parseNovelList 解析并校验小说列表
func (p *LLMProvider) parseNovelList(content string) ([]novel.Novel, error) {
	var results []novelResultJSON
	if err := json.Unmarshal([]byte(cleanJSONContent(content)), &results); err != nil {
		return nil, apperr.Wrap(apperr.KindMalformed, "novel list is not valid JSON", err)
	}

	novels := make([]novel.Novel, 0, len(results))
	for _, r := range results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			return nil, apperr.New(apperr.KindMalformed, "novel result has no title")
		}

		status := novel.NovelStatus(r.Status)
		if r.Status == "" {
			status = novel.NovelStatusOngoing
		} else if !novel.ValidStatus(status) {
			return nil, apperr.New(apperr.KindMalformed,
				fmt.Sprintf("unknown novel status %q", r.Status))
		}

		novels = append(novels, novel.Novel{
			ID:          NovelID(title),
			Title:       title,
			Author:      strings.TrimSpace(r.Author),
			Description: strings.TrimSpace(r.Description),
			Tags:        r.Tags,
			Status:      status,
		})
	}

	return novels, nil
}

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NovelID 由标题派生稳定的小说ID
// 同一标题总是得到同一ID，重复安装因此天然幂等
func NovelID(title string) string {
	slug := nonAlnumPattern.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > 32 {
		slug = slug[:32]
	}

	h := fnv.New32a()
	h.Write([]byte(title))
	return fmt.Sprintf("%s_%08x", slug, h.Sum32())
}

// truncateRunes 按 rune 数截断文本
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
