package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/model/novel"
	"pomelo/internal/pkg/apperr"
)

// stubChatModel 固定应答的 ChatModel
type stubChatModel struct {
	reply string
	err   error
	calls int
}

func (m *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func (m *stubChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

func newTestProvider(reply string, err error) (*LLMProvider, *stubChatModel) {
	stub := &stubChatModel{reply: reply, err: err}
	return &LLMProvider{chatModel: stub, minChapterChars: 20}, stub
}

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare json untouched",
			content: `[{"title": "A"}]`,
			want:    `[{"title": "A"}]`,
		},
		{
			name:    "json fence stripped",
			content: "```json\n[{\"title\": \"A\"}]\n```",
			want:    `[{"title": "A"}]`,
		},
		{
			name:    "plain fence stripped",
			content: "```\n[]\n```",
			want:    `[]`,
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  \n[1, 2]\n  ",
			want:    `[1, 2]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONContent(tt.content); got != tt.want {
				t.Errorf("cleanJSONContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLLMProvider_Search(t *testing.T) {
	Convey("LLMProvider.Search 搜索解析", t, func() {
		Convey("合法 JSON（含 markdown 包裹）解析为小说列表", func() {
			p, _ := newTestProvider("```json\n"+
				`[{"title": "Solo Leveling", "author": "Chugong", "description": "Hunter grows stronger.", "tags": ["action"], "status": "Completed"}]`+
				"\n```", nil)

			novels, err := p.Search(context.Background(), "solo")
			So(err, ShouldBeNil)
			So(len(novels), ShouldEqual, 1)
			So(novels[0].Title, ShouldEqual, "Solo Leveling")
			So(novels[0].ID, ShouldEqual, NovelID("Solo Leveling"))
			So(novels[0].Status, ShouldEqual, novel.NovelStatusCompleted)
		})

		Convey("空数组是合法的无结果应答", func() {
			p, _ := newTestProvider("[]", nil)

			novels, err := p.Search(context.Background(), "nothing")
			So(err, ShouldBeNil)
			So(novels, ShouldBeEmpty)
		})

		Convey("不可解析的应答归类为 malformed_response", func() {
			p, _ := newTestProvider("I could not find anything, sorry!", nil)

			_, err := p.Search(context.Background(), "solo")
			So(apperr.IsKind(err, apperr.KindMalformed), ShouldBeTrue)
		})

		Convey("未知 status 归类为 malformed_response", func() {
			p, _ := newTestProvider(`[{"title": "A", "status": "Hiatus"}]`, nil)

			_, err := p.Search(context.Background(), "a")
			So(apperr.IsKind(err, apperr.KindMalformed), ShouldBeTrue)
		})

		Convey("缺失 status 默认为 Ongoing", func() {
			p, _ := newTestProvider(`[{"title": "A"}]`, nil)

			novels, err := p.Search(context.Background(), "a")
			So(err, ShouldBeNil)
			So(novels[0].Status, ShouldEqual, novel.NovelStatusOngoing)
		})

		Convey("底层调用失败归类为 provider_error", func() {
			p, _ := newTestProvider("", errors.New("rate limited"))

			_, err := p.Search(context.Background(), "solo")
			So(apperr.IsKind(err, apperr.KindProvider), ShouldBeTrue)
			So(apperr.Retryable(err), ShouldBeTrue)
		})

		Convey("未配置凭证归类为 credential_missing", func() {
			p := &LLMProvider{minChapterChars: 20}

			_, err := p.Search(context.Background(), "solo")
			So(apperr.IsKind(err, apperr.KindCredentialMissing), ShouldBeTrue)
			So(apperr.Retryable(err), ShouldBeFalse)
		})
	})
}

func TestLLMProvider_FetchChapterList(t *testing.T) {
	Convey("LLMProvider.FetchChapterList 章节索引解析", t, func() {
		Convey("合法索引生成复合章节ID", func() {
			p, _ := newTestProvider(`[{"number": 1, "title": "Awakening"}, {"number": 2, "title": "The Gate"}]`, nil)

			chapters, err := p.FetchChapterList(context.Background(), "solo_1a2b3c4d", "Solo Leveling")
			So(err, ShouldBeNil)
			So(len(chapters), ShouldEqual, 2)
			So(chapters[0].ID, ShouldEqual, novel.ChapterID("solo_1a2b3c4d", 1))
			So(chapters[1].Number, ShouldEqual, 2)
		})

		Convey("序号不从 1 起连续时归类为 malformed_response", func() {
			p, _ := newTestProvider(`[{"number": 2, "title": "A"}, {"number": 3, "title": "B"}]`, nil)

			_, err := p.FetchChapterList(context.Background(), "n", "N")
			So(apperr.IsKind(err, apperr.KindMalformed), ShouldBeTrue)
		})

		Convey("空索引归类为 malformed_response", func() {
			p, _ := newTestProvider(`[]`, nil)

			_, err := p.FetchChapterList(context.Background(), "n", "N")
			So(apperr.IsKind(err, apperr.KindMalformed), ShouldBeTrue)
		})

		Convey("章节缺标题归类为 malformed_response", func() {
			p, _ := newTestProvider(`[{"number": 1, "title": "  "}]`, nil)

			_, err := p.FetchChapterList(context.Background(), "n", "N")
			So(apperr.IsKind(err, apperr.KindMalformed), ShouldBeTrue)
		})
	})
}

func TestLLMProvider_FetchChapterText(t *testing.T) {
	Convey("LLMProvider.FetchChapterText 章节正文", t, func() {
		Convey("足够长的正文原样返回", func() {
			text := strings.Repeat("The hunter pressed onward. ", 20)
			p, _ := newTestProvider(text, nil)

			got, err := p.FetchChapterText(context.Background(), "Solo Leveling", 1, "Awakening")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, strings.TrimSpace(text))
		})

		Convey("过短的正文视为生成失败", func() {
			p, _ := newTestProvider("Too short.", nil)

			_, err := p.FetchChapterText(context.Background(), "Solo Leveling", 1, "Awakening")
			So(apperr.IsKind(err, apperr.KindProvider), ShouldBeTrue)
		})
	})
}

func TestLLMProvider_GenerateImage(t *testing.T) {
	Convey("LLMProvider.GenerateImage 未配置插图凭证时报 credential_missing", t, func() {
		p := &LLMProvider{minChapterChars: 20}

		_, err := p.GenerateImage(context.Background(), "some chapter text")
		So(apperr.IsKind(err, apperr.KindCredentialMissing), ShouldBeTrue)
	})
}

func TestNovelID(t *testing.T) {
	Convey("NovelID 由标题派生稳定ID", t, func() {
		Convey("同一标题总是得到同一ID", func() {
			So(NovelID("Solo Leveling"), ShouldEqual, NovelID("Solo Leveling"))
		})

		Convey("不同标题得到不同ID", func() {
			So(NovelID("Solo Leveling"), ShouldNotEqual, NovelID("Omniscient Reader"))
		})

		Convey("ID 只含小写字母数字和下划线", func() {
			id := NovelID("The King's Avatar! 全职高手")
			for _, r := range id {
				ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
				So(ok, ShouldBeTrue)
			}
		})
	})
}
