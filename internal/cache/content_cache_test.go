package cache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/pkg/kv"
	"pomelo/internal/pkg/kv/memory"
)

func TestContentCache_Chapters(t *testing.T) {
	Convey("ContentCache 章节正文缓存", t, func() {
		store := memory.NewMemoryStore(0)
		cache := NewContentCache(store)

		Convey("未缓存的章节 HasChapter 为 false", func() {
			So(cache.HasChapter("solo_leveling_1a2b3c4d", 1), ShouldBeFalse)

			_, ok := cache.ReadChapter("solo_leveling_1a2b3c4d", 1)
			So(ok, ShouldBeFalse)
		})

		Convey("写入后可读回，且仅影响对应章节", func() {
			So(cache.WriteChapter("solo_leveling_1a2b3c4d", 1, "chapter one text"), ShouldBeNil)

			text, ok := cache.ReadChapter("solo_leveling_1a2b3c4d", 1)
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "chapter one text")

			So(cache.HasChapter("solo_leveling_1a2b3c4d", 2), ShouldBeFalse)
			So(cache.HasChapter("other_novel_99999999", 1), ShouldBeFalse)
		})

		Convey("配额不足时写入失败，不留半条记录", func() {
			small := memory.NewMemoryStore(8)
			c := NewContentCache(small)

			err := c.WriteChapter("n", 1, "this text is larger than the quota")
			So(err, ShouldEqual, kv.ErrQuotaExceeded)
			So(c.HasChapter("n", 1), ShouldBeFalse)
		})
	})
}

func TestContentCache_Images(t *testing.T) {
	Convey("ContentCache 插图缓存", t, func() {
		store := memory.NewMemoryStore(0)
		cache := NewContentCache(store)

		Convey("二进制数据经 base64 存取后保持一致", func() {
			data := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0x1a}
			So(cache.WriteImage("n", 3, data), ShouldBeNil)

			got, ok := cache.ReadImage("n", 3)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, data)
		})

		Convey("损坏的条目按不存在处理并被清除", func() {
			So(store.Set("image:n:3", "not valid base64 !!!"), ShouldBeNil)

			_, ok := cache.ReadImage("n", 3)
			So(ok, ShouldBeFalse)

			_, ok = store.Get("image:n:3")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestContentCache_Scroll(t *testing.T) {
	Convey("ContentCache 阅读位置", t, func() {
		store := memory.NewMemoryStore(0)
		cache := NewContentCache(store)

		Convey("未保存过的位置返回 ok=false", func() {
			_, ok := cache.ReadScroll("n", 1)
			So(ok, ShouldBeFalse)
		})

		Convey("保存后可读回", func() {
			cache.WriteScroll("n", 1, 420)

			offset, ok := cache.ReadScroll("n", 1)
			So(ok, ShouldBeTrue)
			So(offset, ShouldEqual, 420)
		})

		Convey("存储满时保存静默失败，不影响调用方", func() {
			full := memory.NewMemoryStore(1)
			c := NewContentCache(full)

			c.WriteScroll("n", 1, 12345)
			_, ok := c.ReadScroll("n", 1)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestContentCache_PurgeNovel(t *testing.T) {
	Convey("ContentCache.PurgeNovel 清除指定小说的全部缓存", t, func() {
		store := memory.NewMemoryStore(0)
		cache := NewContentCache(store)

		So(cache.WriteChapter("a", 1, "text 1"), ShouldBeNil)
		So(cache.WriteChapter("a", 2, "text 2"), ShouldBeNil)
		So(cache.WriteImage("a", 1, []byte{1, 2, 3}), ShouldBeNil)
		cache.WriteScroll("a", 2, 77)

		So(cache.WriteChapter("b", 1, "other novel"), ShouldBeNil)

		cache.PurgeNovel("a", []int{1, 2})

		Convey("正文、插图、阅读位置全部清除", func() {
			So(cache.HasChapter("a", 1), ShouldBeFalse)
			So(cache.HasChapter("a", 2), ShouldBeFalse)

			_, ok := cache.ReadImage("a", 1)
			So(ok, ShouldBeFalse)

			_, ok = cache.ReadScroll("a", 2)
			So(ok, ShouldBeFalse)
		})

		Convey("其他小说的缓存不受影响", func() {
			So(cache.HasChapter("b", 1), ShouldBeTrue)
		})
	})
}
