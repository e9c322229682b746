package novel

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewLibraryItem(t *testing.T) {
	Convey("NewLibraryItem 构造与校验", t, func() {
		n := Novel{ID: "solo_leveling_1a2b3c4d", Title: "Solo Leveling", Status: NovelStatusOngoing}

		Convey("合法章节索引构造成功，lastRead 指向第一章", func() {
			chapters := []ChapterMetadata{
				NewChapterMetadata(n.ID, 1, "Awakening"),
				NewChapterMetadata(n.ID, 2, "The Gate"),
			}

			item, err := NewLibraryItem(n, chapters, time.Now())
			So(err, ShouldBeNil)
			So(item.TotalChapters, ShouldEqual, 2)
			So(item.LastReadChapterID, ShouldEqual, ChapterID(n.ID, 1))
			So(item.Downloaded, ShouldBeTrue)
		})

		Convey("空章节索引报错", func() {
			_, err := NewLibraryItem(n, nil, time.Now())
			So(err, ShouldNotBeNil)
		})

		Convey("章节序号不从 1 起连续时报错", func() {
			chapters := []ChapterMetadata{
				NewChapterMetadata(n.ID, 1, "Awakening"),
				NewChapterMetadata(n.ID, 3, "The Gate"),
			}

			_, err := NewLibraryItem(n, chapters, time.Now())
			So(err, ShouldNotBeNil)
		})

		Convey("章节属于其他小说时报错", func() {
			chapters := []ChapterMetadata{
				NewChapterMetadata("other_novel_ffffffff", 1, "Awakening"),
			}

			_, err := NewLibraryItem(n, chapters, time.Now())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLibraryItem_ChapterByNumber(t *testing.T) {
	Convey("LibraryItem.ChapterByNumber 按序号取章节", t, func() {
		n := Novel{ID: "n", Title: "N", Status: NovelStatusOngoing}
		chapters := []ChapterMetadata{
			NewChapterMetadata("n", 1, "One"),
			NewChapterMetadata("n", 2, "Two"),
			NewChapterMetadata("n", 3, "Three"),
		}
		item, err := NewLibraryItem(n, chapters, time.Now())
		So(err, ShouldBeNil)

		Convey("有效序号返回对应章节", func() {
			ch, ok := item.ChapterByNumber(2)
			So(ok, ShouldBeTrue)
			So(ch.Title, ShouldEqual, "Two")
			So(ch.ID, ShouldEqual, ChapterID("n", 2))
		})

		Convey("越界序号返回 ok=false", func() {
			_, ok := item.ChapterByNumber(0)
			So(ok, ShouldBeFalse)

			_, ok = item.ChapterByNumber(4)
			So(ok, ShouldBeFalse)
		})
	})
}
