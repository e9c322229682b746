package file

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/pkg/kv"
)

func TestFileStore(t *testing.T) {
	Convey("FileStore 基本读写", t, func() {
		dir := t.TempDir()
		store, err := NewFileStore(dir, 0)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("不存在的键返回 ok=false", func() {
			_, ok := store.Get("missing")
			So(ok, ShouldBeFalse)
		})

		Convey("写入后能读回原值", func() {
			So(store.Set("chapter:solo:1", "some chapter text"), ShouldBeNil)

			got, ok := store.Get("chapter:solo:1")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, "some chapter text")
		})

		Convey("含路径分隔符的键被转义为单个文件", func() {
			So(store.Set("a/b/../c", "v"), ShouldBeNil)

			entries, err := os.ReadDir(dir)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)

			got, ok := store.Get("a/b/../c")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, "v")
		})

		Convey("删除后键不存在，重复删除为空操作", func() {
			So(store.Set("k", "value"), ShouldBeNil)
			store.Remove("k")

			_, ok := store.Get("k")
			So(ok, ShouldBeFalse)

			store.Remove("k")
		})

		Convey("写入不留临时文件", func() {
			So(store.Set("k", "value"), ShouldBeNil)

			matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
			So(err, ShouldBeNil)
			So(matches, ShouldBeEmpty)
		})
	})
}

func TestFileStore_Quota(t *testing.T) {
	Convey("FileStore 配额控制", t, func() {
		dir := t.TempDir()
		store, err := NewFileStore(dir, 10)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("超出配额返回 ErrQuotaExceeded 且不落盘", func() {
			So(store.Set("k", "12345"), ShouldBeNil)

			err := store.Set("k2", "1234567890")
			So(err, ShouldEqual, kv.ErrQuotaExceeded)

			_, ok := store.Get("k2")
			So(ok, ShouldBeFalse)
		})

		Convey("覆盖写入按差值计费", func() {
			So(store.Set("k", "1234567890"), ShouldBeNil)
			So(store.Set("k", "12345"), ShouldBeNil)
			So(store.Set("k2", "12345"), ShouldBeNil)
		})

		Convey("删除释放配额", func() {
			So(store.Set("k", "1234567890"), ShouldBeNil)
			store.Remove("k")
			So(store.Set("k2", "1234567890"), ShouldBeNil)
		})
	})
}

func TestFileStore_Restart(t *testing.T) {
	Convey("FileStore 重启后恢复数据和占用量", t, func() {
		dir := t.TempDir()

		store, err := NewFileStore(dir, 10)
		So(err, ShouldBeNil)
		So(store.Set("k", "1234567890"), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		reopened, err := NewFileStore(dir, 10)
		So(err, ShouldBeNil)
		defer reopened.Close()

		Convey("旧数据可读", func() {
			got, ok := reopened.Get("k")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, "1234567890")
		})

		Convey("占用量从目录恢复，配额继续生效", func() {
			err := reopened.Set("k2", "x")
			So(err, ShouldEqual, kv.ErrQuotaExceeded)
		})
	})
}
