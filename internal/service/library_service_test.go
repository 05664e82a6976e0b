package service

import (
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"narrator/internal/model/scan"
	"narrator/internal/model/story"
	scanRepo "narrator/internal/repository/scan"
	storyRepo "narrator/internal/repository/story"
)

func TestScanService(t *testing.T) {
	Convey("ScanService", t, func() {
		ctx := context.Background()
		svc := NewScanService(scanRepo.NewMemoryScanRepo())

		Convey("校验输入", func() {
			_, err := svc.Create(ctx, &CreateScanRequest{Type: "fax", Content: "x"})
			So(err, ShouldEqual, ErrInvalidScanType)

			_, err = svc.Create(ctx, &CreateScanRequest{Type: scan.ScanTypeOCR, Content: "  "})
			So(err, ShouldEqual, ErrContentRequired)

			_, err = svc.Create(ctx, &CreateScanRequest{Type: scan.ScanTypeWeb, Content: "x", OriginalURL: "pas une url"})
			So(err, ShouldEqual, ErrInvalidSourceURL)

			bad := 1.5
			_, err = svc.Create(ctx, &CreateScanRequest{Type: scan.ScanTypeOCR, Content: "x", Metadata: &scan.Metadata{Confidence: &bad}})
			So(err, ShouldEqual, ErrInvalidMetadata)
		})

		Convey("创建、查询与删除", func() {
			created, err := svc.Create(ctx, &CreateScanRequest{
				Type:        scan.ScanTypeWeb,
				Content:     "Le soleil se lève.",
				OriginalURL: "https://example.com/article",
				Metadata:    &scan.Metadata{Title: "Article"},
			})
			So(err, ShouldBeNil)
			So(created.ID, ShouldNotBeEmpty)

			got, err := svc.Get(ctx, created.ID)
			So(err, ShouldBeNil)
			So(got.Metadata.Title, ShouldEqual, "Article")

			list, err := svc.List(ctx, 0, 0)
			So(err, ShouldBeNil)
			So(list.Total, ShouldEqual, 1)

			So(svc.Delete(ctx, created.ID), ShouldBeNil)
			_, err = svc.Get(ctx, created.ID)
			So(err, ShouldEqual, ErrScanNotFound)
			So(svc.Delete(ctx, created.ID), ShouldEqual, ErrScanNotFound)
		})
	})
}

func TestStoryService(t *testing.T) {
	Convey("StoryService", t, func() {
		ctx := context.Background()
		svc := NewStoryService(storyRepo.NewMemoryStoryRepo())

		Convey("默认标题、分类与词数", func() {
			content := strings.Repeat("Il était une fois ", 5)
			st, err := svc.Create(ctx, &CreateStoryRequest{Content: content})
			So(err, ShouldBeNil)
			So(st.Category, ShouldEqual, story.CategoryPersonal)
			So(st.WordCount, ShouldEqual, 20)
			So(st.Title, ShouldEqual, DefaultTitle(content))
			So(st.Title, ShouldEndWith, "...")
		})

		Convey("非法输入", func() {
			_, err := svc.Create(ctx, &CreateStoryRequest{Content: ""})
			So(err, ShouldEqual, ErrContentRequired)
			_, err = svc.Create(ctx, &CreateStoryRequest{Content: "x", Category: "roman"})
			So(err, ShouldEqual, ErrInvalidCategory)
			_, err = svc.List(ctx, story.Filter{Category: "roman"}, 0, 0)
			So(err, ShouldEqual, ErrInvalidCategory)
		})

		Convey("更新正文时重新计算词数", func() {
			st, _ := svc.Create(ctx, &CreateStoryRequest{Title: "Poème", Content: "Un deux", Category: story.CategoryPoetry})
			content := "Un deux trois quatre"
			updated, err := svc.Update(ctx, st.ID, story.Patch{Content: &content})
			So(err, ShouldBeNil)
			So(updated.WordCount, ShouldEqual, 4)
			So(updated.Title, ShouldEqual, "Poème")

			_, err = svc.Update(ctx, "absent", story.Patch{Content: &content})
			So(err, ShouldEqual, ErrStoryNotFound)
		})

		Convey("切换收藏", func() {
			st, _ := svc.Create(ctx, &CreateStoryRequest{Title: "A", Content: "Texte"})
			fav, err := svc.ToggleFavorite(ctx, st.ID)
			So(err, ShouldBeNil)
			So(fav.IsFavorite, ShouldBeTrue)

			list, _ := svc.List(ctx, story.Filter{FavoritesOnly: true}, 0, 0)
			So(list.Total, ShouldEqual, 1)

			fav, _ = svc.ToggleFavorite(ctx, st.ID)
			So(fav.IsFavorite, ShouldBeFalse)

			So(svc.Delete(ctx, st.ID), ShouldBeNil)
			_, err = svc.ToggleFavorite(ctx, st.ID)
			So(err, ShouldEqual, ErrStoryNotFound)
		})
	})
}

func TestDefaultTitle(t *testing.T) {
	Convey("DefaultTitle 按字符截断", t, func() {
		So(DefaultTitle("  Court  "), ShouldEqual, "Court")
		long := strings.Repeat("é", 60)
		So(DefaultTitle(long), ShouldEqual, strings.Repeat("é", 50)+"...")
		So(DefaultTitle(strings.Repeat("a", 50)), ShouldEqual, strings.Repeat("a", 50))
	})
}
