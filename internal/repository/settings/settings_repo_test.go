package settings

// 集成测试，需要 MongoDB：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./internal/repository/... -v
//
// MONGO_URI 未设置时跳过。KEEP_TEST_DATA=true 时保留测试数据库。

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"narrator/internal/model/settings"
	"narrator/internal/narrator"
	"narrator/internal/pkg/voiceprofile"
)

func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	db := client.Database("narrator_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx := context.Background()
		if os.Getenv("KEEP_TEST_DATA") != "true" {
			_ = db.Drop(ctx)
		}
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestSettingsRepo(t *testing.T) {
	db := testDatabase(t)

	Convey("SettingsRepo", t, func() {
		ctx := context.Background()
		var doc settings.VoiceSettingsDoc
		So(doc.EnsureIndexes(ctx, db), ShouldBeNil)

		defaults := narrator.DefaultVoiceSettings()
		defaults.Language = "fr-FR"
		repo := NewSettingsRepo(db, defaults)
		So(db.Collection(doc.Collection()).Drop(ctx), ShouldBeNil)

		Convey("没有文档时返回默认设置", func() {
			vs, err := repo.Load(ctx)
			So(err, ShouldBeNil)
			So(vs.Language, ShouldEqual, "fr-FR")
		})

		Convey("保存时钳制并覆盖", func() {
			vs := defaults
			vs.Rate = 5
			vs.Personality = voiceprofile.Dramatique

			saved, err := repo.Save(ctx, vs)
			So(err, ShouldBeNil)
			So(saved.Rate, ShouldEqual, 2.0)

			vs.Language = "fr-CA"
			_, err = repo.Save(ctx, vs)
			So(err, ShouldBeNil)

			loaded, err := repo.Load(ctx)
			So(err, ShouldBeNil)
			So(loaded.Language, ShouldEqual, "fr-CA")
			So(loaded.Personality, ShouldEqual, voiceprofile.Dramatique)

			n, err := db.Collection(doc.Collection()).CountDocuments(ctx, map[string]any{})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}
