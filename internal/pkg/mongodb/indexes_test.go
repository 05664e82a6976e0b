package mongodb

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModels(t *testing.T) {
	Convey("每个模型对应独立的集合", t, func() {
		seen := map[string]bool{}
		for _, m := range models() {
			name := m.Collection()
			So(name, ShouldNotBeEmpty)
			So(seen[name], ShouldBeFalse)
			seen[name] = true
		}
		So(seen, ShouldContainKey, "scans")
		So(seen, ShouldContainKey, "stories")
		So(seen, ShouldContainKey, "voice_settings")
	})
}
