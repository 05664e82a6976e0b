package id

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestID(t *testing.T) {
	Convey("生成与校验", t, func() {
		a, b := New(), New()
		So(a, ShouldNotEqual, b)
		So(len(a), ShouldEqual, 36)
		So(a[14:15], ShouldEqual, "7")

		got, ok := Normalize("  {" + "0190A5E2-7C3B-7D4E-8F00-123456789ABC" + "}")
		So(ok, ShouldBeTrue)
		So(got, ShouldEqual, "0190a5e2-7c3b-7d4e-8f00-123456789abc")

		_, ok = Normalize("absent")
		So(ok, ShouldBeFalse)
	})
}
