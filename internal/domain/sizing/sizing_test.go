package sizing_test

import (
	"testing"

	"github.com/hackfest/vibeboard/internal/domain/sizing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimate(t *testing.T) {
	Convey("Given file listings of varying shapes", t, func() {
		Convey("When the listing is empty", func() {
			So(sizing.Estimate(nil, 100_000), ShouldEqual, 0)
			So(sizing.Estimate([]string{}, 100_000), ShouldEqual, 0)
		})

		Convey("When every file is code", func() {
			paths := []string{"main.go", "internal/app/service.go"}

			Convey("Then all bytes count toward the estimate", func() {
				// ratio 1.0, 50000 bytes / 25 bytes per line
				So(sizing.Estimate(paths, 50_000), ShouldEqual, 2000)
			})
		})

		Convey("When half the files are code", func() {
			paths := []string{"main.go", "logo.png"}

			Convey("Then the byte total is scaled by the code ratio", func() {
				// ratio 0.5, 50000 * 0.5 / 25
				So(sizing.Estimate(paths, 50_000), ShouldEqual, 1000)
			})
		})

		Convey("When the byte count is zero but code files exist", func() {
			paths := []string{"a.py", "b.py", "c.py"}

			Convey("Then the per-file floor applies", func() {
				So(sizing.Estimate(paths, 0), ShouldEqual, 150)
			})
		})

		Convey("When no file has a code extension", func() {
			paths := []string{"README.md", "assets/logo.svg"}

			Convey("Then the estimate is zero", func() {
				So(sizing.Estimate(paths, 1_000_000), ShouldEqual, 0)
			})
		})

		Convey("When extensions differ only in case", func() {
			So(sizing.Estimate([]string{"APP.GO"}, 0), ShouldEqual, 50)
		})
	})
}
