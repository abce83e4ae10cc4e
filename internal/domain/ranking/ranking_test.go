package ranking_test

import (
	"testing"

	"github.com/hackfest/vibeboard/internal/domain/model"
	"github.com/hackfest/vibeboard/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(id string, total float64) model.ScoreRecord {
	return model.ScoreRecord{TeamID: id, Total: total}
}

func TestAssign(t *testing.T) {
	Convey("Given an unordered record set", t, func() {
		records := []model.ScoreRecord{rec("a", 9.1), rec("b", 13.4), rec("c", 11.0)}

		out := ranking.Assign(records)

		Convey("Then records sort by total descending with contiguous 1-based ranks", func() {
			So(out[0].TeamID, ShouldEqual, "b")
			So(out[1].TeamID, ShouldEqual, "c")
			So(out[2].TeamID, ShouldEqual, "a")
			So(*out[0].CurrentRank, ShouldEqual, 1)
			So(*out[1].CurrentRank, ShouldEqual, 2)
			So(*out[2].CurrentRank, ShouldEqual, 3)
		})
	})

	Convey("Given tied totals", t, func() {
		records := []model.ScoreRecord{rec("first", 10), rec("second", 10), rec("third", 10)}

		out := ranking.Assign(records)

		Convey("Then input order decides tie order and ranks stay distinct", func() {
			So(out[0].TeamID, ShouldEqual, "first")
			So(out[1].TeamID, ShouldEqual, "second")
			So(out[2].TeamID, ShouldEqual, "third")
			So(*out[0].CurrentRank, ShouldEqual, 1)
			So(*out[2].CurrentRank, ShouldEqual, 3)
		})
	})

	Convey("Given an empty set", t, func() {
		So(ranking.Assign(nil), ShouldBeEmpty)
	})
}

func TestCarryPrevious(t *testing.T) {
	Convey("Given a ranked prior set and a fresh incoming set", t, func() {
		prior := ranking.Assign([]model.ScoreRecord{rec("a", 12), rec("b", 8)})
		incoming := []model.ScoreRecord{rec("b", 14), rec("a", 9), rec("c", 7)}

		ranking.CarryPrevious(prior, incoming)

		Convey("Then prior current ranks become incoming previous ranks", func() {
			byID := map[string]model.ScoreRecord{}
			for _, r := range incoming {
				byID[r.TeamID] = r
			}
			So(*byID["a"].PreviousRank, ShouldEqual, 1)
			So(*byID["b"].PreviousRank, ShouldEqual, 2)

			Convey("And a team without history has none", func() {
				So(byID["c"].PreviousRank, ShouldBeNil)
			})
		})
	})
}
