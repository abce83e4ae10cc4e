package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hackfest/vibeboard/internal/adapters/repository"
	"github.com/hackfest/vibeboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLStore(t *testing.T) {
	Convey("Given a sqlite store in a temp directory", t, func() {
		store, err := repository.NewSQLStore(filepath.Join(t.TempDir(), "scores.db"))
		So(err, ShouldBeNil)
		defer store.Close()

		exerciseStore(store)
	})
}

func TestSQLStore_PersistsAcrossInstances(t *testing.T) {
	Convey("Given records written by one store instance", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "scores.db")

		first, err := repository.NewSQLStore(path)
		So(err, ShouldBeNil)
		So(first.WriteAll(ctx, []model.ScoreRecord{record("a", 12), record("b", 7)}), ShouldBeNil)
		So(first.AppendCommentary(ctx, "hello"), ShouldBeNil)
		So(first.Close(), ShouldBeNil)

		Convey("When a fresh instance opens the same path", func() {
			second, err := repository.NewSQLStore(path)
			So(err, ShouldBeNil)
			defer second.Close()

			scores, err := second.ReadAll(ctx)
			So(err, ShouldBeNil)
			So(scores, ShouldHaveLength, 2)
			So(scores[0].TeamID, ShouldEqual, "a")
			So(*scores[0].CurrentRank, ShouldEqual, 1)

			comments, err := second.ReadCommentary(ctx, 5)
			So(err, ShouldBeNil)
			So(comments, ShouldHaveLength, 1)
			So(comments[0].Message, ShouldEqual, "hello")
		})
	})
}

func TestSQLStore_RoundTripsTimestampsAndRanks(t *testing.T) {
	Convey("Given a record with full metadata", t, func() {
		ctx := context.Background()
		store, err := repository.NewSQLStore(filepath.Join(t.TempDir(), "scores.db"))
		So(err, ShouldBeNil)
		defer store.Close()

		in := record("a", 11.5)
		in.Problem, in.Solution, in.Execution = 4.0, 3.5, 4.0
		in.EstimatedLOC = 1234
		in.Commentary = "Shipped a demo that actually demos."

		So(store.UpsertOne(ctx, in), ShouldBeNil)

		Convey("When read back", func() {
			out, err := store.ReadAll(ctx)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)

			Convey("Then every field survives the round trip", func() {
				got := out[0]
				So(got.Problem, ShouldEqual, 4.0)
				So(got.Solution, ShouldEqual, 3.5)
				So(got.Execution, ShouldEqual, 4.0)
				So(got.Total, ShouldEqual, 11.5)
				So(got.EstimatedLOC, ShouldEqual, 1234)
				So(got.Commentary, ShouldEqual, "Shipped a demo that actually demos.")
				So(got.UpdatedAt.Equal(in.UpdatedAt), ShouldBeTrue)
				So(*got.CurrentRank, ShouldEqual, 1)
			})
		})
	})
}
