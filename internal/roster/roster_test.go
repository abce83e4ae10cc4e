package roster_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hackfest/vibeboard/internal/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teams.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a well-formed roster", t, func() {
		path := writeRoster(t, `
teams:
  - id: team-a
    name: Alpha
    repo: https://github.com/x/a
    track: 1
    members: [ada, grace]
  - id: team-b
    name: Beta
    repo: https://github.com/x/b
    track: 2
`)

		teams, err := roster.Load(path)

		Convey("Then all teams load with their fields", func() {
			So(err, ShouldBeNil)
			So(teams, ShouldHaveLength, 2)
			So(teams[0].ID, ShouldEqual, "team-a")
			So(teams[0].Members, ShouldResemble, []string{"ada", "grace"})
			So(teams[1].Track, ShouldEqual, 2)
		})
	})

	Convey("Given defective rosters", t, func() {
		Convey("A missing file fails", func() {
			_, err := roster.Load(filepath.Join(t.TempDir(), "nope.yml"))
			So(err, ShouldNotBeNil)
		})

		Convey("Invalid YAML fails", func() {
			_, err := roster.Load(writeRoster(t, "teams: [unclosed"))
			So(err, ShouldNotBeNil)
		})

		Convey("An empty roster fails", func() {
			_, err := roster.Load(writeRoster(t, "teams: []"))
			So(errors.Is(err, roster.ErrEmptyRoster), ShouldBeTrue)
		})

		Convey("A team without a repo fails", func() {
			_, err := roster.Load(writeRoster(t, `
teams:
  - id: team-a
    name: Alpha
    track: 1
`))
			So(errors.Is(err, roster.ErrInvalidTeam), ShouldBeTrue)
		})

		Convey("An out-of-range track fails", func() {
			_, err := roster.Load(writeRoster(t, `
teams:
  - id: team-a
    name: Alpha
    repo: https://github.com/x/a
    track: 3
`))
			So(errors.Is(err, roster.ErrInvalidTrack), ShouldBeTrue)
		})

		Convey("Duplicate team ids fail", func() {
			_, err := roster.Load(writeRoster(t, `
teams:
  - id: team-a
    name: Alpha
    repo: https://github.com/x/a
    track: 1
  - id: team-a
    name: AlphaAgain
    repo: https://github.com/x/a2
    track: 2
`))
			So(errors.Is(err, roster.ErrDuplicateID), ShouldBeTrue)
		})
	})
}
