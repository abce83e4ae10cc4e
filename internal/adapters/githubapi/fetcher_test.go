package githubapi_test

import (
	"errors"
	"testing"

	"github.com/hackfest/vibeboard/internal/adapters/githubapi"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRepoRef(t *testing.T) {
	Convey("Given repository URLs in common shapes", t, func() {
		cases := []struct {
			url   string
			owner string
			repo  string
		}{
			{"https://github.com/octo/widgets", "octo", "widgets"},
			{"https://github.com/octo/widgets/", "octo", "widgets"},
			{"https://github.com/octo/widgets.git", "octo", "widgets"},
			{"git@github.com:octo/widgets.git", "octo", "widgets"},
			{"github.com/octo/my-app_2.0", "octo", "my-app_2.0"},
			{"  https://github.com/octo/widgets  ", "octo", "widgets"},
		}

		Convey("Then owner and repo parse out of each", func() {
			for _, c := range cases {
				owner, repo, err := githubapi.ParseRepoRef(c.url)
				So(err, ShouldBeNil)
				So(owner, ShouldEqual, c.owner)
				So(repo, ShouldEqual, c.repo)
			}
		})
	})

	Convey("Given URLs that do not reference a repository", t, func() {
		for _, url := range []string{
			"",
			"https://github.com/",
			"https://github.com/just-an-owner",
			"https://gitlab.com/octo/widgets",
			"not a url at all",
		} {
			_, _, err := githubapi.ParseRepoRef(url)

			So(err, ShouldNotBeNil)
			So(errors.Is(err, githubapi.ErrInvalidReference), ShouldBeTrue)
		}
	})
}
