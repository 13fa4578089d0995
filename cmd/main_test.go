package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/roster/internal/adapters/report"
	"github.com/okian/roster/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const expectedDefault = `All participants (in order of registration):
Alice Bob Alice Charlie Diana 

Unique participants:
Alice Bob Charlie Diana 

Final scores:
Alice : 97
Bob : 80
Charlie : 100
Diana : 75
`

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("stdout closed") }

func execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.AddCommand(newVersionCmd())
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func clearEnv() {
	for _, k := range []string{"ROSTER_CONFIG", "ROSTER_LOG_LEVEL", "ROSTER_LOG_JSON", "ROSTER_FORMAT", "ROSTER_ROSTER_FILE", "ROSTER_METRICS_TEXTFILE"} {
		_ = os.Unsetenv(k)
	}
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the roster command", t, func() {
		clearEnv()

		convey.Convey("When run with no arguments", func() {
			out, _, err := execute()

			convey.Convey("Then it should print the default report exactly", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, expectedDefault)
			})
		})

		convey.Convey("When run twice", func() {
			first, _, err1 := execute()
			second, _, err2 := execute()

			convey.Convey("Then the output should be byte-identical", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(first, convey.ShouldEqual, second)
			})
		})

		convey.Convey("When run at debug level", func() {
			out, errOut, err := execute("--log-level", "debug")

			convey.Convey("Then logs should go to stderr only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, expectedDefault)
				convey.So(errOut, convey.ShouldContainSubstring, "ingest complete")
				convey.So(errOut, convey.ShouldContainSubstring, "run_id=")
			})
		})

		convey.Convey("When asked for JSON", func() {
			out, _, err := execute("--format", "json")

			convey.Convey("Then it should print a JSON report", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"participants": [`)
				convey.So(out, convey.ShouldContainSubstring, `"name": "Alice",`)
				convey.So(out, convey.ShouldContainSubstring, `"score": 97`)
			})
		})

		convey.Convey("When given an unknown format", func() {
			_, _, err := execute("--format", "xml")

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When env sets an invalid format and the flag overrides it", func() {
			_ = os.Setenv("ROSTER_FORMAT", "csv")
			defer clearEnv()

			out, _, err := execute("--format", "text")

			convey.Convey("Then the flag should win and the default report print", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, expectedDefault)
			})
		})

		convey.Convey("When env sets an invalid format and no flag overrides it", func() {
			_ = os.Setenv("ROSTER_FORMAT", "csv")
			defer clearEnv()

			out, _, err := execute()

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(out, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When given positional arguments", func() {
			_, _, err := execute("extra")

			convey.Convey("Then it should be rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When given an empty roster file", func() {
			path := filepath.Join(t.TempDir(), "empty.yaml")
			convey.So(os.WriteFile(path, []byte("registrations: []\n"), 0o600), convey.ShouldBeNil)
			out, _, err := execute("--roster", path)

			convey.Convey("Then only the headings should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, "All participants (in order of registration):\n\n\nUnique participants:\n\n\nFinal scores:\n")
			})
		})

		convey.Convey("When the roster file comes from the environment", func() {
			path := filepath.Join(t.TempDir(), "roster.toml")
			content := "[[registrations]]\nname = \"Zed\"\nscore = 1\n\n[[registrations]]\nname = \"Amy\"\nscore = 2\n"
			convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ROSTER_ROSTER_FILE", path)
			defer clearEnv()

			out, _, err := execute()

			convey.Convey("Then it should be used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldStartWith, "All participants (in order of registration):\nZed Amy \n")
				convey.So(out, convey.ShouldEndWith, "Final scores:\nAmy : 2\nZed : 1\n")
			})
		})

		convey.Convey("When the roster file is missing", func() {
			_, _, err := execute("--roster", filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a metrics textfile is requested", func() {
			path := filepath.Join(t.TempDir(), "roster.prom")
			_, _, err := execute("--metrics-textfile", path)

			convey.Convey("Then it should contain the run's counters", func() {
				convey.So(err, convey.ShouldBeNil)
				b, readErr := os.ReadFile(path)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldContainSubstring, "roster_ingest_registrations_total 5")
				convey.So(string(b), convey.ShouldContainSubstring, "roster_ingest_duplicate_names_total 1")
			})
		})

		convey.Convey("When the version subcommand is run", func() {
			out, _, err := execute("version")

			convey.Convey("Then it should print the version", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(strings.TrimSpace(out), convey.ShouldEqual, "roster "+version)
			})
		})
	})
}

func TestRunWriteFailure(t *testing.T) {
	convey.Convey("Given a closed standard output", t, func() {
		var errOut bytes.Buffer
		err := run(context.Background(), config.New(), failingWriter{}, &errOut)

		convey.Convey("Then run should return ErrWrite", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, report.ErrWrite), convey.ShouldBeTrue)
		})
	})
}
