package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/roster/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
				So(d.Names(ctx), ShouldBeEmpty)
			})
		})

		Convey("When creating a deduper with a capacity hint", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(100))

			Convey("Then it should still start empty", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording names", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the name is new", func() {
				seen := d.SeenAndRecord(ctx, "Alice")

				Convey("Then it should return false and record the name", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
					So(d.Names(ctx), ShouldResemble, []string{"Alice"})
				})
			})

			Convey("And the name was already seen", func() {
				d.SeenAndRecord(ctx, "Alice")
				seen := d.SeenAndRecord(ctx, "Alice")

				Convey("Then it should return true and keep the size", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And names arrive out of order", func() {
				for _, name := range []string{"Diana", "Alice", "Charlie", "Alice", "Bob"} {
					d.SeenAndRecord(ctx, name)
				}

				Convey("Then Names should be sorted and unique", func() {
					So(d.Names(ctx), ShouldResemble, []string{"Alice", "Bob", "Charlie", "Diana"})
					So(d.Size(), ShouldEqual, 4)
				})
			})

			Convey("And names differ only by case", func() {
				d.SeenAndRecord(ctx, "bob")
				d.SeenAndRecord(ctx, "Bob")

				Convey("Then they should be distinct and sort byte-wise", func() {
					So(d.Names(ctx), ShouldResemble, []string{"Bob", "bob"})
				})
			})
		})

		Convey("When the caller mutates the Names result", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "Alice")
			names := d.Names(ctx)
			names[0] = "Mallory"

			Convey("Then the set should be unaffected", func() {
				So(d.Names(ctx), ShouldResemble, []string{"Alice"})
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given a deduper shared by several goroutines", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		const workers = 8
		const names = 200

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < names; i++ {
					d.SeenAndRecord(ctx, fmt.Sprintf("name-%03d", i))
				}
			}()
		}
		wg.Wait()

		Convey("Then every name should be recorded exactly once", func() {
			So(d.Size(), ShouldEqual, int64(names))
			So(len(d.Names(ctx)), ShouldEqual, names)
		})
	})
}
