package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MalekSoula7/AI-Career-Studio/internal/adapters/registry"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newSession(id string) *model.Session {
	return &model.Session{ID: id, State: model.StateActive, LastActivity: time.Now()}
}

func TestCreateAndGet(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		reg := registry.New()
		ctx := context.Background()

		Convey("When a session is created", func() {
			e, err := reg.Create(ctx, newSession("s1"), nil)
			So(err, ShouldBeNil)
			So(e, ShouldNotBeNil)

			Convey("Then it resolves by id", func() {
				got, err := reg.Get(ctx, "s1")
				So(err, ShouldBeNil)
				So(got.Session.ID, ShouldEqual, "s1")
				So(reg.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then a duplicate id is rejected", func() {
				_, err := reg.Create(ctx, newSession("s1"), nil)
				So(errors.Is(err, registry.ErrDuplicateID), ShouldBeTrue)
			})
		})

		Convey("When resolving an unknown id", func() {
			_, err := reg.Get(ctx, "nope")

			Convey("Then ErrUnknownSession is returned and nothing changed", func() {
				So(errors.Is(err, registry.ErrUnknownSession), ShouldBeTrue)
				So(reg.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestCapacity(t *testing.T) {
	Convey("Given a registry capped at two sessions", t, func() {
		reg := registry.New(registry.WithMaxSessions(2))
		ctx := context.Background()

		_, err := reg.Create(ctx, newSession("s1"), nil)
		So(err, ShouldBeNil)
		_, err = reg.Create(ctx, newSession("s2"), nil)
		So(err, ShouldBeNil)

		Convey("When a third session arrives", func() {
			_, err := reg.Create(ctx, newSession("s3"), nil)

			Convey("Then capacity exhaustion is reported upward", func() {
				So(errors.Is(err, registry.ErrCapacity), ShouldBeTrue)
				So(reg.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestRemove(t *testing.T) {
	Convey("Given a registry with one session", t, func() {
		reg := registry.New()
		ctx := context.Background()

		evicted := false
		e, err := reg.Create(ctx, newSession("s1"), func() { evicted = true })
		So(err, ShouldBeNil)

		e.Mu.Lock()
		e.Timer = time.AfterFunc(time.Hour, func() {})
		e.Mu.Unlock()

		Convey("When the session is removed", func() {
			reg.Remove(ctx, "s1")

			Convey("Then it no longer resolves and cleanup ran", func() {
				_, err := reg.Get(ctx, "s1")
				So(errors.Is(err, registry.ErrUnknownSession), ShouldBeTrue)
				So(evicted, ShouldBeTrue)

				e.Mu.Lock()
				So(e.Timer, ShouldBeNil)
				e.Mu.Unlock()
			})

			Convey("Then removing again is a no-op", func() {
				So(func() { reg.Remove(ctx, "s1") }, ShouldNotPanic)
				So(reg.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestSweeper(t *testing.T) {
	Convey("Given a registry with a tiny TTL and fast sweep", t, func() {
		reg := registry.New(
			registry.WithTTL(20*time.Millisecond),
			registry.WithSweepInterval(10*time.Millisecond),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		evicted := make(chan struct{})
		stale := newSession("stale")
		stale.LastActivity = time.Now().Add(-time.Minute)
		_, err := reg.Create(ctx, stale, func() { close(evicted) })
		So(err, ShouldBeNil)

		fresh := newSession("fresh")
		fresh.LastActivity = time.Now().Add(time.Hour)
		_, err = reg.Create(ctx, fresh, nil)
		So(err, ShouldBeNil)

		Convey("When the sweeper runs", func() {
			reg.StartSweeper(ctx)
			defer reg.Stop()

			select {
			case <-evicted:
			case <-time.After(2 * time.Second):
				t.Fatal("stale session was not evicted")
			}

			Convey("Then only the idle session was dropped", func() {
				_, err := reg.Get(ctx, "stale")
				So(errors.Is(err, registry.ErrUnknownSession), ShouldBeTrue)
				_, err = reg.Get(ctx, "fresh")
				So(err, ShouldBeNil)
			})
		})
	})
}
