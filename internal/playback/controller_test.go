package playback_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridview/internal/frames"
	"github.com/san-kum/gridview/internal/playback"
	"github.com/san-kum/gridview/internal/testutil"
)

var _ = Describe("Controller", func() {
	var (
		sched *testutil.ManualScheduler
		rec   *testutil.Recorder
		ctrl  *playback.Controller
	)

	newController := func(pair *frames.Pair) *playback.Controller {
		return playback.New("foo", pair,
			playback.WithScheduler(sched),
			playback.WithDrawFunc(rec.Draw),
			playback.WithDelay(250*time.Millisecond),
		)
	}

	BeforeEach(func() {
		sched = testutil.NewManualScheduler()
		rec = &testutil.Recorder{}
		ctrl = newController(testutil.Pair(5, 5))
	})

	It("starts idle at frame 0", func() {
		Expect(ctrl.Cursor()).To(Equal(0))
		Expect(ctrl.Playing()).To(BeFalse())
		Expect(ctrl.Len()).To(Equal(5))
		Expect(rec.Len()).To(BeZero())
	})

	Describe("Step", func() {
		It("wraps to 0 after the last frame", func() {
			for i := 0; i < 6; i++ {
				ctrl.Step()
			}
			Expect(rec.Indexes()).To(Equal([]int{1, 2, 3, 4, 0, 1}))
		})

		It("draws the frames under the cursor", func() {
			ctrl.Step()
			snap, ok := rec.Last()
			Expect(ok).To(BeTrue())
			Expect(snap.Test).To(Equal("foo"))
			Expect(snap.Len).To(Equal(5))
			Expect(snap.Actual).To(Equal(frames.Frame{{0, 1, 0, 0, 0}}))
			Expect(snap.Predicted).To(Equal(snap.Actual))
		})
	})

	Describe("Back", func() {
		It("wraps to the last frame from 0", func() {
			ctrl.Back()
			Expect(ctrl.Cursor()).To(Equal(4))
			ctrl.Back()
			Expect(ctrl.Cursor()).To(Equal(3))
		})
	})

	Describe("Play", func() {
		It("restarts from 0 and halts on the last frame", func() {
			ctrl.Seek(3)
			ctrl.Play()
			Expect(ctrl.Cursor()).To(Equal(0))
			Expect(ctrl.Playing()).To(BeTrue())

			Expect(sched.FireAll(100)).To(Equal(4))
			Expect(ctrl.Cursor()).To(Equal(4))
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(ctrl.Pending()).To(BeFalse())
			Expect(rec.Indexes()).To(Equal([]int{3, 0, 1, 2, 3, 4}))
		})

		It("uses the configured delay", func() {
			ctrl.Play()
			Expect(sched.Last().Delay).To(Equal(250 * time.Millisecond))
		})

		It("keeps at most one advance pending", func() {
			ctrl.Play()
			ctrl.Play()
			sched.Fire()
			ctrl.Play()
			Expect(sched.Pending()).To(Equal(1))
		})

		It("does not schedule for a single frame", func() {
			ctrl = newController(testutil.Pair(1, 1))
			ctrl.Play()
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(sched.Scheduled()).To(BeZero())
			Expect(rec.Indexes()).To(Equal([]int{0}))
		})
	})

	Describe("cancellation", func() {
		It("cancels the pending advance on Step", func() {
			ctrl.Play()
			Expect(sched.Pending()).To(Equal(1))
			ctrl.Step()
			Expect(sched.Pending()).To(BeZero())
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(ctrl.Cursor()).To(Equal(1))
		})

		It("cancels the pending advance on Back", func() {
			ctrl.Play()
			ctrl.Back()
			Expect(sched.Pending()).To(BeZero())
			Expect(ctrl.Cursor()).To(Equal(4))
		})

		It("ignores a callback that fired before it was stopped", func() {
			ctrl.Play()
			stale := sched.Last()
			ctrl.Step()
			stale.Run()
			Expect(ctrl.Cursor()).To(Equal(1))
			Expect(sched.Pending()).To(BeZero())
			Expect(rec.Indexes()).To(Equal([]int{0, 1}))
		})

		It("stops everything on Close", func() {
			ctrl.Play()
			ctrl.Close()
			Expect(sched.Pending()).To(BeZero())
			Expect(ctrl.Closed()).To(BeTrue())

			ctrl.Step()
			ctrl.Play()
			ctrl.Draw()
			Expect(rec.Indexes()).To(Equal([]int{0}))
			Expect(sched.Pending()).To(BeZero())
		})
	})

	Describe("Pause and Toggle", func() {
		It("keeps the cursor when pausing", func() {
			ctrl.Play()
			sched.Fire()
			sched.Fire()
			ctrl.Pause()
			Expect(ctrl.Cursor()).To(Equal(2))
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(sched.Pending()).To(BeZero())
		})

		It("toggles between playing and paused", func() {
			ctrl.Toggle()
			Expect(ctrl.Playing()).To(BeTrue())
			ctrl.Toggle()
			Expect(ctrl.Playing()).To(BeFalse())
		})
	})

	Describe("Seek", func() {
		It("clamps to the playable range", func() {
			ctrl.Seek(42)
			Expect(ctrl.Cursor()).To(Equal(4))
			ctrl.Seek(-3)
			Expect(ctrl.Cursor()).To(Equal(0))
		})
	})

	Context("with mismatched lengths", func() {
		It("clamps playback to the shorter sequence", func() {
			pair := testutil.Pair(5, 5)
			pair.Predicted = pair.Predicted[:3]
			ctrl = newController(pair)
			ctrl.Back()
			Expect(ctrl.Cursor()).To(Equal(2))
			ctrl.Play()
			sched.FireAll(100)
			Expect(ctrl.Cursor()).To(Equal(2))
		})
	})

	Context("with an empty pair", func() {
		It("ignores transitions", func() {
			ctrl = newController(&frames.Pair{})
			ctrl.Step()
			ctrl.Back()
			ctrl.Play()
			Expect(ctrl.Cursor()).To(Equal(0))
			Expect(rec.Len()).To(BeZero())

			ctrl.Draw()
			snap, _ := rec.Last()
			Expect(snap.Len).To(BeZero())
			Expect(snap.Actual).To(BeNil())
		})
	})
})

var _ = Describe("WallClock", func() {
	It("runs the callback after the delay", func() {
		done := make(chan struct{})
		playback.WallClock.AfterFunc(time.Millisecond, func() { close(done) })
		Eventually(done).Should(BeClosed())
	})

	It("does not run a stopped callback", func() {
		ran := make(chan struct{}, 1)
		t := playback.WallClock.AfterFunc(50*time.Millisecond, func() { ran <- struct{}{} })
		Expect(t.Stop()).To(BeTrue())
		Consistently(ran, 100*time.Millisecond).ShouldNot(Receive())
	})
})
