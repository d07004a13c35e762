package stabilizer

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

var _ = Describe("Engine", func() {
	var (
		clock      *fakeClock
		parser     *fakeParser
		engine     *Engine
		stableHits []receipt.ParsedReceipt
		errorHits  []string
		next       receipt.ParseOutcome
	)

	frame := receipt.OCRInput{Text: "ALFAMART\nTOTAL Rp 5.500\nTanggal 15/08/2025", Confidence: 0.9}

	feedAfterThrottle := func(outcome receipt.ParseOutcome) bool {
		next = outcome
		clock.Advance(DefaultThrottleMs * time.Millisecond)
		return engine.Feed(frame)
	}

	BeforeEach(func() {
		clock = &fakeClock{now: time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)}
		stableHits = nil
		errorHits = nil
		next = success(parsed("ALFAMART", 5500, "2025-08-15", 0.86))
		parser = &fakeParser{respond: func(receipt.OCRInput) receipt.ParseOutcome { return next }}
		engine = New(parser, DefaultConfig(),
			WithClock(clock.Now),
			WithOnStableResult(func(r receipt.ParsedReceipt) { stableHits = append(stableHits, r) }),
			WithOnError(func(msg string) { errorHits = append(errorHits, msg) }),
		)
	})

	When("idle", func() {
		It("ignores frames", func() {
			Expect(engine.Feed(frame)).To(BeFalse())
			Expect(parser.calls).To(BeZero())
			Expect(engine.State().FrameCount).To(BeZero())
		})

		It("starts in the detecting status", func() {
			state := engine.State()
			Expect(state.IsActive).To(BeFalse())
			Expect(state.IsStable).To(BeFalse())
			Expect(state.Status).To(Equal(StatusDetecting))
			Expect(engine.LastStable()).To(BeNil())
		})
	})

	When("started", func() {
		BeforeEach(func() {
			engine.Start()
		})

		It("is active and detecting", func() {
			state := engine.State()
			Expect(state.IsActive).To(BeTrue())
			Expect(state.IsStable).To(BeFalse())
			Expect(state.Status).To(Equal(StatusDetecting))
		})

		It("throttles frames arriving inside the interval", func() {
			Expect(engine.Feed(frame)).To(BeTrue())
			clock.Advance(100 * time.Millisecond)
			Expect(engine.Feed(frame)).To(BeFalse())

			Expect(parser.calls).To(Equal(1))
			Expect(engine.State().FrameCount).To(Equal(1))

			clock.Advance(200 * time.Millisecond)
			Expect(engine.Feed(frame)).To(BeTrue())
			Expect(parser.calls).To(Equal(2))
		})

		It("does not converge on a single frame", func() {
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))

			Expect(engine.State().IsStable).To(BeFalse())
			Expect(stableHits).To(BeEmpty())
		})

		It("fires the stable callback exactly once for near-identical frames", func() {
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			feedAfterThrottle(success(parsed("Alfamart", 5600, "2025-08-15", 0.86)))
			feedAfterThrottle(success(parsed("ALFA-MART", 5450, "2025-08-15", 0.86)))

			Expect(stableHits).To(HaveLen(1))
			state := engine.State()
			Expect(state.IsStable).To(BeTrue())
			Expect(state.Status).To(Equal(StatusStable))
			Expect(state.LastStableResult).NotTo(BeNil())
			Expect(engine.LastStable()).NotTo(BeNil())

			feedAfterThrottle(success(parsed("ALFA-MART", 5450, "2025-08-15", 0.86)))

			Expect(stableHits).To(HaveLen(1))
			Expect(engine.State().IsStable).To(BeTrue())
		})

		It("drops back to detecting when a frame breaks agreement and re-stabilizes later", func() {
			for i := 0; i < 3; i++ {
				feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			}
			Expect(stableHits).To(HaveLen(1))

			feedAfterThrottle(success(parsed("INDOMARET", 99000, "2025-01-02", 0.86)))
			state := engine.State()
			Expect(state.IsStable).To(BeFalse())
			Expect(state.Status).To(Equal(StatusDetecting))
			Expect(state.LastStableResult).NotTo(BeNil())

			for i := 0; i < 3; i++ {
				feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			}
			Expect(stableHits).To(HaveLen(2))
			Expect(engine.State().Status).To(Equal(StatusStable))
		})

		It("keeps low-confidence results out of the buffer", func() {
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.4)))
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.4)))
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.4)))

			Expect(engine.BufferSize()).To(BeZero())
			Expect(stableHits).To(BeEmpty())
		})

		DescribeTable("advisory status for low-confidence frames",
			func(input receipt.OCRInput, result receipt.ParsedReceipt, want Status) {
				next = success(result)
				clock.Advance(time.Second)
				engine.Feed(input)

				Expect(engine.State().Status).To(Equal(want))
			},
			Entry("dark when little text was read",
				receipt.OCRInput{Text: "AL", Confidence: 0.9},
				parsed("", 0, "", 0.2), StatusDark),
			Entry("blurry when the OCR engine is unsure",
				receipt.OCRInput{Text: "ALFAMART JL RAYA BOGOR KM 30", Confidence: 0.3},
				parsed("", 0, "", 0.2), StatusBlurry),
			Entry("tilted when text was read but nothing extracted",
				receipt.OCRInput{Text: "ALFAMART JL RAYA BOGOR KM 30", Confidence: 0.8},
				parsed("", 0, "", 0.2), StatusTilted),
			Entry("detecting otherwise",
				receipt.OCRInput{Text: "ALFAMART JL RAYA BOGOR KM 30", Confidence: 0.8},
				parsed("ALFAMART", 0, "", 0.4), StatusDetecting),
		)

		It("keeps the stable status while low-confidence frames arrive", func() {
			for i := 0; i < 3; i++ {
				feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			}

			feedAfterThrottle(success(parsed("", 0, "", 0.1)))

			Expect(engine.State().Status).To(Equal(StatusStable))
			Expect(engine.State().IsStable).To(BeTrue())
		})

		It("reports parse failures without touching the buffer", func() {
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			feedAfterThrottle(receipt.ParseOutcome{Success: false, Errors: []string{receipt.MsgNoText}})

			state := engine.State()
			Expect(state.Status).To(Equal(StatusError))
			Expect(state.IsStable).To(BeFalse())
			Expect(state.ErrorMessage).NotTo(BeNil())
			Expect(*state.ErrorMessage).To(Equal(receipt.MsgNoText))
			Expect(engine.BufferSize()).To(Equal(1))
		})

		It("recovers from parser panics and keeps accepting frames", func() {
			parser.respond = func(receipt.OCRInput) receipt.ParseOutcome { panic("regex blew up") }
			clock.Advance(time.Second)
			Expect(engine.Feed(frame)).To(BeTrue())

			Expect(errorHits).To(HaveLen(1))
			Expect(errorHits[0]).To(ContainSubstring("regex blew up"))
			Expect(engine.State().Status).To(Equal(StatusError))

			parser.respond = func(receipt.OCRInput) receipt.ParseOutcome { return next }
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))

			state := engine.State()
			Expect(state.Status).To(Equal(StatusDetecting))
			Expect(state.ErrorMessage).To(BeNil())
		})

		It("reports panicking stable handlers through the error callback", func() {
			engine.onStable = func(receipt.ParsedReceipt) { panic("sink down") }

			for i := 0; i < 3; i++ {
				feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			}

			Expect(errorHits).To(HaveLen(1))
			Expect(errorHits[0]).To(ContainSubstring("sink down"))
			Expect(engine.State().IsStable).To(BeTrue())
		})

		It("tracks running metrics over a sliding window", func() {
			for i := 1; i <= 12; i++ {
				outcome := success(parsed("ALFAMART", 5500, "2025-08-15", 0.86))
				outcome.ProcessingTimeMs = float64(i)
				feedAfterThrottle(outcome)
			}

			metrics := engine.Metrics()
			Expect(metrics.TotalFramesProcessed).To(Equal(12))
			Expect(metrics.AverageProcessingTimeMs).To(BeNumerically("~", 7.5, 1e-9))
			Expect(metrics.SuccessRate).To(BeNumerically("~", 1.0, 1e-9))
			Expect(metrics.FrameRate).To(BeNumerically("~", 1/0.3, 1e-6))
		})

		It("counts failed parses against the success rate", func() {
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			feedAfterThrottle(receipt.ParseOutcome{Success: false, Errors: []string{"boom"}})

			Expect(engine.Metrics().SuccessRate).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("stops idempotently and keeps the last stable result", func() {
			for i := 0; i < 3; i++ {
				feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			}

			engine.Stop()
			engine.Stop()

			state := engine.State()
			Expect(state.IsActive).To(BeFalse())
			Expect(state.IsStable).To(BeFalse())
			Expect(state.Status).To(Equal(StatusDetecting))
			Expect(engine.LastStable()).NotTo(BeNil())

			calls := parser.calls
			Expect(feedAfterThrottle(next)).To(BeFalse())
			Expect(parser.calls).To(Equal(calls))
		})

		It("clears the buffer on restart", func() {
			feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			Expect(engine.BufferSize()).To(Equal(1))

			engine.Stop()
			engine.Start()

			Expect(engine.BufferSize()).To(BeZero())
		})

		It("resets counters, buffer and metrics", func() {
			for i := 0; i < 3; i++ {
				feedAfterThrottle(success(parsed("ALFAMART", 5500, "2025-08-15", 0.86)))
			}

			engine.Reset()

			state := engine.State()
			Expect(state.FrameCount).To(BeZero())
			Expect(state.IsActive).To(BeFalse())
			Expect(state.IsStable).To(BeFalse())
			Expect(state.LastStableResult).To(BeNil())
			Expect(state.Status).To(Equal(StatusDetecting))
			Expect(engine.BufferSize()).To(BeZero())
			Expect(engine.Metrics()).To(Equal(Metrics{}))
		})
	})

	When("driven by the real receipt parser", func() {
		It("stabilizes on consistent OCR frames", func() {
			real := receipt.NewParser(receipt.DefaultConfig(), receipt.WithClock(clock.Now))
			engine = New(real, DefaultConfig(),
				WithClock(clock.Now),
				WithOnStableResult(func(r receipt.ParsedReceipt) { stableHits = append(stableHits, r) }),
			)
			engine.Start()

			texts := []string{
				"ALFAMART\nJl Raya Bogor\nTanggal: 15/08/2025\nTOTAL: Rp 5.500",
				"ALFAMART\nJl Raya Bogor\nTanggal: 15/08/2025\nTOTAL: Rp 5.500",
				"ALFAMART.\nJl Raya Bogor\nTanggal: 15/08/2025\nTOTAL: Rp 5.600",
			}
			for _, text := range texts {
				clock.Advance(time.Second)
				engine.Feed(receipt.OCRInput{Text: text, Confidence: 0.9})
			}

			Expect(stableHits).To(HaveLen(1))
			Expect(stableHits[0].MerchantValue()).To(Equal("ALFAMART"))
			Expect(stableHits[0].DateValue()).To(Equal("2025-08-15"))
		})
	})
})

var _ = Describe("Config", func() {
	It("falls back to defaults for unusable values", func() {
		cfg := Config{StabilityThreshold: 1, MinConfidence: 2}.withDefaults()

		Expect(cfg).To(Equal(DefaultConfig()))
	})

	It("throttles a zero-value config like the defaults", func() {
		Expect(New(&fakeParser{}, Config{}).Config()).To(Equal(DefaultConfig()))
	})

	It("accepts back-to-back frames when the throttle is disabled", func() {
		parser := &fakeParser{respond: func(receipt.OCRInput) receipt.ParseOutcome {
			return success(parsed("ALFAMART", 5500, "2025-08-15", 0.86))
		}}
		clock := &fakeClock{now: time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)}
		engine := New(parser, Config{ThrottleMs: -20}, WithClock(clock.Now))
		Expect(engine.Config().ThrottleMs).To(Equal(NoThrottle))

		engine.Start()
		Expect(engine.Feed(receipt.OCRInput{Text: "ALFAMART"})).To(BeTrue())
		Expect(engine.Feed(receipt.OCRInput{Text: "ALFAMART"})).To(BeTrue())
		Expect(parser.calls).To(Equal(2))
	})
})
