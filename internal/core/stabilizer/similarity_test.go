package stabilizer

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

var _ = Describe("Similar", func() {
	DescribeTable("agreement on two of three fields",
		func(a, b receipt.ParsedReceipt, want bool) {
			Expect(Similar(a, b)).To(Equal(want))
			Expect(Similar(b, a)).To(Equal(want))
		},
		Entry("identical",
			parsed("ALFAMART", 5500, "2025-08-15", 0.9),
			parsed("ALFAMART", 5500, "2025-08-15", 0.9), true),
		Entry("merchant differs only in case and punctuation",
			parsed("Alfa-Mart", 5500, "2025-08-15", 0.9),
			parsed("ALFAMART", 5500, "2025-08-15", 0.9), true),
		Entry("a single agreeing field is not enough",
			parsed("ALFAMART", 100000, "2025-08-15", 0.9),
			parsed("X", 95000, "2025-01-01", 0.9), false),
		Entry("totals exactly five percent apart count as agreeing",
			parsed("ALFAMART", 100000, "", 0.9),
			parsed("ALFAMART", 95000, "2025-01-01", 0.9), true),
		Entry("totals six percent apart",
			parsed("ALFAMART", 100000, "2025-08-15", 0.9),
			parsed("INDOMARET", 94000, "2025-08-15", 0.9), false),
		Entry("merchant and date agree while total differs",
			parsed("ALFAMART", 5500, "2025-08-15", 0.9),
			parsed("ALFAMART", 99000, "2025-08-15", 0.9), true),
		Entry("two missing fields agree",
			parsed("", 0, "2025-08-15", 0.9),
			parsed("", 0, "2025-01-01", 0.9), true),
		Entry("missing versus present does not agree",
			parsed("ALFAMART", 0, "", 0.9),
			parsed("", 5500, "2025-08-15", 0.9), false),
		Entry("nothing in common",
			parsed("ALFAMART", 5500, "2025-08-15", 0.9),
			parsed("INDOMARET", 12000, "2025-08-16", 0.9), false),
	)

	DescribeTable("required agreement",
		func(n, want int) {
			Expect(requiredAgreement(n)).To(Equal(want))
		},
		Entry("one entry", 1, 1),
		Entry("two entries", 2, 2),
		Entry("three entries", 3, 3),
		Entry("four entries", 4, 3),
		Entry("five entries", 5, 4),
		Entry("ten entries", 10, 7),
	)

	Describe("converged", func() {
		a := parsed("ALFAMART", 5500, "2025-08-15", 0.9)
		b := parsed("INDOMARET", 12000, "2025-01-01", 0.9)

		It("never converges on a single entry", func() {
			Expect(converged([]receipt.ParsedReceipt{a}, 3)).To(BeFalse())
		})

		It("converges when the whole window agrees", func() {
			Expect(converged([]receipt.ParsedReceipt{a, a, a}, 3)).To(BeTrue())
		})

		It("only looks at the last window entries", func() {
			Expect(converged([]receipt.ParsedReceipt{b, b, a, a, a}, 3)).To(BeTrue())
			Expect(converged([]receipt.ParsedReceipt{a, a, a, b}, 3)).To(BeFalse())
		})

		It("tolerates one outlier in a larger window", func() {
			Expect(converged([]receipt.ParsedReceipt{a, b, a, a}, 4)).To(BeTrue())
			Expect(converged([]receipt.ParsedReceipt{a, b, b, a}, 4)).To(BeFalse())
		})
	})
})

var _ = Describe("Status", func() {
	It("knows every defined status", func() {
		for _, s := range Statuses {
			Expect(s.Valid()).To(BeTrue(), string(s))
			Expect(s.Hint()).NotTo(BeEmpty(), string(s))
		}
		Expect(Status("sideways").Valid()).To(BeFalse())
	})
})
