package devices_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidepool-org/prescription-wizard/devices"
	devicestest "github.com/tidepool-org/prescription-wizard/devices/test"
	"github.com/tidepool-org/prescription-wizard/test"
)

var _ = Describe("Catalogue", func() {
	Describe("SkipDeviceSelection", func() {
		It("is true with a single pump and a single cgm", func() {
			Expect(devicestest.SingleDeviceCatalogue().SkipDeviceSelection()).To(BeTrue())
		})

		It("is false when there is a choice", func() {
			Expect(devicestest.MultiDeviceCatalogue().SkipDeviceSelection()).To(BeFalse())
		})

		It("ignores disabled devices", func() {
			catalogue := devicestest.MultiDeviceCatalogue()
			catalogue.Pumps[1].Disabled = true
			catalogue.CGMs[1].Disabled = true
			Expect(catalogue.SkipDeviceSelection()).To(BeTrue())
		})
	})

	Describe("SkipCalculator", func() {
		var catalogue devices.Catalogue

		BeforeEach(func() {
			catalogue = devicestest.MultiDeviceCatalogue()
		})

		It("is false when no pump skips the calculator", func() {
			Expect(catalogue.SkipCalculator("")).To(BeFalse())
		})

		It("is true when the selected pump skips the calculator", func() {
			catalogue.Pumps[1].SkipCalculator = true
			Expect(catalogue.SkipCalculator(catalogue.Pumps[1].Id)).To(BeTrue())
			Expect(catalogue.SkipCalculator(catalogue.Pumps[0].Id)).To(BeFalse())
		})

		It("is true when every eligible pump skips the calculator", func() {
			catalogue.Pumps[0].SkipCalculator = true
			catalogue.Pumps[1].SkipCalculator = true
			Expect(catalogue.SkipCalculator("")).To(BeTrue())
		})

		It("is false for an empty catalogue", func() {
			Expect(devices.Catalogue{}.SkipCalculator("")).To(BeFalse())
		})
	})

	It("returns default device ids only when device selection is skipped", func() {
		pumpId, cgmId, ok := devicestest.SingleDeviceCatalogue().DefaultDeviceIds()
		Expect(ok).To(BeTrue())
		Expect(pumpId).To(Equal(devices.PalmtreePumpId))
		Expect(cgmId).To(Equal(devices.DexcomG6CGMId))

		_, _, ok = devicestest.MultiDeviceCatalogue().DefaultDeviceIds()
		Expect(ok).To(BeFalse())
	})

	It("treats an unset maximum as unbounded", func() {
		Expect(devices.Bounds{Minimum: 1}.Contains(1000)).To(BeTrue())
		Expect(devices.Bounds{Minimum: 1, Maximum: 10}.Contains(11)).To(BeFalse())
		Expect(devices.Bounds{Minimum: 1, Maximum: 10}.Contains(0.5)).To(BeFalse())
	})

	Describe("ParseCatalogue", func() {
		It("parses the toml catalogue fixture", func() {
			fixture, err := test.LoadFixture("test/fixtures/catalogue.toml")
			Expect(err).ToNot(HaveOccurred())

			source, err := devices.ParseCatalogue(fixture)
			Expect(err).ToNot(HaveOccurred())

			catalogue, err := source.Catalogue(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(catalogue.Pumps).To(HaveLen(1))
			Expect(catalogue.CGMs).To(HaveLen(1))
			Expect(catalogue.Pumps[0].GuardRails).To(Equal(devicestest.LoopGuardRails()))
		})

		It("returns an error for malformed input", func() {
			_, err := devices.ParseCatalogue([]byte("[[pumps]\nid ="))
			Expect(err).To(HaveOccurred())
		})
	})
})
