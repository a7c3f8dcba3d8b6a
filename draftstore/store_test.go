package draftstore_test

import (
	"context"
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/prescription-wizard/draftstore"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/types"
)

var _ = Describe("Store", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("ScopedKey", func() {
		It("joins the user and clinic ids", func() {
			Expect(draftstore.ScopedKey("user", "clinic", draftstore.WizardKeyName)).To(Equal("prescriptionForm:user|clinic"))
			Expect(draftstore.ScopedKey("user", "clinic", draftstore.DashboardConfigKeyName)).To(Equal("tideDashboardConfig:user|clinic"))
		})
	})

	Describe("MemoryStore", func() {
		var store *draftstore.MemoryStore

		BeforeEach(func() {
			store = draftstore.NewMemoryStore()
		})

		It("returns not found for missing keys", func() {
			_, err := store.Get(ctx, "missing")
			Expect(err).To(MatchError(draftstore.ErrNotFound))
		})

		It("sets, gets and deletes values", func() {
			Expect(store.Set(ctx, "key", []byte(`{"a":1}`))).To(Succeed())
			value, err := store.Get(ctx, "key")
			Expect(err).ToNot(HaveOccurred())
			Expect(value).To(MatchJSON(`{"a":1}`))

			Expect(store.Delete(ctx, "key")).To(Succeed())
			_, err = store.Get(ctx, "key")
			Expect(err).To(MatchError(draftstore.ErrNotFound))
		})

		It("round trips drafts", func() {
			stored := draftstore.StoredDraft{
				Id:     "rx1",
				Values: prescription.Draft{FirstName: types.Ptr("Jane")},
			}
			Expect(draftstore.SetDraft(ctx, store, "key", stored)).To(Succeed())

			result, err := draftstore.GetDraft(ctx, store, "key")
			Expect(err).ToNot(HaveOccurred())
			Expect(result).ToNot(BeNil())
			Expect(*result).To(Equal(stored))
		})

		It("returns nil for a missing draft", func() {
			result, err := draftstore.GetDraft(ctx, store, "key")
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	Describe("GetDraft", func() {
		var ctrl *gomock.Controller
		var store *draftstore.MockStore

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			store = draftstore.NewMockStore(ctrl)
		})

		AfterEach(func() {
			ctrl.Finish()
		})

		It("returns store errors", func() {
			store.EXPECT().Get(gomock.Any(), "key").Return(nil, errors.New("unavailable"))
			_, err := draftstore.GetDraft(ctx, store, "key")
			Expect(err).To(MatchError(ContainSubstring("unavailable")))
		})

		It("returns an error for malformed values", func() {
			store.EXPECT().Get(gomock.Any(), "key").Return([]byte("not json"), nil)
			_, err := draftstore.GetDraft(ctx, store, "key")
			Expect(err).To(HaveOccurred())
		})
	})

	DescribeTable("ShouldHydrate",
		func(input draftstore.HydrationInput, expected bool) {
			Expect(draftstore.ShouldHydrate(input)).To(Equal(expected))
		},
		Entry("nothing stored", draftstore.HydrationInput{HasURLPosition: true}, false),
		Entry("new flow resumed from url", draftstore.HydrationInput{
			HasURLPosition: true,
			Stored:         &draftstore.StoredDraft{},
		}, true),
		Entry("new flow without url position", draftstore.HydrationInput{
			Stored: &draftstore.StoredDraft{},
		}, false),
		Entry("new flow with a stored id", draftstore.HydrationInput{
			HasURLPosition: true,
			Stored:         &draftstore.StoredDraft{Id: "rx1"},
		}, false),
		Entry("edit flow with matching id", draftstore.HydrationInput{
			PrescriptionId: "rx1",
			Stored:         &draftstore.StoredDraft{Id: "rx1"},
		}, true),
		Entry("edit flow with another id", draftstore.HydrationInput{
			PrescriptionId: "rx1",
			HasURLPosition: true,
			Stored:         &draftstore.StoredDraft{Id: "rx2"},
		}, false),
	)
})
