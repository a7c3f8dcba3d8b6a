package prescriptions_test

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
)

type recorded struct {
	kind    prescriptions.Kind
	outcome prescriptions.Outcome
}

var _ = Describe("Tracker", func() {
	var ctrl *gomock.Controller
	var service *prescriptions.MockService
	var tracker *prescriptions.Tracker
	var mu sync.Mutex
	var events []recorded

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		service = prescriptions.NewMockService(ctrl)
		tracker = prescriptions.NewTracker(service, zap.NewNop().Sugar())
		events = nil
		tracker.Subscribe(func(kind prescriptions.Kind, outcome prescriptions.Outcome) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, recorded{kind, outcome})
		})
	})

	AfterEach(func() {
		tracker.Wait()
		ctrl.Finish()
	})

	received := func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), events...)
	}

	It("selects the submission kind by the server identifier", func() {
		Expect(prescriptions.KindOf("")).To(Equal(prescriptions.KindCreate))
		Expect(prescriptions.KindOf("rx1")).To(Equal(prescriptions.KindRevise))
	})

	It("reports progress and the assigned identifier of a create", func() {
		attrs := prescription.Attributes{"firstName": "Jane"}
		service.EXPECT().
			CreatePrescription(gomock.Any(), "token", "clinic1", attrs).
			Return(&prescription.Prescription{Id: "rx1"}, nil)

		err := tracker.Dispatch(context.Background(), prescriptions.Request{
			Kind:       prescriptions.KindCreate,
			Token:      "token",
			ClinicId:   "clinic1",
			Attributes: attrs,
		})
		Expect(err).ToNot(HaveOccurred())
		tracker.Wait()

		events := received()
		Expect(events).To(HaveLen(2))
		Expect(events[0].outcome.InProgress).To(BeTrue())
		Expect(events[0].outcome.Completed).To(BeNil())
		Expect(events[1].outcome.Succeeded()).To(BeTrue())
		Expect(events[1].outcome.PrescriptionId).To(Equal("rx1"))
		Expect(tracker.Outcome(prescriptions.KindCreate).Succeeded()).To(BeTrue())
		Expect(tracker.Outcome(prescriptions.KindRevise).Completed).To(BeNil())
	})

	It("does not report an identifier for revisions", func() {
		service.EXPECT().
			CreatePrescriptionRevision(gomock.Any(), "token", "clinic1", "rx1", gomock.Any()).
			Return(&prescription.Prescription{Id: "rx1"}, nil)

		Expect(tracker.Dispatch(context.Background(), prescriptions.Request{
			Kind:           prescriptions.KindRevise,
			Token:          "token",
			ClinicId:       "clinic1",
			PrescriptionId: "rx1",
		})).To(Succeed())
		tracker.Wait()

		outcome := tracker.Outcome(prescriptions.KindRevise)
		Expect(outcome.Succeeded()).To(BeTrue())
		Expect(outcome.PrescriptionId).To(BeEmpty())
	})

	It("reports the service message on failure", func() {
		service.EXPECT().
			CreatePrescription(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &prescriptions.ErrorResponse{StatusCode: 500, Message: "server error"})

		Expect(tracker.Dispatch(context.Background(), prescriptions.Request{Kind: prescriptions.KindCreate})).To(Succeed())
		tracker.Wait()

		outcome := tracker.Outcome(prescriptions.KindCreate)
		Expect(outcome.Failed()).To(BeTrue())
		Expect(outcome.Notification.Message).To(Equal("server error"))
	})

	It("falls back to a generic message", func() {
		service.EXPECT().
			CreatePrescriptionRevision(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		Expect(tracker.Dispatch(context.Background(), prescriptions.Request{Kind: prescriptions.KindRevise})).To(Succeed())
		tracker.Wait()

		Expect(tracker.Outcome(prescriptions.KindRevise).Notification.Message).To(Equal("Something went wrong while updating the prescription."))
	})

	It("rejects a second dispatch while the first is in progress", func() {
		release := make(chan struct{})
		service.EXPECT().
			CreatePrescription(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, token, clinicId string, attrs prescription.Attributes) (*prescription.Prescription, error) {
				<-release
				return &prescription.Prescription{Id: "rx1"}, nil
			})

		Expect(tracker.Dispatch(context.Background(), prescriptions.Request{Kind: prescriptions.KindCreate})).To(Succeed())
		Expect(tracker.Dispatch(context.Background(), prescriptions.Request{Kind: prescriptions.KindCreate})).To(MatchError(prescriptions.ErrInProgress))
		close(release)
		tracker.Wait()

		Expect(received()).To(HaveLen(2))
	})
})
