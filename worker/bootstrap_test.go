package worker_test

import (
	"os"

	"github.com/Shopify/sarama"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx"

	"github.com/tidepool-org/prescription-wizard/worker"
)

const (
	MockBrokerAddress = "localhost:5432"
)

var _ = Describe("Boostrap", func() {
	Describe("Fx App", func() {
		var app *fx.App
		var components worker.Components
		var broker *sarama.MockBroker

		build := func() {
			init := func(c worker.Components) {
				components = c
			}
			opts := append([]fx.Option{}, worker.Modules...)
			opts = append(opts, fx.Invoke(init), fx.NopLogger)

			app = fx.New(opts...)
			Expect(app).ToNot(BeNil())
		}

		BeforeEach(func() {
			SetRequiredEnvVariables()
		})

		AfterEach(func() {
			if broker != nil {
				broker.Close()
				broker = nil
			}
			components = worker.Components{}
			ClearRequiredEnvVariables()
		})

		Context("With default configuration", func() {
			BeforeEach(build)

			It("build the DI graph successfully", func() {
				Expect(app.Err()).ToNot(HaveOccurred())
			})

			It("instantiates a health check server", func() {
				Expect(components.HealthCheckServer).ToNot(BeNil())
			})

			It("instantiates the api server", func() {
				Expect(components.Server).ToNot(BeNil())
				Expect(components.Sessions).ToNot(BeNil())
			})
		})

		Context("With kafka notifications", func() {
			BeforeEach(func() {
				broker = NewMockKafkaBroker()
				Expect(broker).ToNot(BeNil())

				broker.SetHandlerByMap(map[string]sarama.MockResponse{
					"MetadataRequest": sarama.NewMockMetadataResponse(GinkgoT()).
						SetBroker(broker.Addr(), broker.BrokerID()).
						SetLeader("prescription-notifications", 0, broker.BrokerID()),
				})

				Expect(os.Setenv("TIDEPOOL_NOTIFICATIONS_KAFKA_ENABLED", "true")).To(Succeed())
				Expect(os.Setenv("KAFKA_BROKERS", broker.Addr())).To(Succeed())
				build()
			})

			AfterEach(func() {
				Expect(os.Unsetenv("TIDEPOOL_NOTIFICATIONS_KAFKA_ENABLED")).To(Succeed())
				Expect(os.Unsetenv("KAFKA_BROKERS")).To(Succeed())
			})

			It("build the DI graph successfully", func() {
				Expect(app.Err()).ToNot(HaveOccurred())
			})
		})

		Context("Without a server secret", func() {
			BeforeEach(func() {
				Expect(os.Unsetenv("TIDEPOOL_SERVER_SECRET")).To(Succeed())
				build()
			})

			It("fails to build the DI graph", func() {
				Expect(app.Err()).To(HaveOccurred())
			})
		})
	})
})

func NewMockKafkaBroker() *sarama.MockBroker {
	return sarama.NewMockBrokerAddr(GinkgoT(), 0, MockBrokerAddress)
}

func SetRequiredEnvVariables() {
	Expect(os.Setenv("TIDEPOOL_SERVER_SECRET", "dummy")).ToNot(HaveOccurred())
	Expect(os.Setenv("TIDEPOOL_LOG_LEVEL", "info")).ToNot(HaveOccurred())
}

func ClearRequiredEnvVariables() {
	Expect(os.Unsetenv("TIDEPOOL_SERVER_SECRET")).ToNot(HaveOccurred())
	Expect(os.Unsetenv("TIDEPOOL_LOG_LEVEL")).ToNot(HaveOccurred())
}
