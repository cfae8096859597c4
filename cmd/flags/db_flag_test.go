package flags_test

import (
	"context"

	"code.cloudfoundry.org/lager/lagertest"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/JohnathanALves/reaction/cmd/flags"
	"github.com/JohnathanALves/reaction/cmd/internal/ioutilx"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/logx/lagerx"
	"github.com/JohnathanALves/reaction/sqlx"
)

var _ = Describe("DBFlag", func() {
	var (
		ctx    context.Context
		logger logx.Logger

		flag *flags.DBFlag
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = lagerx.NewLogger(lagertest.NewTestLogger("flags"))

		flag = &flags.DBFlag{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     1234,
			Schema:   "reaction",
			Username: "reaction-user",
			Password: "reaction-password",
		}
	})

	Describe("#Connect", func() {
		It("rejects drivers it does not know about", func() {
			flag.Driver = "sqlite"

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError(sqlx.ErrUnsupportedSQLDriver))
		})

		It("fails when a root CA cannot be parsed", func() {
			flag.TLS.RootCAs = []ioutilx.FileOrString{"not a pem block"}

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError("failed to append certificate to pool"))
		})
	})
})
