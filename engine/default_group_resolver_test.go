package engine_test

import (
	"context"
	"errors"

	"code.cloudfoundry.org/lager/lagertest"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	uuid "github.com/satori/go.uuid"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/engine"
	"github.com/JohnathanALves/reaction/errdefs"
	"github.com/JohnathanALves/reaction/logx/lagerx"
	"github.com/JohnathanALves/reaction/metrics/testmetrics"
)

var _ = Describe("DefaultGroupResolver", func() {
	var (
		authorizer *fakeAuthorizer
		statter    *testmetrics.Statter
		eng        *engine.Engine

		actor  reaction.Actor
		shopID string

		customer reaction.Group
	)

	BeforeEach(func() {
		authorizer = newFakeAuthorizer()
		statter = testmetrics.NewStatter()

		var err error
		eng, err = engine.New(
			engine.WithLogger(lagerx.NewLogger(lagertest.NewTestLogger("reaction-test"))),
			engine.WithAuthorizer(authorizer),
			engine.WithStatter(statter),
		)
		Expect(err).NotTo(HaveOccurred())

		actor = reaction.Actor{ID: "admin-1", Namespace: "shopkeeper"}
		shopID = "shop-1"

		customer, err = eng.Groups().CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
			Name:        "Customer",
			Permissions: []string{"guest"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("#Resolve", func() {
		It("returns the group registered for the shop", func() {
			fallback, err := eng.Defaults().Resolve(context.Background(), shopID)

			Expect(err).NotTo(HaveOccurred())
			Expect(fallback).To(Equal(customer))
		})

		It("fails when the shop has no default group", func() {
			_, err := eng.Defaults().Resolve(context.Background(), "shop-2")
			Expect(err).To(Equal(reaction.ErrDefaultGroupNotFound))
		})

		It("reads the stored mapping, not the slug convention", func() {
			vip, err := eng.Groups().CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
				Name:        "Very Important Shoppers",
				Slug:        "vip",
				Permissions: []string{"guest", "cart/completed"},
			})
			Expect(err).NotTo(HaveOccurred())

			err = eng.Defaults().SetDefault(context.Background(), actor, shopID, vip.ID)
			Expect(err).NotTo(HaveOccurred())

			fallback, err := eng.Defaults().Resolve(context.Background(), shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fallback).To(Equal(vip))
		})
	})

	Describe("#SetDefault", func() {
		It("denies the change and keeps the previous designation", func() {
			vip, err := eng.Groups().CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
				Name: "Very Important Shoppers",
				Slug: "vip",
			})
			Expect(err).NotTo(HaveOccurred())

			authorizer.canAdminister = false

			err = eng.Defaults().SetDefault(context.Background(), actor, shopID, vip.ID)
			Expect(err).To(Equal(errdefs.NewErrAccessDenied("set-default-group")))

			fallback, err := eng.Defaults().Resolve(context.Background(), shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fallback).To(Equal(customer))
		})

		It("propagates an oracle failure", func() {
			oracleErr := errors.New("oracle unavailable")
			authorizer.canAdministerErr = oracleErr

			err := eng.Defaults().SetDefault(context.Background(), actor, shopID, customer.ID)
			Expect(err).To(Equal(oracleErr))
		})

		It("fails when the group does not exist", func() {
			err := eng.Defaults().SetDefault(context.Background(), actor, shopID, uuid.NewV4().String())
			Expect(err).To(Equal(reaction.ErrGroupNotFound))
		})

		It("fails when the group belongs to a different shop", func() {
			otherShopGroup, err := eng.Groups().CreateGroup(context.Background(), actor, "shop-2", reaction.GroupSpec{
				Name: "Customer",
			})
			Expect(err).NotTo(HaveOccurred())

			err = eng.Defaults().SetDefault(context.Background(), actor, shopID, otherShopGroup.ID)
			Expect(err).To(Equal(reaction.ErrGroupNotFound))
		})

		It("emits request metrics", func() {
			err := eng.Defaults().SetDefault(context.Background(), actor, shopID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(statter.IncCalls()).To(ContainElement(testmetrics.IncCall{
				Metric: "reaction.count.SetDefaultGroup",
				Value:  1,
			}))
			Expect(statter.GaugeCalls()).To(ContainElement(testmetrics.GaugeCall{
				Metric: "reaction.success.SetDefaultGroup",
				Value:  1,
			}))
		})
	})
})
