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

var _ = Describe("MembershipService", func() {
	var (
		authorizer *fakeAuthorizer
		statter    *testmetrics.Statter
		eng        *engine.Engine

		actor  reaction.Actor
		shopID string
		userID string

		customer reaction.Group
		managers reaction.Group
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
		userID = uuid.NewV4().String()

		customer, err = eng.Groups().CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
			Name:        "Customer",
			Permissions: []string{"guest", "account/profile"},
		})
		Expect(err).NotTo(HaveOccurred())

		managers, err = eng.Groups().CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
			Name:        "Shop Manager",
			Permissions: []string{"orders/view", "product/write"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("#AddUser", func() {
		It("adds the user and replaces their shop permissions with the group's", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(Equal(customer.Permissions))

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(Equal([]reaction.Group{customer}))
		})

		It("consults the oracle with the group's shop", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(authorizer.inviteCalls).To(Equal([]inviteCall{{
				actor:   actor,
				shopID:  shopID,
				groupID: customer.ID,
			}}))
		})

		It("replaces the projection when the user moves to another group", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().AddUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(Equal(managers.Permissions))
		})

		It("denies the write and leaves membership and projection untouched", func() {
			authorizer.canInvite = false

			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).To(Equal(errdefs.NewErrAccessDenied("add-user")))

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(BeEmpty())

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(BeEmpty())
		})

		It("propagates an oracle failure without writing", func() {
			oracleErr := errors.New("oracle unavailable")
			authorizer.canInviteErr = oracleErr

			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).To(Equal(oracleErr))

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(BeEmpty())
		})

		It("fails before consulting the oracle when the group does not exist", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, uuid.NewV4().String())

			Expect(err).To(Equal(reaction.ErrGroupNotFound))
			Expect(authorizer.inviteCalls).To(BeEmpty())
		})

		It("rejects an empty user id", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, "", customer.ID)
			Expect(err).To(Equal(reaction.ErrUserIDEmpty))
		})

		It("emits request metrics", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(statter.IncCalls()).To(ContainElement(testmetrics.IncCall{
				Metric: "reaction.count.AddUser",
				Value:  1,
			}))
			Expect(statter.GaugeCalls()).To(ContainElement(testmetrics.GaugeCall{
				Metric: "reaction.success.AddUser",
				Value:  1,
			}))
		})
	})

	Describe("#RemoveUser", func() {
		It("removes the user and projects the shop default group's permissions", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().RemoveUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(Equal(customer.Permissions))

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(BeEmpty())
		})

		It("projects the default group's permissions even when removing from the default group itself", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().RemoveUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(Equal(customer.Permissions))

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(BeEmpty())
		})

		It("fails before mutating when the shop has no default group", func() {
			bareShopID := "shop-2"
			bare, err := eng.Groups().CreateGroup(context.Background(), actor, bareShopID, reaction.GroupSpec{
				Name:        "Shop Manager",
				Permissions: []string{"orders/view"},
			})
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().AddUser(context.Background(), actor, userID, bare.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().RemoveUser(context.Background(), actor, userID, bare.ID)
			Expect(err).To(Equal(reaction.ErrDefaultGroupNotFound))

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, bareShopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(Equal([]reaction.Group{bare}))

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, bareShopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(Equal(bare.Permissions))
		})

		It("fails when the user is not a member", func() {
			err := eng.Memberships().RemoveUser(context.Background(), actor, userID, managers.ID)
			Expect(err).To(Equal(reaction.ErrMembershipNotFound))
		})

		It("denies the removal and leaves the membership in place", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			authorizer.canInvite = false

			err = eng.Memberships().RemoveUser(context.Background(), actor, userID, managers.ID)
			Expect(err).To(Equal(errdefs.NewErrAccessDenied("remove-user")))

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(Equal([]reaction.Group{managers}))

			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(Equal(managers.Permissions))
		})

		It("rejects an empty user id", func() {
			err := eng.Memberships().RemoveUser(context.Background(), actor, "", managers.ID)
			Expect(err).To(Equal(reaction.ErrUserIDEmpty))
		})
	})

	Describe("#ListUserPermissions", func() {
		It("returns nothing for a user with no projection in the shop", func() {
			permissions, err := eng.Memberships().ListUserPermissions(context.Background(), userID, shopID)

			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(BeEmpty())
		})
	})

	Describe("#ListGroupMembers", func() {
		It("returns one membership per current member", func() {
			otherUserID := uuid.NewV4().String()

			err := eng.Memberships().AddUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().AddUser(context.Background(), actor, otherUserID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			members, err := eng.Memberships().ListGroupMembers(context.Background(), managers.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(ConsistOf(
				reaction.Membership{UserID: userID, GroupID: managers.ID},
				reaction.Membership{UserID: otherUserID, GroupID: managers.ID},
			))
		})

		It("returns nothing for a group with no members", func() {
			members, err := eng.Memberships().ListGroupMembers(context.Background(), managers.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(BeEmpty())
		})

		It("no longer lists a removed member", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().RemoveUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			members, err := eng.Memberships().ListGroupMembers(context.Background(), managers.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(BeEmpty())
		})

		It("fails when the group does not exist", func() {
			_, err := eng.Memberships().ListGroupMembers(context.Background(), uuid.NewV4().String())

			Expect(err).To(Equal(reaction.ErrGroupNotFound))
		})
	})

	Describe("#ListUserGroups", func() {
		It("returns the user's groups in the shop with their full records", func() {
			err := eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().AddUser(context.Background(), actor, userID, managers.ID)
			Expect(err).NotTo(HaveOccurred())

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)

			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(ConsistOf(customer, managers))
		})

		It("excludes memberships from other shops", func() {
			otherShopGroup, err := eng.Groups().CreateGroup(context.Background(), actor, "shop-2", reaction.GroupSpec{
				Name:        "Customer",
				Permissions: []string{"guest"},
			})
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().AddUser(context.Background(), actor, userID, customer.ID)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Memberships().AddUser(context.Background(), actor, userID, otherShopGroup.ID)
			Expect(err).NotTo(HaveOccurred())

			groups, err := eng.Memberships().ListUserGroups(context.Background(), userID, shopID)

			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(Equal([]reaction.Group{customer}))
		})
	})
})
