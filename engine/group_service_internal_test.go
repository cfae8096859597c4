package engine

import (
	"context"
	"errors"
	"time"

	"code.cloudfoundry.org/lager/lagertest"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	uuid "github.com/satori/go.uuid"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/internal/repos/inmemory"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/logx/lagerx"
	"github.com/JohnathanALves/reaction/metrics/testmetrics"
)

// allowAll authorizes everything; the specs below exercise the write
// paths, not the oracle.
type allowAll struct{}

func (allowAll) CanAdminister(context.Context, reaction.Actor, string) (bool, error) {
	return true, nil
}

func (allowAll) CanInvite(context.Context, reaction.Actor, string, string) (bool, error) {
	return true, nil
}

// flakyStore fails ReplaceMemberPermissions a configured number of
// times per user and can report members that no longer exist.
type flakyStore struct {
	*inmemory.Store

	failures         map[string]int
	phantomMemberIDs []string
}

func (s *flakyStore) ReplaceMemberPermissions(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	g reaction.Group,
) (bool, error) {
	if s.failures[userID] > 0 {
		s.failures[userID]--
		return false, errors.New("projection write refused")
	}

	return s.Store.ReplaceMemberPermissions(ctx, logger, userID, g)
}

func (s *flakyStore) ListGroupMemberIDs(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListGroupMemberIDsQuery,
) ([]string, error) {
	memberIDs, err := s.Store.ListGroupMemberIDs(ctx, logger, query)
	if err != nil {
		return nil, err
	}

	return append(memberIDs, s.phantomMemberIDs...), nil
}

// conflictingStore reports a version conflict for a configured number
// of writes before letting them through.
type conflictingStore struct {
	*inmemory.Store

	conflicts int
}

func (s *conflictingStore) UpdateGroup(
	ctx context.Context,
	logger logx.Logger,
	group reaction.Group,
) (reaction.Group, error) {
	if s.conflicts > 0 {
		s.conflicts--
		return reaction.Group{}, reaction.ErrGroupConflict
	}

	return s.Store.UpdateGroup(ctx, logger, group)
}

var _ = Describe("group update fan-out", func() {
	var (
		store   *flakyStore
		subject *GroupService

		logger logx.Logger

		actor  reaction.Actor
		shopID string

		customer reaction.Group
	)

	BeforeEach(func() {
		store = &flakyStore{
			Store:    inmemory.NewStore(),
			failures: map[string]int{},
		}

		logger = lagerx.NewLogger(lagertest.NewTestLogger("reaction-test"))
		subject = newGroupService(logger, testmetrics.NewStatter(), allowAll{}, store, store, store)

		actor = reaction.Actor{ID: "admin-1", Namespace: "shopkeeper"}
		shopID = "shop-1"

		var err error
		customer, err = subject.CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
			Name:        "Customer",
			Permissions: []string{"guest"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps the updated group and reports how much of the fan-out failed", func() {
		alice := uuid.NewV4().String()
		bob := uuid.NewV4().String()

		Expect(store.AddMember(context.Background(), logger, alice, customer)).To(Succeed())
		Expect(store.AddMember(context.Background(), logger, bob, customer)).To(Succeed())

		store.failures[bob] = cascadeAttemptsPerMember

		permissions := []string{"guest", "product"}
		updated, err := subject.UpdateGroup(context.Background(), actor, shopID, customer.ID, reaction.GroupUpdate{
			Permissions: &permissions,
		})

		Expect(err).To(Equal(reaction.NewErrGroupCascadeIncomplete(1, 2)))
		Expect(updated.Permissions).To(Equal(permissions))
		Expect(updated.Version).To(Equal(customer.Version + 1))

		aliceProjection, err := store.ListUserShopPermissions(context.Background(), logger, repos.ListUserShopPermissionsQuery{
			UserID: alice,
			ShopID: shopID,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(aliceProjection).To(Equal(permissions))

		bobProjection, err := store.ListUserShopPermissions(context.Background(), logger, repos.ListUserShopPermissionsQuery{
			UserID: bob,
			ShopID: shopID,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(bobProjection).To(Equal([]string{"guest"}))
	})

	It("retries a flaky projection write until it lands", func() {
		alice := uuid.NewV4().String()

		Expect(store.AddMember(context.Background(), logger, alice, customer)).To(Succeed())

		store.failures[alice] = cascadeAttemptsPerMember - 1

		permissions := []string{"guest", "product"}
		_, err := subject.UpdateGroup(context.Background(), actor, shopID, customer.ID, reaction.GroupUpdate{
			Permissions: &permissions,
		})

		Expect(err).NotTo(HaveOccurred())

		projection, err := store.ListUserShopPermissions(context.Background(), logger, repos.ListUserShopPermissionsQuery{
			UserID: alice,
			ShopID: shopID,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(projection).To(Equal(permissions))
	})

	It("skips members that disappeared between the write and the fan-out", func() {
		ghost := uuid.NewV4().String()
		store.phantomMemberIDs = []string{ghost}

		permissions := []string{"guest", "product"}
		_, err := subject.UpdateGroup(context.Background(), actor, shopID, customer.ID, reaction.GroupUpdate{
			Permissions: &permissions,
		})

		Expect(err).NotTo(HaveOccurred())

		projection, err := store.ListUserShopPermissions(context.Background(), logger, repos.ListUserShopPermissionsQuery{
			UserID: ghost,
			ShopID: shopID,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(projection).To(BeEmpty())
	})
})

var _ = Describe("group update version conflicts", func() {
	var (
		store   *conflictingStore
		subject *GroupService

		actor  reaction.Actor
		shopID string

		customer reaction.Group
	)

	BeforeEach(func() {
		store = &conflictingStore{Store: inmemory.NewStore()}

		logger := lagerx.NewLogger(lagertest.NewTestLogger("reaction-test"))
		subject = newGroupService(logger, testmetrics.NewStatter(), allowAll{}, store, store, store)

		actor = reaction.Actor{ID: "admin-1", Namespace: "shopkeeper"}
		shopID = "shop-1"

		var err error
		customer, err = subject.CreateGroup(context.Background(), actor, shopID, reaction.GroupSpec{
			Name:        "Customer",
			Permissions: []string{"guest"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("re-reads and retries while the version moves underneath", func() {
		store.conflicts = updateGroupWriteAttempts - 1

		name := "Shopper"
		updated, err := subject.UpdateGroup(context.Background(), actor, shopID, customer.ID, reaction.GroupUpdate{
			Name: &name,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Name).To(Equal("Shopper"))
		Expect(updated.Version).To(Equal(customer.Version + 1))
	})

	It("gives up after repeated conflicts", func() {
		store.conflicts = updateGroupWriteAttempts

		name := "Shopper"
		_, err := subject.UpdateGroup(context.Background(), actor, shopID, customer.ID, reaction.GroupUpdate{
			Name: &name,
		})

		Expect(err).To(Equal(reaction.ErrGroupConflict))
	})
})

var _ = Describe("recordRequest", func() {
	It("emits count, success, and duration", func() {
		statter := testmetrics.NewStatter()

		recordRequest(statter, "AddUser", time.Now(), nil)

		Expect(statter.IncCalls()).To(Equal([]testmetrics.IncCall{{
			Metric: "reaction.count.AddUser",
			Value:  1,
		}}))
		Expect(statter.GaugeCalls()).To(Equal([]testmetrics.GaugeCall{{
			Metric: "reaction.success.AddUser",
			Value:  1,
		}}))
		Expect(statter.TimingDurationCalls()).To(HaveLen(1))
		Expect(statter.TimingDurationCalls()[0].Metric).To(Equal("reaction.requestduration.AddUser"))
	})

	It("reports failure as success=0", func() {
		statter := testmetrics.NewStatter()

		recordRequest(statter, "AddUser", time.Now(), errors.New("refused"))

		Expect(statter.GaugeCalls()).To(Equal([]testmetrics.GaugeCall{{
			Metric: "reaction.success.AddUser",
			Value:  0,
		}}))
	})
})

var _ = Describe("deriveSlug", func() {
	It("lowercases and hyphenates the name", func() {
		Expect(deriveSlug("Shop Manager")).To(Equal("shop-manager"))
	})

	It("collapses runs of separators", func() {
		Expect(deriveSlug("Shop   Manager!!")).To(Equal("shop-manager"))
	})

	It("trims leading and trailing separators", func() {
		Expect(deriveSlug("  Very Important Shoppers  ")).To(Equal("very-important-shoppers"))
	})

	It("keeps digits", func() {
		Expect(deriveSlug("Tier 2")).To(Equal("tier-2"))
	})
})

var _ = Describe("normalizePermissions", func() {
	It("drops duplicates, keeping first-occurrence order", func() {
		Expect(normalizePermissions([]string{"guest", "product", "guest", "tag"})).To(
			Equal([]string{"guest", "product", "tag"}))
	})

	It("passes nil through", func() {
		Expect(normalizePermissions(nil)).To(BeNil())
	})
})
