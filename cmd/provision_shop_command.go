package cmd

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/cmd/flags"
	"github.com/JohnathanALves/reaction/engine"
	"github.com/JohnathanALves/reaction/logx"
)

type ProvisionShopCommand struct {
	Logger flags.LagerFlag

	ShopID      string   `long:"shop-id" description:"Shop to provision" required:"true"`
	Name        string   `long:"name" description:"Name of the shop's default group" default:"Customer"`
	Permissions []string `long:"permission" description:"Permission granted by the default group; repeatable" default:"guest" default:"account/profile" default:"product" default:"tag" default:"index" default:"cart/completed"`

	SQL    flags.DBFlag     `group:"SQL" namespace:"sql"`
	StatsD flags.StatsDFlag `group:"StatsD" namespace:"statsd"`
}

func (cmd ProvisionShopCommand) Execute([]string) error {
	logger := cmd.Logger.Logger("reaction-groups").WithName("provision-shop").WithData(
		logx.Data{Key: "shop_id", Value: cmd.ShopID},
	)
	logger.Debug(starting)

	ctx := context.Background()

	conn, err := cmd.SQL.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	statter, err := cmd.StatsD.Statter(logger)
	if err != nil {
		return err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithDBConn(conn),
		engine.WithAuthorizer(operatorAuthorizer{}),
	}
	if statter != nil {
		opts = append(opts, engine.WithStatter(statter))
	}

	eng, err := engine.New(opts...)
	if err != nil {
		return err
	}

	actor := reaction.Actor{ID: "operator", Namespace: "cli"}

	g, err := eng.Groups().CreateGroup(ctx, actor, cmd.ShopID, reaction.GroupSpec{
		Name:        cmd.Name,
		Slug:        engine.DefaultGroupSlug,
		Permissions: cmd.Permissions,
	})
	switch err {
	case nil:
	case reaction.ErrGroupAlreadyExists:
		logger.Info(groupAlreadyProvisioned)

		g, err = findShopGroupByName(ctx, eng, cmd.ShopID, cmd.Name)
		if err != nil {
			return err
		}
	default:
		return err
	}

	err = eng.Defaults().SetDefault(ctx, actor, cmd.ShopID, g.ID)
	if err != nil {
		return err
	}

	logger.Info(finished, logx.Data{Key: "group.id", Value: g.ID})

	return nil
}

func findShopGroupByName(ctx context.Context, eng *engine.Engine, shopID, name string) (reaction.Group, error) {
	groups, err := eng.Groups().ListShopGroups(ctx, shopID)
	if err != nil {
		return reaction.Group{}, err
	}

	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}

	return reaction.Group{}, reaction.ErrGroupNotFound
}

// operatorAuthorizer trusts the operator running the CLI; provisioning
// happens out of band of any user session.
type operatorAuthorizer struct{}

func (operatorAuthorizer) CanAdminister(context.Context, reaction.Actor, string) (bool, error) {
	return true, nil
}

func (operatorAuthorizer) CanInvite(context.Context, reaction.Actor, string, string) (bool, error) {
	return true, nil
}
