package db

import "github.com/JohnathanALves/reaction"

// group pairs a shop_group row's internal key with the public model.
type group struct {
	id int64
	reaction.Group
}
