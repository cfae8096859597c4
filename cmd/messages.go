package cmd

const (
	starting = "starting"
	finished = "finished"

	groupAlreadyProvisioned = "group-already-provisioned"
)
