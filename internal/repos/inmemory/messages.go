package inmemory

const (
	errGroupAlreadyExists = "err-group-already-exists"
	errGroupConflict      = "err-group-conflict"
)
