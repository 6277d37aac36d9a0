package state

// session is the part of a stream session the registry needs.
type session interface {
	ID() string
	Close()
}
