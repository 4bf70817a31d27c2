package app

//go:generate mockgen -source=interfaces.go -destination=../mock/conn_mock.go -package=mock

// Conn is the transport handle held by a connected state.
type Conn interface {
	// Send writes one encoded command line.
	Send(message string) error
	// Receive blocks for the next inbound line.
	Receive() (string, error)
	// Close releases the connection.
	Close() error
}
