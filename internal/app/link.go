package app

// Link is either Connected or Disconnected.
type Link interface {
	isLink()
}

// Connected owns the engine connection for the lifetime of the state.
type Connected struct {
	Conn Conn
	Path string
}

// Disconnected records why no connection is available.
type Disconnected struct {
	Reason string
}

func (Connected) isLink()    {}
func (Disconnected) isLink() {}

func describeLink(l Link) string {
	switch l := l.(type) {
	case Connected:
		return "engine: connected " + l.Path
	case Disconnected:
		return "engine: offline"
	default:
		return "engine: unknown"
	}
}
