package facade

// listenerNotifier broadcasts call events to a fixed listener snapshot.
// The first listener error stops the broadcast.
type listenerNotifier struct {
	listeners []Listener
}

func newListenerNotifier(listeners []Listener) *listenerNotifier {
	return &listenerNotifier{listeners: append([]Listener(nil), listeners...)}
}

func (n *listenerNotifier) beforeMethodCall(inv *Invocation) error {
	for _, l := range n.listeners {
		if err := l.BeforeMethodCall(inv); err != nil {
			return err
		}
	}
	return nil
}

func (n *listenerNotifier) afterMethodCall(inv *Invocation) error {
	for _, l := range n.listeners {
		if err := l.AfterMethodCall(inv); err != nil {
			return err
		}
	}
	return nil
}

func (n *listenerNotifier) onMethodFailure(inv *Invocation) error {
	for _, l := range n.listeners {
		if err := l.OnMethodFailure(inv); err != nil {
			return err
		}
	}
	return nil
}
