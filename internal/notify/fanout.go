package notify

// Sender is the delivery contract shared by the Telegram dispatcher and the
// AMQP fan-out. All methods are best-effort and report success as a bool.
type Sender interface {
	Enabled() bool
	SendMessage(text string) bool
	SendRegionAlert(region string, isAlert bool, previous *bool) bool
	SendSystemAlert(message, priority string) bool
}

// Fanout delivers every notification through all configured senders. A
// notification counts as delivered when at least one sender confirms it.
type Fanout struct {
	senders []Sender
}

func NewFanout(senders ...Sender) *Fanout {
	return &Fanout{senders: senders}
}

func (f *Fanout) Enabled() bool {
	for _, s := range f.senders {
		if s.Enabled() {
			return true
		}
	}
	return false
}

func (f *Fanout) SendMessage(text string) bool {
	ok := false
	for _, s := range f.senders {
		if s.SendMessage(text) {
			ok = true
		}
	}
	return ok
}

func (f *Fanout) SendRegionAlert(region string, isAlert bool, previous *bool) bool {
	ok := false
	for _, s := range f.senders {
		if s.SendRegionAlert(region, isAlert, previous) {
			ok = true
		}
	}
	return ok
}

func (f *Fanout) SendSystemAlert(message, priority string) bool {
	ok := false
	for _, s := range f.senders {
		if s.SendSystemAlert(message, priority) {
			ok = true
		}
	}
	return ok
}
