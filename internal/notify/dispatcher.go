package notify

import (
	"fmt"
	"log"
	"sync"
)

// Dispatcher fans a message out to configured channels. Channel failures
// are independent: one bad channel never blocks the rest.
type Dispatcher struct {
	sender Sender
}

// NewDispatcher creates a dispatcher. A nil sender uses the live one.
func NewDispatcher(sender Sender) *Dispatcher {
	if sender == nil {
		sender = LiveSender{}
	}
	return &Dispatcher{sender: sender}
}

// Dispatch sends the same message to every channel, concurrently, and
// returns the number of successful deliveries. Failures are logged and
// swallowed; the next scheduled run is the retry mechanism.
func (d *Dispatcher) Dispatch(message string, channels []Channel) int {
	if message == "" || len(channels) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, ch := range channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := d.sender.Send(ch, message); err != nil {
				log.Printf("notify: send to %s (%s) failed: %v", ch.Name, ch.ChannelType, err)
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}(ch)
	}
	wg.Wait()
	return sent
}

// TestSend delivers a canned test message to a single channel so its
// configuration can be validated before saving.
func (d *Dispatcher) TestSend(ch Channel) error {
	if err := ValidateChannel(ch.ChannelType, ch.ConfigJSON); err != nil {
		return err
	}
	return d.sender.Send(ch, testMessage(ch.ChannelType))
}

func testMessage(channelType string) string {
	switch channelType {
	case TypeTelegram:
		return "✅ **Domain Monitor Test**\n\nTelegram connection is working!\nThis message confirms that your bot can send messages to this chat."
	case TypeMattermost:
		return "✅ **Domain Monitor Test**\nMattermost integration is working!"
	case TypeSlack:
		return "✅ **Domain Monitor Test**\nSlack connected!"
	default:
		return fmt.Sprintf("✅ Domain Monitor Test\n%s channel connected!", channelType)
	}
}
