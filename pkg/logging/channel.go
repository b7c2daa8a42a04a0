package logging

// Channel identifies one of the fixed logical logging destinations. Each
// channel is resolved by name against the active pipeline on every record.
type Channel int

const (
	ChannelMain Channel = iota
	ChannelHardware

	channelCount
)

// Channels lists every channel.
var Channels = []Channel{ChannelMain, ChannelHardware}

// String returns the logger name the channel is bound to in configuration
// documents.
func (c Channel) String() string {
	switch c {
	case ChannelMain:
		return "main"
	case ChannelHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// ParseChannel returns the channel bound to a logger name.
func ParseChannel(name string) (Channel, bool) {
	for _, c := range Channels {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
