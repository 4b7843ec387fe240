package task

// Route maps a payload to the handler capable of executing it. Each payload
// variant is its own handler, so this is a capability dispatch rather than a
// lookup table with external state. The type switch must stay exhaustive
// over the closed sum; a nil return means a variant was added without a
// Route arm and the runner will mark the record as errored.
func Route(p Payload) Handler {
	switch h := p.(type) {
	case *CategoryPayload:
		return h
	case *ChannelPayload:
		return h
	case *RolePayload:
		return h
	case *MessagePayload:
		return h
	case *ThreadPayload:
		return h
	default:
		return nil
	}
}
