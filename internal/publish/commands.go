package publish

import (
	"context"
	"strings"
	"time"

	"aircon-bridge/internal/logger"
)

// CommandFilter matches <entity_id>/set/<command> under the topic root.
const CommandFilter = "+/set/+"

const commandTimeout = 2 * time.Minute

// Commander runs a command given as plain strings.
type Commander interface {
	Command(ctx context.Context, id, command, payload string) error
}

// Subscriber is the part of Client the command listener needs.
type Subscriber interface {
	Subscribe(filter string, handler func(topic string, payload []byte)) error
}

// ParseCommandTopic splits a root-relative topic of the form
// <entity_id>/set/<command>.
func ParseCommandTopic(topic string) (entityID, command string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[1] != "set" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

// CommandListener routes command messages to a Commander.
type CommandListener struct {
	ctx       context.Context
	commander Commander
}

// NewCommandListener returns a listener whose commands are cancelled with ctx.
func NewCommandListener(ctx context.Context, commander Commander) *CommandListener {
	return &CommandListener{ctx: ctx, commander: commander}
}

// Listen subscribes to command topics on s.
func (l *CommandListener) Listen(s Subscriber) error {
	return s.Subscribe(CommandFilter, func(topic string, payload []byte) {
		// Commands block until the controller has been re-read; keep the
		// client's message router free while they run.
		go l.Handle(topic, payload)
	})
}

// Handle runs one command message. Payloads may be bare or JSON-quoted
// strings.
func (l *CommandListener) Handle(topic string, payload []byte) error {
	entityID, command, ok := ParseCommandTopic(topic)
	if !ok {
		logger.Warn("ignoring message on unexpected topic %q", topic)
		return nil
	}

	ctx, cancel := context.WithTimeout(l.ctx, commandTimeout)
	defer cancel()

	arg := strings.Trim(strings.TrimSpace(string(payload)), `"`)
	err := l.commander.Command(ctx, entityID, command, arg)
	if err != nil {
		logger.Warn("mqtt command %s on %s failed: %v", command, entityID, err)
	}
	return err
}
