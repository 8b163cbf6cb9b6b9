package frameenc

import (
	"context"

	"github.com/asticode/go-astiav"
)

// packetSlot hands out the single packet of a session. At most one
// checkout may be outstanding, and the packet is unreferenced on return.
type packetSlot struct {
	packet     *astiav.Packet
	checkedOut bool
}

func newPacketSlot(packet *astiav.Packet) *packetSlot {
	return &packetSlot{packet: packet}
}

func (s *packetSlot) checkout(ctx context.Context) *astiav.Packet {
	assert(ctx, !s.checkedOut, "the packet is already checked out")
	s.checkedOut = true
	return s.packet
}

func (s *packetSlot) giveBack(ctx context.Context, packet *astiav.Packet) {
	assert(ctx, s.checkedOut, "the packet was not checked out")
	assert(ctx, packet == s.packet, "returning a foreign packet")
	packet.Unref()
	s.checkedOut = false
}
