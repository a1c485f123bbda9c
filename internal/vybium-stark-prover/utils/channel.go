package utils

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/core"
)

// Channel is a Fiat-Shamir transcript. The prover absorbs every public
// value and every commitment in protocol order; challenges are squeezed
// from the running state, so each one depends on everything absorbed
// before it and on nothing absorbed after.
type Channel struct {
	state      []byte
	transcript []string
}

// NewChannel creates an empty transcript channel.
func NewChannel() *Channel {
	return &Channel{
		state:      []byte{0},
		transcript: make([]string, 0, 64),
	}
}

// Absorb mixes data into the channel state.
func (c *Channel) Absorb(data []byte) {
	c.transcript = append(c.transcript, fmt.Sprintf("absorb:%s", hex.EncodeToString(data)))
	h := sha3.Sum256(append(c.state, data...))
	c.state = h[:]
}

// SqueezeFelt derives a field element from the channel state and advances
// the state so repeated squeezes yield independent challenges.
func (c *Channel) SqueezeFelt() core.Felt {
	felt := core.NewFelt(core.U256FromBytes(c.state))
	c.transcript = append(c.transcript, fmt.Sprintf("squeeze:%s", felt.String()))
	h := sha3.Sum256(c.state)
	c.state = h[:]
	return felt
}

// SqueezeFelts squeezes n field elements.
func (c *Channel) SqueezeFelts(n int) []core.Felt {
	out := make([]core.Felt, n)
	for i := range out {
		out[i] = c.SqueezeFelt()
	}
	return out
}

// State returns a copy of the current channel state.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Transcript returns a copy of the interaction log.
func (c *Channel) Transcript() []string {
	return append([]string(nil), c.transcript...)
}

// String returns the interaction log as a single line.
func (c *Channel) String() string {
	return strings.Join(c.transcript, " ")
}
