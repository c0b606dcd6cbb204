// Package pathcodec packs routes into the byte paths consumed by the swap router and
// unpacks them again.
//
// A path is token_0 | marker_0 | token_1 | ... | marker_{n-1} | token_n where every token is a
// 20-byte address and every marker is a 3-byte big-endian integer: the pool fee tier for a
// concentrated-liquidity hop, or V2Marker for a constant-product hop.
package pathcodec

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/pool"
	"github.com/ggonzalez94/swaprouter/internal/route"
)

const (
	markerLength = 3
	hopLength    = common.AddressLength + markerLength
)

// V2Marker occupies the fee slot of a constant-product hop. Its top bit can never be set by a
// real fee tier.
const V2Marker uint32 = 0x800000

// Marker describes one hop of a decoded path.
type Marker struct {
	Kind pool.Kind
	// Fee is zero for constant-product hops.
	Fee pool.FeeAmount
}

func (m Marker) value() uint32 {
	if m.Kind == pool.KindPair {
		return V2Marker
	}
	return uint32(m.Fee)
}

func (m Marker) String() string {
	if m.Kind == pool.KindPair {
		return "v2"
	}
	return fmt.Sprintf("v3:%d", m.Fee)
}

// Path is the decoded form of an encoded route. len(Tokens) == len(Markers)+1.
type Path struct {
	Tokens  []common.Address
	Markers []Marker
}

// Bytes packs the path without padding.
func (p Path) Bytes() []byte {
	out := make([]byte, 0, EncodedLength(len(p.Markers)))
	for i, token := range p.Tokens {
		out = append(out, token.Bytes()...)
		if i < len(p.Markers) {
			v := p.Markers[i].value()
			out = append(out, byte(v>>16), byte(v>>8), byte(v))
		}
	}
	return out
}

// Hex returns the lowercase 0x-prefixed encoding.
func (p Path) Hex() string {
	return hexutil.Encode(p.Bytes())
}

func (p Path) reversed() Path {
	out := Path{
		Tokens:  make([]common.Address, len(p.Tokens)),
		Markers: make([]Marker, len(p.Markers)),
	}
	for i, token := range p.Tokens {
		out.Tokens[len(p.Tokens)-1-i] = token
	}
	for i, m := range p.Markers {
		out.Markers[len(p.Markers)-1-i] = m
	}
	return out
}

// EncodedLength is the byte length of a path with the given number of hops.
func EncodedLength(hops int) int {
	return common.AddressLength + hops*hopLength
}

// EncodeMixedRoute packs r in hop order. Native endpoints appear as their wrapped token.
func EncodeMixedRoute(r route.Route) (string, error) {
	p, err := FromRoute(r)
	if err != nil {
		return "", err
	}
	return p.Hex(), nil
}

// EncodeV3Route packs a pools-only route. With exactOutput the path is written from the
// output token back to the input token.
func EncodeV3Route(r *route.V3Route, exactOutput bool) (string, error) {
	p, err := FromRoute(r)
	if err != nil {
		return "", err
	}
	if exactOutput {
		p = p.reversed()
	}
	return p.Hex(), nil
}

// FromRoute builds the structured path of r.
func FromRoute(r route.Route) (Path, error) {
	hops := r.Hops()
	tokens := r.Path()
	p := Path{
		Tokens:  make([]common.Address, 0, len(tokens)),
		Markers: make([]Marker, 0, len(hops)),
	}
	for _, token := range tokens {
		p.Tokens = append(p.Tokens, token.Address)
	}
	for i, hop := range hops {
		m, err := markerFor(i, hop)
		if err != nil {
			return Path{}, err
		}
		p.Markers = append(p.Markers, m)
	}
	return p, nil
}

func markerFor(i int, hop pool.PoolOrPair) (Marker, error) {
	switch hop.Kind() {
	case pool.KindPair:
		return Marker{Kind: pool.KindPair}, nil
	case pool.KindPool:
		fee := hop.Pool().Fee()
		if !fee.Known() {
			return Marker{}, clierr.Newf(clierr.CodeUnsupportedFeeTier, "hop %d: unsupported fee tier %d", i, fee)
		}
		return Marker{Kind: pool.KindPool, Fee: fee}, nil
	default:
		return Marker{}, clierr.Newf(clierr.CodeInternal, "hop %d is uninitialized", i)
	}
}

// Decode parses an encoded path. The 0x prefix is optional.
func Decode(input string) (Path, error) {
	raw := strings.TrimSpace(input)
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	b, err := hexutil.Decode(raw)
	if err != nil {
		return Path{}, clierr.Wrap(clierr.CodeMalformedPath, "decode path hex", err)
	}
	if len(b) < EncodedLength(1) || (len(b)-common.AddressLength)%hopLength != 0 {
		return Path{}, clierr.Newf(clierr.CodeMalformedPath, "path length %d is not 20 + 23*n bytes", len(b))
	}

	hops := (len(b) - common.AddressLength) / hopLength
	p := Path{
		Tokens:  make([]common.Address, 0, hops+1),
		Markers: make([]Marker, 0, hops),
	}
	for i := 0; i < hops; i++ {
		offset := i * hopLength
		p.Tokens = append(p.Tokens, common.BytesToAddress(b[offset:offset+common.AddressLength]))
		m := b[offset+common.AddressLength : offset+hopLength]
		v := uint32(m[0])<<16 | uint32(m[1])<<8 | uint32(m[2])
		if v == V2Marker {
			p.Markers = append(p.Markers, Marker{Kind: pool.KindPair})
		} else {
			p.Markers = append(p.Markers, Marker{Kind: pool.KindPool, Fee: pool.FeeAmount(v)})
		}
	}
	p.Tokens = append(p.Tokens, common.BytesToAddress(b[len(b)-common.AddressLength:]))
	return p, nil
}
